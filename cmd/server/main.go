package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"innovation-admin/internal/audit"
	jwttoken "innovation-admin/internal/jwt_token"
	"innovation-admin/internal/platform/config"
	"innovation-admin/internal/platform/httpserver"
	"innovation-admin/internal/platform/logger"
	"innovation-admin/internal/platform/metrics"
	platformredis "innovation-admin/internal/platform/redis"
	usershandler "innovation-admin/internal/users/handler"
	usersservice "innovation-admin/internal/users/service"
	userstore "innovation-admin/internal/users/store"
	"innovation-admin/internal/validation"
	valhandler "innovation-admin/internal/validation/handler"
	valmetrics "innovation-admin/internal/validation/metrics"
	valstore "innovation-admin/internal/validation/store"
	"innovation-admin/pkg/platform/tx"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	db, err := openDatabase(cfg.Database)
	if err != nil {
		log.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	var gateway validation.QueryGateway = valstore.NewPostgres(db)
	if redisClient != nil {
		gateway = valstore.NewCached(gateway, redisClient.Client,
			valstore.WithCacheTTL(cfg.Redis.CacheTTL),
			valstore.WithCacheLogger(log))
		log.Info("query gateway cache enabled", "ttl", cfg.Redis.CacheTTL)
	}

	publisher, closePublisher, err := newAuditPublisher(cfg.Kafka, log)
	if err != nil {
		log.Error("audit publisher unavailable", "error", err)
		os.Exit(1)
	}
	defer closePublisher()

	registry := validation.NewRegistry(gateway,
		validation.WithLogger(log),
		validation.WithMetrics(valmetrics.New()))

	users := usersservice.New(registry, userstore.NewPostgres(db), tx.NewSQLRunner(db),
		publisher, usersservice.WithLogger(log))

	jwtService := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey,
		cfg.Auth.JWTIssuer, cfg.Auth.JWTAudience)
	httpMetrics := metrics.New()

	router := chi.NewRouter()
	valhandler.New(registry, log, httpMetrics, jwtService).Register(router)
	usershandler.New(users, log, httpMetrics, jwtService).Register(router)
	router.Handle("/metrics", promhttp.Handler())
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			http.Error(w, "database unreachable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httpserver.New(cfg.Server.Addr, router)

	go func() {
		log.Info("starting innovation-admin", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

func openDatabase(cfg config.Database) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// newAuditPublisher picks Kafka when brokers are configured and falls back
// to the in-memory sink, which is only suitable for local runs.
func newAuditPublisher(cfg config.Kafka, log *slog.Logger) (audit.Publisher, func(), error) {
	if len(cfg.Brokers) == 0 {
		log.Warn("no kafka brokers configured, audit events stay in memory")
		return audit.NewMemoryPublisher(), func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	publisher, err := audit.NewKafkaPublisher(ctx, cfg.Brokers, cfg.AuditTopic, log)
	if err != nil {
		return nil, nil, err
	}
	return publisher, publisher.Close, nil
}
