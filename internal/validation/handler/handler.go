// Package handler exposes the validation engine over HTTP for the admin
// frontend: one endpoint answering "which rules would this operation
// violate" without performing the operation.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"innovation-admin/internal/platform/metrics"
	"innovation-admin/internal/platform/middleware"
	"innovation-admin/internal/validation"
	"innovation-admin/internal/validation/models"
	dErrors "innovation-admin/pkg/domain-errors"
	"innovation-admin/pkg/platform/httputil"
)

// Handler serves the admin validation endpoints.
type Handler struct {
	registry     *validation.Registry
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a validation Handler.
func New(
	registry *validation.Registry,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		registry:     registry,
		logger:       logger,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the validation routes on the given router.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	router.Use(middleware.Recovery(h.logger))
	router.Use(middleware.RequestID)
	router.Use(middleware.RequestTime)
	router.Use(middleware.Logger(h.logger))
	router.Use(middleware.Timeout(30 * time.Second))
	router.Use(middleware.ContentTypeJSON)
	router.Use(middleware.Latency(h.metrics))
	router.Use(middleware.RequireAdmin(h.jwtValidator, h.logger))
	router.Post("/admin/v1/validations/{operation}", h.handleValidate)

	r.Mount("/", router)
}

// handleValidate runs the precondition checks of one operation and returns
// the per-rule verdicts. It never mutates state.
func (h *Handler) handleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	op, ok := models.ParseOperation(chi.URLParam(r, "operation"))
	if !ok {
		httputil.WriteError(w, dErrors.Newf(dErrors.CodeBadRequest, "unknown operation %q", chi.URLParam(r, "operation")))
		return
	}

	payload, err := decodeValidationRequest(r)
	if err != nil {
		h.logger.WarnContext(ctx, "invalid validation request",
			"operation", op.String(),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}

	results, err := h.registry.Run(ctx, op, payload)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInternal) {
			h.logger.ErrorContext(ctx, "validation run failed",
				"operation", op.String(),
				"error", err.Error(),
			)
		}
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, toValidationResponse(results))
}
