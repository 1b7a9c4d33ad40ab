package validation

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	valmetrics "innovation-admin/internal/validation/metrics"
	"innovation-admin/internal/validation/models"
	dErrors "innovation-admin/pkg/domain-errors"
)

// handlerFunc is one operation handler: given the payload, it selects and
// runs the applicable rule evaluators.
type handlerFunc func(ctx context.Context, e *Evaluators, p models.Payload) ([]models.ValidationResult, error)

// handlers binds each operation to its handler at compile time. There is no
// runtime registration: an operation outside this table is a programming
// error and Run fails closed on it.
var handlers = map[models.Operation]handlerFunc{
	models.OperationDeleteUser:         validateDeleteUser,
	models.OperationLockUser:           validateLockUser,
	models.OperationInactivateUserRole: validateInactivateUserRole,
	models.OperationActivateUserRole:   validateActivateUserRole,
	models.OperationAddUserRole:        validateAddUserRole,
	models.OperationAddAnyUserRole:     validateAddAnyUserRole,
}

// Registry dispatches administrative operations to their validation
// handlers and returns the rule verdicts. It is read-only: business rule
// failures are data in the result list, never errors.
type Registry struct {
	evaluators *Evaluators
	logger     *slog.Logger
	metrics    *valmetrics.Metrics
	tracer     trace.Tracer
}

// Option configures optional Registry dependencies.
type Option func(r *Registry)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

func WithMetrics(m *valmetrics.Metrics) Option {
	return func(r *Registry) {
		r.metrics = m
	}
}

// NewRegistry constructs the validation registry around a query gateway.
func NewRegistry(gateway QueryGateway, opts ...Option) *Registry {
	r := &Registry{
		evaluators: NewEvaluators(gateway),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:     otel.Tracer("innovation-admin/validation"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run evaluates the preconditions of one administrative operation and
// returns a verdict per applicable rule. Structural problems (unknown
// operation, missing target, payload incompatible with the resolved role
// type) are errors; rule violations are ValidationResults with Valid=false.
func (r *Registry) Run(ctx context.Context, op models.Operation, p models.Payload) ([]models.ValidationResult, error) {
	ctx, span := r.tracer.Start(ctx, "validation.Run",
		trace.WithAttributes(attribute.String("operation", op.String())))
	defer span.End()

	handle, ok := handlers[op]
	if !ok {
		// Fail closed: an unknown operation must never read as "safe".
		err := dErrors.Newf(dErrors.CodeInternal, "unhandled validation operation %q", op)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	start := time.Now()
	results, err := handle(ctx, r.evaluators, p)
	elapsed := time.Since(start)

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		if r.metrics != nil {
			r.metrics.ObserveRun(op.String(), "error", elapsed)
		}
		r.logger.WarnContext(ctx, "validation run failed",
			"operation", op.String(),
			"error", err,
		)
		return nil, err
	}

	outcome := "valid"
	for _, result := range results {
		if !result.Valid {
			outcome = "invalid"
			if r.metrics != nil {
				r.metrics.IncRuleFailure(string(result.Rule))
			}
		}
	}

	if r.metrics != nil {
		r.metrics.ObserveRun(op.String(), outcome, elapsed)
	}
	r.logger.DebugContext(ctx, "validation run completed",
		"operation", op.String(),
		"outcome", outcome,
		"rules", len(results),
		"duration_ms", elapsed.Milliseconds(),
	)

	return results, nil
}
