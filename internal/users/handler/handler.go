// Package handler exposes the admin user-lifecycle endpoints: lock,
// unlock, delete, and role management. Every mutation goes through the
// validation engine before committing.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"innovation-admin/internal/platform/metrics"
	"innovation-admin/internal/platform/middleware"
	valmodels "innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	dErrors "innovation-admin/pkg/domain-errors"
	"innovation-admin/pkg/platform/httputil"
)

// Service defines the lifecycle operations the handler fronts.
type Service interface {
	LockUser(ctx context.Context, userID id.UserID) error
	UnlockUser(ctx context.Context, userID id.UserID) error
	DeleteUser(ctx context.Context, userID id.UserID) error
	ActivateRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error
	InactivateRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error
	AddRole(ctx context.Context, userID id.UserID, roleType id.RoleType, unitIDs []id.OrganisationUnitID) ([]valmodels.Role, error)
}

// Handler serves the user lifecycle endpoints.
type Handler struct {
	users        Service
	logger       *slog.Logger
	metrics      *metrics.Metrics
	jwtValidator middleware.JWTValidator
}

// New creates a users Handler.
func New(
	users Service,
	logger *slog.Logger,
	metrics *metrics.Metrics,
	jwtValidator middleware.JWTValidator) *Handler {
	return &Handler{
		users:        users,
		logger:       logger,
		metrics:      metrics,
		jwtValidator: jwtValidator,
	}
}

// Register mounts the user lifecycle routes on the given router.
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

	router.Post("/admin/v1/users/{userId}/lock", h.handleLock)
	router.Post("/admin/v1/users/{userId}/unlock", h.handleUnlock)
	router.Delete("/admin/v1/users/{userId}", h.handleDelete)
	router.Post("/admin/v1/users/{userId}/roles", h.handleAddRole)
	router.Patch("/admin/v1/users/{userId}/roles/{roleId}/activate", h.handleActivateRole)
	router.Patch("/admin/v1/users/{userId}/roles/{roleId}/inactivate", h.handleInactivateRole)

	r.Mount("/", router)
}

func (h *Handler) handleLock(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.users.LockUser)
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.users.UnlockUser)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	h.userAction(w, r, h.users.DeleteUser)
}

// userAction runs one user-scoped operation and maps the outcome.
func (h *Handler) userAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, userID id.UserID) error) {
	ctx := r.Context()

	userID, err := id.ParseUserID(chi.URLParam(r, "userId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "userId must be a valid uuid"))
		return
	}

	if err := action(ctx, userID); err != nil {
		h.logFailure(ctx, r, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleActivateRole(w http.ResponseWriter, r *http.Request) {
	h.roleAction(w, r, h.users.ActivateRole)
}

func (h *Handler) handleInactivateRole(w http.ResponseWriter, r *http.Request) {
	h.roleAction(w, r, h.users.InactivateRole)
}

func (h *Handler) roleAction(w http.ResponseWriter, r *http.Request, action func(ctx context.Context, userID id.UserID, roleID id.RoleID) error) {
	ctx := r.Context()

	userID, err := id.ParseUserID(chi.URLParam(r, "userId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "userId must be a valid uuid"))
		return
	}
	roleID, err := id.ParseRoleID(chi.URLParam(r, "roleId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "roleId must be a valid uuid"))
		return
	}

	if err := action(ctx, userID, roleID); err != nil {
		h.logFailure(ctx, r, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleAddRole(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := id.ParseUserID(chi.URLParam(r, "userId"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "userId must be a valid uuid"))
		return
	}

	var req AddRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	roleType, unitIDs, err := req.parse()
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	created, err := h.users.AddRole(ctx, userID, roleType, unitIDs)
	if err != nil {
		h.logFailure(ctx, r, err)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, toAddRoleResponse(created))
}

func (h *Handler) logFailure(ctx context.Context, r *http.Request, err error) {
	if dErrors.Is(err, dErrors.CodeInternal) {
		h.logger.ErrorContext(ctx, "user lifecycle operation failed",
			"path", r.URL.Path,
			"error", err.Error(),
		)
		return
	}
	h.logger.WarnContext(ctx, "user lifecycle operation rejected",
		"path", r.URL.Path,
		"error", err.Error(),
	)
}
