// Package service implements the admin user-lifecycle operations. Every
// mutation is gated by the validation engine: once outside the transaction
// for a fast refusal, and again inside it so the checked facts cannot change
// between validation and commit.
package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"innovation-admin/internal/audit"
	"innovation-admin/internal/users/models"
	valmodels "innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	dErrors "innovation-admin/pkg/domain-errors"
	"innovation-admin/pkg/platform/sentinel"
	"innovation-admin/pkg/platform/tx"
	"innovation-admin/pkg/requestcontext"
)

// Engine answers whether an operation's preconditions hold.
type Engine interface {
	Run(ctx context.Context, op valmodels.Operation, p valmodels.Payload) ([]valmodels.ValidationResult, error)
}

// UserStore persists user and role mutations. Implementations join a
// caller-opened transaction through the context (pkg/platform/tx).
type UserStore interface {
	// GetUser fetches an account. Returns sentinel.ErrNotFound for unknown
	// or deleted users.
	GetUser(ctx context.Context, userID id.UserID) (*models.User, error)

	// SetUserLock sets or clears the account lock.
	SetUserLock(ctx context.Context, userID id.UserID, lockedAt *time.Time) error

	// MarkUserDeleted soft deletes the account and disables its roles.
	MarkUserDeleted(ctx context.Context, userID id.UserID) error

	// SetRoleActive flips one role's active flag.
	SetRoleActive(ctx context.Context, userID id.UserID, roleID id.RoleID, active bool) error

	// CreateRole persists a new role.
	CreateRole(ctx context.Context, role valmodels.Role) error
}

// Service orchestrates validated user-lifecycle mutations.
type Service struct {
	engine Engine
	store  UserStore
	runner tx.Runner
	audit  audit.Publisher
	logger *slog.Logger
}

// Option configures optional Service dependencies.
type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New constructs the lifecycle service.
func New(engine Engine, store UserStore, runner tx.Runner, publisher audit.Publisher, opts ...Option) *Service {
	s := &Service{
		engine: engine,
		store:  store,
		runner: runner,
		audit:  publisher,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LockUser suspends the account and every role it holds.
func (s *Service) LockUser(ctx context.Context, userID id.UserID) error {
	return s.runValidated(ctx, valmodels.OperationLockUser,
		valmodels.Payload{UserID: userID},
		audit.Event{Action: audit.ActionUserLocked, TargetUserID: userID},
		func(ctx context.Context) error {
			at := requestcontext.Now(ctx)
			return s.store.SetUserLock(ctx, userID, &at)
		})
}

// UnlockUser lifts an account suspension. There is no precondition: an
// unlock can only widen what the platform retains.
func (s *Service) UnlockUser(ctx context.Context, userID id.UserID) error {
	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "get user")
	}
	if err := s.store.SetUserLock(ctx, userID, nil); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "unlock user")
	}
	s.emit(ctx, audit.Event{
		Action:       audit.ActionUserUnlocked,
		TargetUserID: userID,
		Outcome:      audit.OutcomePerformed,
	})
	return nil
}

// DeleteUser soft deletes the account.
func (s *Service) DeleteUser(ctx context.Context, userID id.UserID) error {
	return s.runValidated(ctx, valmodels.OperationDeleteUser,
		valmodels.Payload{UserID: userID},
		audit.Event{Action: audit.ActionUserDeleted, TargetUserID: userID},
		func(ctx context.Context) error {
			return s.store.MarkUserDeleted(ctx, userID)
		})
}

// ActivateRole re-enables one of the user's roles.
func (s *Service) ActivateRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error {
	return s.runValidated(ctx, valmodels.OperationActivateUserRole,
		valmodels.Payload{UserID: userID, UserRoleID: roleID},
		audit.Event{Action: audit.ActionRoleActivated, TargetUserID: userID, TargetRoleID: roleID},
		func(ctx context.Context) error {
			return s.store.SetRoleActive(ctx, userID, roleID, true)
		})
}

// InactivateRole disables one of the user's roles.
func (s *Service) InactivateRole(ctx context.Context, userID id.UserID, roleID id.RoleID) error {
	return s.runValidated(ctx, valmodels.OperationInactivateUserRole,
		valmodels.Payload{UserID: userID, UserRoleID: roleID},
		audit.Event{Action: audit.ActionRoleInactivated, TargetUserID: userID, TargetRoleID: roleID},
		func(ctx context.Context) error {
			return s.store.SetRoleActive(ctx, userID, roleID, false)
		})
}

// AddRole grants the user a role of the given type. Accessor-family roles
// are created once per requested organisation unit.
func (s *Service) AddRole(ctx context.Context, userID id.UserID, roleType id.RoleType, unitIDs []id.OrganisationUnitID) ([]valmodels.Role, error) {
	if !roleType.IsValid() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid role type")
	}

	payload := valmodels.Payload{
		UserID:              userID,
		RoleType:            roleType,
		OrganisationUnitIDs: unitIDs,
	}

	var created []valmodels.Role
	err := s.runValidated(ctx, valmodels.OperationAddUserRole, payload,
		audit.Event{Action: audit.ActionRoleAdded, TargetUserID: userID},
		func(ctx context.Context) error {
			created = newRoles(ctx, userID, roleType, unitIDs)
			for _, role := range created {
				if err := s.store.CreateRole(ctx, role); err != nil {
					return err
				}
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// runValidated is the shared refuse-or-commit path: validate, mutate inside
// a transaction with an in-transaction re-validation, then audit.
func (s *Service) runValidated(ctx context.Context, op valmodels.Operation, p valmodels.Payload, event audit.Event, mutate func(ctx context.Context) error) error {
	if err := s.check(ctx, op, p, event); err != nil {
		return err
	}

	err := s.runner.RunInTx(ctx, func(txCtx context.Context) error {
		// Re-check against the transaction snapshot: the facts may have
		// changed between the first validation and now.
		if err := s.check(txCtx, op, p, event); err != nil {
			return err
		}
		if err := mutate(txCtx); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "apply mutation")
		}
		return nil
	})
	if err != nil {
		return err
	}

	event.Outcome = audit.OutcomePerformed
	s.emit(ctx, event)
	return nil
}

// check runs the engine once and converts failed rules into a refusal.
func (s *Service) check(ctx context.Context, op valmodels.Operation, p valmodels.Payload, event audit.Event) error {
	results, err := s.engine.Run(ctx, op, p)
	if err != nil {
		return err
	}

	failed := failedRules(results)
	if len(failed) == 0 {
		return nil
	}

	event.Outcome = audit.OutcomeRefused
	event.Reason = strings.Join(failed, ", ")
	s.emit(ctx, event)

	return dErrors.Newf(dErrors.CodeInvariantViolation,
		"operation %s blocked by rules: %s", op, event.Reason)
}

func (s *Service) emit(ctx context.Context, event audit.Event) {
	event.Category = audit.CategoryCompliance
	if event.Outcome == audit.OutcomeRefused {
		event.Category = audit.CategoryOperations
	}
	if err := s.audit.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", string(event.Action),
			"error", err,
		)
	}
}

func failedRules(results []valmodels.ValidationResult) []string {
	var failed []string
	for _, r := range results {
		if !r.Valid {
			failed = append(failed, string(r.Rule))
		}
	}
	return failed
}

func newRoles(ctx context.Context, userID id.UserID, roleType id.RoleType, unitIDs []id.OrganisationUnitID) []valmodels.Role {
	now := requestcontext.Now(ctx)
	if !roleType.IsAccessorFamily() {
		return []valmodels.Role{{
			ID:        id.RoleID(uuid.New()),
			UserID:    userID,
			Type:      roleType,
			IsActive:  true,
			CreatedAt: now,
		}}
	}

	roles := make([]valmodels.Role, 0, len(unitIDs))
	for _, unitID := range unitIDs {
		roles = append(roles, valmodels.Role{
			ID:                 id.RoleID(uuid.New()),
			UserID:             userID,
			Type:               roleType,
			OrganisationUnitID: unitID,
			IsActive:           true,
			CreatedAt:          now,
		})
	}
	return roles
}
