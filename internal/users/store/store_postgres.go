package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"innovation-admin/internal/users/models"
	valmodels "innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	"innovation-admin/pkg/platform/sentinel"
	"innovation-admin/pkg/platform/tx"
	"innovation-admin/pkg/requestcontext"
)

// PostgresStore persists user and role mutations in PostgreSQL. All writes
// join a transaction from the context when one is present.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed user store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// querier is the common surface of *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) q(ctx context.Context) querier {
	if sqlTx, ok := tx.From(ctx); ok {
		return sqlTx
	}
	return s.db
}

func (s *PostgresStore) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	query := `
		SELECT id, email, name, locked_at, created_at, updated_at
		FROM users
		WHERE id = $1 AND deleted_at IS NULL
	`
	var (
		user     models.User
		uid      uuid.UUID
		lockedAt sql.NullTime
	)
	err := s.q(ctx).QueryRowContext(ctx, query, uuid.UUID(userID)).
		Scan(&uid, &user.Email, &user.Name, &lockedAt, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.ID = id.UserID(uid)
	if lockedAt.Valid {
		user.LockedAt = &lockedAt.Time
	}
	return &user, nil
}

func (s *PostgresStore) SetUserLock(ctx context.Context, userID id.UserID, lockedAt *time.Time) error {
	var value sql.NullTime
	if lockedAt != nil {
		value = sql.NullTime{Time: *lockedAt, Valid: true}
	}
	result, err := s.q(ctx).ExecContext(ctx,
		`UPDATE users SET locked_at = $2, updated_at = $3 WHERE id = $1 AND deleted_at IS NULL`,
		uuid.UUID(userID), value, requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("set user lock: %w", err)
	}
	return requireRow(result, "set user lock")
}

func (s *PostgresStore) MarkUserDeleted(ctx context.Context, userID id.UserID) error {
	now := requestcontext.Now(ctx)
	q := s.q(ctx)

	result, err := q.ExecContext(ctx,
		`UPDATE users SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`,
		uuid.UUID(userID), now)
	if err != nil {
		return fmt.Errorf("mark user deleted: %w", err)
	}
	if err := requireRow(result, "mark user deleted"); err != nil {
		return err
	}

	// Disabled explicitly as well: counting queries already ignore roles of
	// deleted users, but a deleted account must not retain active roles.
	_, err = q.ExecContext(ctx,
		`UPDATE user_roles SET is_active = FALSE, updated_at = $2 WHERE user_id = $1`,
		uuid.UUID(userID), now)
	if err != nil {
		return fmt.Errorf("disable roles of deleted user: %w", err)
	}
	return nil
}

func (s *PostgresStore) SetRoleActive(ctx context.Context, userID id.UserID, roleID id.RoleID, active bool) error {
	result, err := s.q(ctx).ExecContext(ctx,
		`UPDATE user_roles SET is_active = $3, updated_at = $4 WHERE id = $2 AND user_id = $1`,
		uuid.UUID(userID), uuid.UUID(roleID), active, requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("set role active: %w", err)
	}
	return requireRow(result, "set role active")
}

func (s *PostgresStore) CreateRole(ctx context.Context, role valmodels.Role) error {
	var orgID, unitID uuid.NullUUID
	if !role.OrganisationID.IsNil() {
		orgID = uuid.NullUUID{UUID: uuid.UUID(role.OrganisationID), Valid: true}
	}
	if !role.OrganisationUnitID.IsNil() {
		unitID = uuid.NullUUID{UUID: uuid.UUID(role.OrganisationUnitID), Valid: true}
	}
	_, err := s.q(ctx).ExecContext(ctx, `
		INSERT INTO user_roles (id, user_id, role_type, organisation_id, organisation_unit_id, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		uuid.UUID(role.ID), uuid.UUID(role.UserID), string(role.Type),
		orgID, unitID, role.IsActive, role.CreatedAt)
	if err != nil {
		return fmt.Errorf("create role: %w", err)
	}
	return nil
}

func requireRow(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
