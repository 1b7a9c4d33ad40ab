package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	"innovation-admin/pkg/platform/sentinel"
)

// countableRole is the SQL condition for a role that satisfies platform
// invariants: enabled, held by a user that is neither locked nor deleted.
// Expects user_roles aliased r joined to users aliased u.
const countableRole = `
	r.is_active
	AND r.locked_at IS NULL
	AND u.locked_at IS NULL
	AND u.deleted_at IS NULL`

// engagingStatus marks an innovation support in an active state; only
// active supports pin their last supporting accessor.
const engagingStatus = "ENGAGING"

// PostgresStore answers validation queries from PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed query gateway.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetRole(ctx context.Context, userID id.UserID, roleID id.RoleID) (*models.Role, error) {
	query := `
		SELECT r.id, r.user_id, r.role_type, r.organisation_id, r.organisation_unit_id,
		       r.is_active, r.locked_at, r.created_at
		FROM user_roles r
		WHERE r.id = $1 AND r.user_id = $2
	`
	role, err := scanRole(s.db.QueryRowContext(ctx, query, uuid.UUID(roleID), uuid.UUID(userID)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("get user role: %w", err)
	}
	return role, nil
}

func (s *PostgresStore) GetRoles(ctx context.Context, userID id.UserID) ([]models.Role, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND deleted_at IS NULL)`,
		uuid.UUID(userID)).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("check user exists: %w", err)
	}
	if !exists {
		return nil, sentinel.ErrNotFound
	}

	query := `
		SELECT r.id, r.user_id, r.role_type, r.organisation_id, r.organisation_unit_id,
		       r.is_active, r.locked_at, r.created_at
		FROM user_roles r
		WHERE r.user_id = $1
		ORDER BY r.created_at
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(userID))
	if err != nil {
		return nil, fmt.Errorf("get user roles: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user role: %w", err)
		}
		roles = append(roles, *role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get user roles: %w", err)
	}
	return roles, nil
}

func (s *PostgresStore) CountUserRolesOfType(ctx context.Context, userID id.UserID, types []id.RoleType, excludeRoleID id.RoleID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM user_roles r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		  AND r.role_type = ANY($2)
		  AND r.id <> $3
		  AND ` + countableRole

	var count int
	err := s.db.QueryRowContext(ctx, query,
		uuid.UUID(userID), pq.Array(roleTypeStrings(types)), uuid.UUID(excludeRoleID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count user roles: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountPlatformUsersWithRole(ctx context.Context, roleType id.RoleType, excludeUserID id.UserID) (int, error) {
	query := `
		SELECT COUNT(DISTINCT r.user_id)
		FROM user_roles r
		JOIN users u ON u.id = r.user_id
		WHERE r.role_type = $1
		  AND r.user_id <> $2
		  AND ` + countableRole

	var count int
	err := s.db.QueryRowContext(ctx, query, string(roleType), uuid.UUID(excludeUserID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count platform users with role: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) CountActiveRolesInUnit(ctx context.Context, unitID id.OrganisationUnitID, roleType id.RoleType, excludeRoleID id.RoleID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM user_roles r
		JOIN users u ON u.id = r.user_id
		WHERE r.organisation_unit_id = $1
		  AND r.role_type = $2
		  AND r.id <> $3
		  AND ` + countableRole

	var count int
	err := s.db.QueryRowContext(ctx, query,
		uuid.UUID(unitID), string(roleType), uuid.UUID(excludeRoleID)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count active roles in unit: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) InnovationsExclusivelySupportedBy(ctx context.Context, roleID id.RoleID) ([]models.InnovationSummary, error) {
	query := `
		SELECT DISTINCT i.id, i.name
		FROM innovations i
		JOIN innovation_supports s ON s.innovation_id = i.id AND s.status = $2
		WHERE EXISTS (
			SELECT 1 FROM innovation_support_roles sr
			WHERE sr.innovation_support_id = s.id AND sr.user_role_id = $1
		)
		AND NOT EXISTS (
			SELECT 1
			FROM innovation_support_roles sr
			JOIN user_roles r ON r.id = sr.user_role_id
			JOIN users u ON u.id = r.user_id
			WHERE sr.innovation_support_id = s.id
			  AND sr.user_role_id <> $1
			  AND ` + countableRole + `
		)
		ORDER BY i.name
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(roleID), engagingStatus)
	if err != nil {
		return nil, fmt.Errorf("find exclusively supported innovations: %w", err)
	}
	defer rows.Close()

	var out []models.InnovationSummary
	for rows.Next() {
		var innovationID uuid.UUID
		var name string
		if err := rows.Scan(&innovationID, &name); err != nil {
			return nil, fmt.Errorf("scan innovation: %w", err)
		}
		out = append(out, models.InnovationSummary{ID: id.InnovationID(innovationID), Name: name})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("find exclusively supported innovations: %w", err)
	}
	return out, nil
}

func (s *PostgresStore) IsUnitActive(ctx context.Context, unitID id.OrganisationUnitID) (bool, error) {
	var active bool
	err := s.db.QueryRowContext(ctx,
		`SELECT inactivated_at IS NULL FROM organisation_units WHERE id = $1`,
		uuid.UUID(unitID)).Scan(&active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("check unit active: %w", err)
	}
	return active, nil
}

func (s *PostgresStore) UserHasRoleInUnit(ctx context.Context, userID id.UserID, unitID id.OrganisationUnitID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM user_roles r
			JOIN users u ON u.id = r.user_id
			WHERE r.user_id = $1
			  AND r.organisation_unit_id = $2
			  AND r.role_type = ANY($3)
			  AND ` + countableRole + `
		)
	`
	accessorFamily := pq.Array([]string{
		string(id.RoleTypeAccessor), string(id.RoleTypeQualifyingAccessor),
	})

	var exists bool
	err := s.db.QueryRowContext(ctx, query, uuid.UUID(userID), uuid.UUID(unitID), accessorFamily).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check role in unit: %w", err)
	}
	return exists, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRole(row rowScanner) (*models.Role, error) {
	var (
		role     models.Role
		roleID   uuid.UUID
		userID   uuid.UUID
		roleType string
		orgID    uuid.NullUUID
		unitID   uuid.NullUUID
		lockedAt sql.NullTime
	)
	err := row.Scan(&roleID, &userID, &roleType, &orgID, &unitID,
		&role.IsActive, &lockedAt, &role.CreatedAt)
	if err != nil {
		return nil, err
	}
	role.ID = id.RoleID(roleID)
	role.UserID = id.UserID(userID)
	role.Type = id.RoleType(roleType)
	if orgID.Valid {
		role.OrganisationID = id.OrganisationID(orgID.UUID)
	}
	if unitID.Valid {
		role.OrganisationUnitID = id.OrganisationUnitID(unitID.UUID)
	}
	if lockedAt.Valid {
		role.LockedAt = &lockedAt.Time
	}
	return &role, nil
}

func roleTypeStrings(types []id.RoleType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}
