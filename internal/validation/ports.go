package validation

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks QueryGateway

import (
	"context"

	"innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
)

// QueryGateway is the engine's read-only view of role, organisation and
// innovation-support facts. Implementations must answer from a consistent
// snapshot per call; the engine never writes.
//
// Counting methods only consider enabled roles (active and not locked) of
// users that are not themselves locked or deleted - disabled entities never
// satisfy an invariant.
type QueryGateway interface {
	// GetRole fetches one role of a user. Returns sentinel.ErrNotFound when
	// the role does not exist or belongs to a different user.
	GetRole(ctx context.Context, userID id.UserID, roleID id.RoleID) (*models.Role, error)

	// GetRoles fetches all roles of a user, active and inactive; callers
	// filter. Returns sentinel.ErrNotFound when the user does not exist.
	GetRoles(ctx context.Context, userID id.UserID) ([]models.Role, error)

	// CountUserRolesOfType counts the user's enabled roles of the given
	// types, excluding the role with excludeRoleID (pass the zero RoleID to
	// exclude nothing).
	CountUserRolesOfType(ctx context.Context, userID id.UserID, types []id.RoleType, excludeRoleID id.RoleID) (int, error)

	// CountPlatformUsersWithRole counts users across the whole service that
	// hold an enabled role of the given type, excluding excludeUserID.
	CountPlatformUsersWithRole(ctx context.Context, roleType id.RoleType, excludeUserID id.UserID) (int, error)

	// CountActiveRolesInUnit counts enabled roles of the given type bound to
	// the organisation unit, excluding the role with excludeRoleID.
	CountActiveRolesInUnit(ctx context.Context, unitID id.OrganisationUnitID, roleType id.RoleType, excludeRoleID id.RoleID) (int, error)

	// InnovationsExclusivelySupportedBy lists innovations in an active
	// support state whose assigned supporting roles consist solely of the
	// given role.
	InnovationsExclusivelySupportedBy(ctx context.Context, roleID id.RoleID) ([]models.InnovationSummary, error)

	// IsUnitActive reports whether the organisation unit is not inactivated.
	IsUnitActive(ctx context.Context, unitID id.OrganisationUnitID) (bool, error)

	// UserHasRoleInUnit reports whether the user holds an enabled
	// accessor-family role in the given unit.
	UserHasRoleInUnit(ctx context.Context, userID id.UserID, unitID id.OrganisationUnitID) (bool, error)
}
