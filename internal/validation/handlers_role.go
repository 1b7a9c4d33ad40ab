package validation

import (
	"context"
	"errors"

	"innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	dErrors "innovation-admin/pkg/domain-errors"
	"innovation-admin/pkg/platform/sentinel"
)

// getTargetRole resolves the single role targeted by a role-scoped
// operation. A missing role is NotFound, never a validation result.
func (e *Evaluators) getTargetRole(ctx context.Context, p models.Payload) (models.Role, error) {
	if p.UserID.IsNil() {
		return models.Role{}, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}
	if p.UserRoleID.IsNil() {
		return models.Role{}, dErrors.New(dErrors.CodeBadRequest, "user role id is required")
	}
	role, err := e.gateway.GetRole(ctx, p.UserID, p.UserRoleID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Role{}, dErrors.New(dErrors.CodeNotFound, "user role not found")
		}
		return models.Role{}, dErrors.Wrap(err, dErrors.CodeInternal, "get user role")
	}
	return *role, nil
}

// validateActivateUserRole decides whether a role can be re-enabled. The
// rule set is a decision table over the role's type; the activated role is
// excluded from its own conflict checks.
func validateActivateUserRole(ctx context.Context, e *Evaluators, p models.Payload) ([]models.ValidationResult, error) {
	role, err := e.getTargetRole(ctx, p)
	if err != nil {
		return nil, err
	}

	switch role.Type {
	case id.RoleTypeAdmin, id.RoleTypeInnovator:
		return e.checkUserHasAnyRole(ctx, p.UserID, id.AllRoleTypes(), role.ID)

	case id.RoleTypeAssessment:
		return e.checkUserHasAnyRole(ctx, p.UserID,
			[]id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator, id.RoleTypeAssessment}, role.ID)

	case id.RoleTypeAccessor:
		return e.validateAccessorRoleEnable(ctx, role,
			[]id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator, id.RoleTypeQualifyingAccessor}, true)

	case id.RoleTypeQualifyingAccessor:
		return e.validateAccessorRoleEnable(ctx, role,
			[]id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator, id.RoleTypeAccessor}, true)

	default:
		return nil, dErrors.Newf(dErrors.CodeInternal, "unhandled role type %q", role.Type)
	}
}

// validateInactivateUserRole decides whether a role can be disabled without
// leaving a gap the platform invariants forbid.
func validateInactivateUserRole(ctx context.Context, e *Evaluators, p models.Payload) ([]models.ValidationResult, error) {
	role, err := e.getTargetRole(ctx, p)
	if err != nil {
		return nil, err
	}

	switch role.Type {
	case id.RoleTypeAdmin, id.RoleTypeInnovator:
		return e.checkUserHasAnyRole(ctx, p.UserID, id.AllRoleTypes(), role.ID)

	case id.RoleTypeAssessment:
		return e.checkUserHasAnyRole(ctx, p.UserID,
			[]id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator, id.RoleTypeAssessment}, role.ID)

	case id.RoleTypeAccessor:
		return e.validateAccessorRoleEnable(ctx, role,
			[]id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator, id.RoleTypeQualifyingAccessor}, false)

	case id.RoleTypeQualifyingAccessor:
		results, err := e.validateAccessorRoleEnable(ctx, role,
			[]id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator, id.RoleTypeAccessor}, false)
		if err != nil {
			return nil, err
		}

		// Disabling the unit's last qualifying accessor or the sole support
		// of an innovation is what the invariants exist to prevent.
		lastQA, err := e.checkLastQualifyingAccessorOnUnit(ctx, role)
		if err != nil {
			return nil, err
		}
		supported, err := e.checkNoInnovationsSupportedOnlyByThisUser(ctx, role.ID)
		if err != nil {
			return nil, err
		}
		return append(results, lastQA, supported), nil

	default:
		return nil, dErrors.Newf(dErrors.CodeInternal, "unhandled role type %q", role.Type)
	}
}

// validateAccessorRoleEnable covers the checks shared by accessor-family
// activation and inactivation: conflicting role families, and single-
// organisation membership. Activation additionally requires the unit to be
// active - a role cannot be activated into an inactivated unit.
func (e *Evaluators) validateAccessorRoleEnable(ctx context.Context, role models.Role, conflictTypes []id.RoleType, requireActiveUnit bool) ([]models.ValidationResult, error) {
	if role.OrganisationUnitID.IsNil() {
		// Data-integrity violation, not a validation outcome.
		return nil, dErrors.New(dErrors.CodeBadRequest, "accessor role has no organisation unit")
	}

	results, err := e.checkUserHasAnyRole(ctx, role.UserID, conflictTypes, role.ID)
	if err != nil {
		return nil, err
	}

	otherOrg, err := e.checkUserHasAnyAccessorRoleInOtherOrganisation(ctx, role.UserID,
		[]id.OrganisationUnitID{role.OrganisationUnitID})
	if err != nil {
		return nil, err
	}
	results = append(results, otherOrg)

	if requireActiveUnit {
		unitActive, err := e.checkUnitIsActive(ctx, role)
		if err != nil {
			return nil, err
		}
		results = append(results, unitActive)
	}

	return results, nil
}

// validateAddUserRole decides whether a role of the requested type may be
// granted to the user. It mirrors the activation decision table but reasons
// about a prospective role that is not yet persisted.
func validateAddUserRole(ctx context.Context, e *Evaluators, p models.Payload) ([]models.ValidationResult, error) {
	if p.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}

	switch p.RoleType {
	case id.RoleTypeAdmin, id.RoleTypeInnovator:
		return e.checkUserHasAnyRole(ctx, p.UserID, id.AllRoleTypes(), id.RoleID{})

	case id.RoleTypeAssessment:
		return e.checkUserHasAnyRole(ctx, p.UserID,
			[]id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator, id.RoleTypeAssessment}, id.RoleID{})

	case id.RoleTypeAccessor, id.RoleTypeQualifyingAccessor:
		return e.validateAddAccessorRole(ctx, p)

	default:
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid role type")
	}
}

// validateAddAccessorRole handles the accessor-family branch of AddUserRole.
// Checks run once per requested unit; AggregateResults folds the per-unit
// instances so each rule reports one verdict.
func (e *Evaluators) validateAddAccessorRole(ctx context.Context, p models.Payload) ([]models.ValidationResult, error) {
	if len(p.OrganisationUnitIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "organisation unit ids are required")
	}

	conflictTypes := []id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator, id.RoleTypeQualifyingAccessor}
	if p.RoleType == id.RoleTypeQualifyingAccessor {
		conflictTypes = []id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator, id.RoleTypeAccessor}
	}

	results, err := e.checkUserHasAnyRole(ctx, p.UserID, conflictTypes, id.RoleID{})
	if err != nil {
		return nil, err
	}

	otherOrg, err := e.checkUserHasAnyAccessorRoleInOtherOrganisation(ctx, p.UserID, p.OrganisationUnitIDs)
	if err != nil {
		return nil, err
	}
	results = append(results, otherOrg)

	for _, unitID := range p.OrganisationUnitIDs {
		inUnit, err := e.checkUserAlreadyHasRoleInUnit(ctx, p.UserID, unitID)
		if err != nil {
			return nil, err
		}
		results = append(results, inUnit)
	}

	return AggregateResults(results), nil
}

// validateAddAnyUserRole is the coarse check used before the target role
// type is decided: the user must not hold an exclusive role and must still
// be able to take a professional role.
func validateAddAnyUserRole(ctx context.Context, e *Evaluators, p models.Payload) ([]models.ValidationResult, error) {
	if p.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}

	results, err := e.checkUserHasAnyRole(ctx, p.UserID,
		[]id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator}, id.RoleID{})
	if err != nil {
		return nil, err
	}

	professional, err := e.checkUserCanHaveAssessmentOrAccessorRole(ctx, p.UserID)
	if err != nil {
		return nil, err
	}

	return append(results, professional), nil
}
