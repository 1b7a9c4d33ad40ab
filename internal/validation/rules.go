package validation

import (
	"context"

	"innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	dErrors "innovation-admin/pkg/domain-errors"
)

// Evaluators holds the atomic rule checks. Each method is a stateless,
// read-only predicate answering one named business question with a
// ValidationResult; none of them ever fails an operation by returning an
// error for a business outcome - errors are reserved for gateway failures.
type Evaluators struct {
	gateway QueryGateway
}

func NewEvaluators(gateway QueryGateway) *Evaluators {
	return &Evaluators{gateway: gateway}
}

// checkUserHasAnyRole reports, per requested role type, whether the user is
// free of conflicting enabled roles of that type. Valid=true means no
// conflicting role exists (safe to proceed). excludeRoleID removes the role
// being operated on from its own check.
func (e *Evaluators) checkUserHasAnyRole(ctx context.Context, userID id.UserID, types []id.RoleType, excludeRoleID id.RoleID) ([]models.ValidationResult, error) {
	results := make([]models.ValidationResult, 0, len(types))
	for _, t := range types {
		count, err := e.gateway.CountUserRolesOfType(ctx, userID, []id.RoleType{t}, excludeRoleID)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "count user roles")
		}
		results = append(results, models.ValidationResult{
			Rule:  models.HasAnyRuleFor(t),
			Valid: count == 0,
		})
	}
	return results, nil
}

// checkAssessmentUserIsNotTheOnlyOne is a user-service-wide fact: the
// platform must retain at least one other enabled needs-assessor.
func (e *Evaluators) checkAssessmentUserIsNotTheOnlyOne(ctx context.Context, userID id.UserID) (models.ValidationResult, error) {
	count, err := e.gateway.CountPlatformUsersWithRole(ctx, id.RoleTypeAssessment, userID)
	if err != nil {
		return models.ValidationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "count assessment users")
	}
	return models.ValidationResult{
		Rule:  models.RuleAssessmentUserIsNotTheOnlyOne,
		Valid: count > 0,
	}, nil
}

// checkLastQualifyingAccessorOnUnit verifies the role's organisation unit
// would retain at least one other enabled qualifying accessor.
func (e *Evaluators) checkLastQualifyingAccessorOnUnit(ctx context.Context, role models.Role) (models.ValidationResult, error) {
	if role.OrganisationUnitID.IsNil() {
		return models.ValidationResult{}, dErrors.New(dErrors.CodeBadRequest, "qualifying accessor role has no organisation unit")
	}
	count, err := e.gateway.CountActiveRolesInUnit(ctx, role.OrganisationUnitID, id.RoleTypeQualifyingAccessor, role.ID)
	if err != nil {
		return models.ValidationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "count qualifying accessors in unit")
	}
	return models.ValidationResult{
		Rule:  models.RuleLastQualifyingAccessorOnUnit,
		Valid: count > 0,
	}, nil
}

// checkNoInnovationsSupportedOnlyByThisUser verifies no innovation in an
// active support state would be left without a supporting accessor. Meta
// reports the offending innovations for UI display.
func (e *Evaluators) checkNoInnovationsSupportedOnlyByThisUser(ctx context.Context, roleID id.RoleID) (models.ValidationResult, error) {
	innovations, err := e.gateway.InnovationsExclusivelySupportedBy(ctx, roleID)
	if err != nil {
		return models.ValidationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "find exclusively supported innovations")
	}
	result := models.ValidationResult{
		Rule:  models.RuleNoInnovationsSupportedOnlyByThisUser,
		Valid: len(innovations) == 0,
	}
	if len(innovations) > 0 {
		result.Meta = map[string]any{"innovations": innovations}
	}
	return result, nil
}

// checkUserHasAnyAccessorRoleInOtherOrganisation prevents a user from
// belonging to more than one organisation: valid unless the user holds an
// enabled accessor-family role in a unit outside the excluded set.
func (e *Evaluators) checkUserHasAnyAccessorRoleInOtherOrganisation(ctx context.Context, userID id.UserID, excludedUnits []id.OrganisationUnitID) (models.ValidationResult, error) {
	roles, err := e.gateway.GetRoles(ctx, userID)
	if err != nil {
		return models.ValidationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "get user roles")
	}

	excluded := make(map[id.OrganisationUnitID]bool, len(excludedUnits))
	for _, u := range excludedUnits {
		excluded[u] = true
	}

	for _, role := range roles {
		if !role.Enabled() || !role.Type.IsAccessorFamily() {
			continue
		}
		if !excluded[role.OrganisationUnitID] {
			return models.ValidationResult{
				Rule:  models.RuleUserHasAnyAccessorRoleInOtherOrg,
				Valid: false,
				Meta:  map[string]any{"organisationUnitId": role.OrganisationUnitID.String()},
			}, nil
		}
	}
	return models.ValidationResult{Rule: models.RuleUserHasAnyAccessorRoleInOtherOrg, Valid: true}, nil
}

// checkUserAlreadyHasRoleInUnit verifies the user does not already hold an
// accessor-family role in the specific unit.
func (e *Evaluators) checkUserAlreadyHasRoleInUnit(ctx context.Context, userID id.UserID, unitID id.OrganisationUnitID) (models.ValidationResult, error) {
	held, err := e.gateway.UserHasRoleInUnit(ctx, userID, unitID)
	if err != nil {
		return models.ValidationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "check role in unit")
	}
	result := models.ValidationResult{
		Rule:  models.RuleUserAlreadyHasRoleInUnit,
		Valid: !held,
	}
	if held {
		result.Meta = map[string]any{"organisationUnitId": unitID.String()}
	}
	return result, nil
}

// checkUnitIsActive verifies the organisation unit referenced by the role
// is not inactivated.
func (e *Evaluators) checkUnitIsActive(ctx context.Context, role models.Role) (models.ValidationResult, error) {
	if role.OrganisationUnitID.IsNil() {
		return models.ValidationResult{}, dErrors.New(dErrors.CodeBadRequest, "accessor role has no organisation unit")
	}
	active, err := e.gateway.IsUnitActive(ctx, role.OrganisationUnitID)
	if err != nil {
		return models.ValidationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "check unit active")
	}
	return models.ValidationResult{
		Rule:  models.RuleOrganisationUnitIsActive,
		Valid: active,
	}, nil
}

// checkUserCanHaveAssessmentOrAccessorRole reports whether the user's
// existing roles permit adding a professional role at all: no admin or
// innovator role, and not already holding both professional families.
func (e *Evaluators) checkUserCanHaveAssessmentOrAccessorRole(ctx context.Context, userID id.UserID) (models.ValidationResult, error) {
	roles, err := e.gateway.GetRoles(ctx, userID)
	if err != nil {
		return models.ValidationResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "get user roles")
	}

	var hasExclusive, hasAssessment, hasAccessorFamily bool
	for _, role := range roles {
		if !role.Enabled() {
			continue
		}
		switch {
		case role.Type == id.RoleTypeAdmin || role.Type == id.RoleTypeInnovator:
			hasExclusive = true
		case role.Type == id.RoleTypeAssessment:
			hasAssessment = true
		case role.Type.IsAccessorFamily():
			hasAccessorFamily = true
		}
	}

	return models.ValidationResult{
		Rule:  models.RuleUserCanHaveAssessmentOrAccessorRole,
		Valid: !hasExclusive && !(hasAssessment && hasAccessorFamily),
	}, nil
}
