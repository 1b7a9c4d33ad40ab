package validation

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	dErrors "innovation-admin/pkg/domain-errors"
	"innovation-admin/pkg/platform/sentinel"
)

// evaluationTimeout bounds the concurrent rule evaluation of one handler
// invocation. The caller-level timeout on Run covers the rest.
const evaluationTimeout = 10 * time.Second

// validateDeleteUser decides whether every role the user holds can be
// removed from the platform at once. Admins are never deletable through
// this path.
func validateDeleteUser(ctx context.Context, e *Evaluators, p models.Payload) ([]models.ValidationResult, error) {
	return e.validateUserWide(ctx, p, true)
}

// validateLockUser decides whether all of the user's roles can be
// suspended at once.
func validateLockUser(ctx context.Context, e *Evaluators, p models.Payload) ([]models.ValidationResult, error) {
	return e.validateUserWide(ctx, p, false)
}

// validateUserWide runs the user-wide rule sets shared by DeleteUser and
// LockUser. The rule set per role follows the role's type:
//
//	Assessment               -> AssessmentUserIsNotTheOnlyOne (once per user)
//	Accessor                 -> NoInnovationsSupportedOnlyByThisUser
//	QualifyingAccessor       -> NoInnovationsSupportedOnlyByThisUser,
//	                            LastQualifyingAccessorOnOrganisationUnit
//	Admin (deletion only)    -> UserHasAnyAdminRole, unconditionally blocked
//
// Per-role checks are independent and run concurrently; raw results are
// folded by AggregateResults so a rule evaluated once per role reports a
// single verdict.
func (e *Evaluators) validateUserWide(ctx context.Context, p models.Payload, forDeletion bool) ([]models.ValidationResult, error) {
	if p.UserID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "user id is required")
	}

	roles, err := e.gateway.GetRoles(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "user not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "get user roles")
	}

	enabled := make([]models.Role, 0, len(roles))
	for _, role := range roles {
		if role.Enabled() {
			enabled = append(enabled, role)
		}
	}

	if forDeletion {
		for _, role := range enabled {
			if role.Type == id.RoleTypeAdmin {
				// Blocked outright, no query needed.
				return []models.ValidationResult{{
					Rule:  models.RuleUserHasAnyAdminRole,
					Valid: false,
				}}, nil
			}
		}
	}

	ctx, cancel := context.WithTimeout(ctx, evaluationTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	// perRole keeps each role's results at a fixed index so the input to
	// the fold is deterministic regardless of goroutine completion order.
	perRole := make([][]models.ValidationResult, len(enabled))
	var assessmentResult *models.ValidationResult

	hasAssessment := false
	for i, role := range enabled {
		switch role.Type {
		case id.RoleTypeAssessment:
			// User-service-wide fact: evaluated once per user, not per role.
			hasAssessment = true

		case id.RoleTypeAccessor, id.RoleTypeQualifyingAccessor:
			g.Go(func() error {
				results, err := e.validateAccessorRoleRemoval(gctx, role)
				if err != nil {
					return err
				}
				perRole[i] = results
				return nil
			})
		}
	}

	if hasAssessment {
		g.Go(func() error {
			result, err := e.checkAssessmentUserIsNotTheOnlyOne(gctx, p.UserID)
			if err != nil {
				return err
			}
			assessmentResult = &result
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	raw := make([]models.ValidationResult, 0, len(enabled)*2+1)
	if assessmentResult != nil {
		raw = append(raw, *assessmentResult)
	}
	for _, results := range perRole {
		raw = append(raw, results...)
	}

	return AggregateResults(raw), nil
}

// validateAccessorRoleRemoval gathers the unit-scoped checks protecting an
// accessor-family role from being disabled.
func (e *Evaluators) validateAccessorRoleRemoval(ctx context.Context, role models.Role) ([]models.ValidationResult, error) {
	results := make([]models.ValidationResult, 0, 2)

	supported, err := e.checkNoInnovationsSupportedOnlyByThisUser(ctx, role.ID)
	if err != nil {
		return nil, err
	}
	results = append(results, supported)

	if role.Type == id.RoleTypeQualifyingAccessor {
		lastQA, err := e.checkLastQualifyingAccessorOnUnit(ctx, role)
		if err != nil {
			return nil, err
		}
		results = append(results, lastQA)
	}

	return results, nil
}
