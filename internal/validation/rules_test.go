package validation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"innovation-admin/internal/validation/mocks"
	"innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	dErrors "innovation-admin/pkg/domain-errors"
)

// EvaluatorsSuite covers the atomic rule checks in isolation: predicate
// edge cases the end-to-end suite cannot reach cheaply, and gateway error
// propagation.
type EvaluatorsSuite struct {
	suite.Suite
	gateway    *mocks.MockQueryGateway
	evaluators *Evaluators
}

func TestEvaluatorsSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorsSuite))
}

func (s *EvaluatorsSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.gateway = mocks.NewMockQueryGateway(ctrl)
	s.evaluators = NewEvaluators(s.gateway)
}

func (s *EvaluatorsSuite) TestCheckUserHasAnyRole() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	excludeID := id.RoleID(uuid.New())

	s.Run("emits one named result per requested type", func() {
		s.gateway.EXPECT().
			CountUserRolesOfType(ctx, userID, []id.RoleType{id.RoleTypeAdmin}, excludeID).
			Return(0, nil)
		s.gateway.EXPECT().
			CountUserRolesOfType(ctx, userID, []id.RoleType{id.RoleTypeInnovator}, excludeID).
			Return(2, nil)

		results, err := s.evaluators.checkUserHasAnyRole(ctx, userID,
			[]id.RoleType{id.RoleTypeAdmin, id.RoleTypeInnovator}, excludeID)
		s.Require().NoError(err)
		s.Equal([]models.ValidationResult{
			{Rule: models.RuleUserHasAnyAdminRole, Valid: true},
			{Rule: models.RuleUserHasAnyInnovatorRole, Valid: false},
		}, results)
	})

	s.Run("gateway failure is an internal error", func() {
		s.gateway.EXPECT().
			CountUserRolesOfType(ctx, userID, gomock.Any(), excludeID).
			Return(0, errors.New("db down"))

		_, err := s.evaluators.checkUserHasAnyRole(ctx, userID,
			[]id.RoleType{id.RoleTypeAdmin}, excludeID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *EvaluatorsSuite) TestCheckLastQualifyingAccessorOnUnit() {
	ctx := context.Background()

	s.Run("role without a unit is a bad request", func() {
		_, err := s.evaluators.checkLastQualifyingAccessorOnUnit(ctx, models.Role{
			ID:   id.RoleID(uuid.New()),
			Type: id.RoleTypeQualifyingAccessor,
		})
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("gateway failure is an internal error", func() {
		role := models.Role{
			ID:                 id.RoleID(uuid.New()),
			Type:               id.RoleTypeQualifyingAccessor,
			OrganisationUnitID: id.OrganisationUnitID(uuid.New()),
		}
		s.gateway.EXPECT().
			CountActiveRolesInUnit(ctx, role.OrganisationUnitID, id.RoleTypeQualifyingAccessor, role.ID).
			Return(0, errors.New("db down"))

		_, err := s.evaluators.checkLastQualifyingAccessorOnUnit(ctx, role)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}

func (s *EvaluatorsSuite) TestCheckNoInnovationsSupportedOnlyByThisUser() {
	ctx := context.Background()
	roleID := id.RoleID(uuid.New())

	s.Run("gateway failure is an internal error", func() {
		s.gateway.EXPECT().
			InnovationsExclusivelySupportedBy(ctx, roleID).
			Return(nil, errors.New("db down"))

		_, err := s.evaluators.checkNoInnovationsSupportedOnlyByThisUser(ctx, roleID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})

	s.Run("valid result carries no meta", func() {
		s.gateway.EXPECT().
			InnovationsExclusivelySupportedBy(ctx, roleID).
			Return(nil, nil)

		result, err := s.evaluators.checkNoInnovationsSupportedOnlyByThisUser(ctx, roleID)
		s.Require().NoError(err)
		s.True(result.Valid)
		s.Nil(result.Meta)
	})
}

func (s *EvaluatorsSuite) TestCheckUserHasAnyAccessorRoleInOtherOrganisation() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	ownUnit := id.OrganisationUnitID(uuid.New())
	otherUnit := id.OrganisationUnitID(uuid.New())

	s.Run("disabled accessor roles elsewhere are ignored", func() {
		lockedAt := time.Now()
		s.gateway.EXPECT().GetRoles(ctx, userID).Return([]models.Role{
			{ID: id.RoleID(uuid.New()), UserID: userID, Type: id.RoleTypeAccessor,
				OrganisationUnitID: otherUnit, IsActive: false},
			{ID: id.RoleID(uuid.New()), UserID: userID, Type: id.RoleTypeAccessor,
				OrganisationUnitID: otherUnit, IsActive: true, LockedAt: &lockedAt},
		}, nil)

		result, err := s.evaluators.checkUserHasAnyAccessorRoleInOtherOrganisation(ctx, userID,
			[]id.OrganisationUnitID{ownUnit})
		s.Require().NoError(err)
		s.True(result.Valid)
	})

	s.Run("non-accessor roles elsewhere are ignored", func() {
		s.gateway.EXPECT().GetRoles(ctx, userID).Return([]models.Role{
			{ID: id.RoleID(uuid.New()), UserID: userID, Type: id.RoleTypeAssessment, IsActive: true},
		}, nil)

		result, err := s.evaluators.checkUserHasAnyAccessorRoleInOtherOrganisation(ctx, userID,
			[]id.OrganisationUnitID{ownUnit})
		s.Require().NoError(err)
		s.True(result.Valid)
	})

	s.Run("enabled accessor role outside the excluded set fails with its unit", func() {
		s.gateway.EXPECT().GetRoles(ctx, userID).Return([]models.Role{
			{ID: id.RoleID(uuid.New()), UserID: userID, Type: id.RoleTypeQualifyingAccessor,
				OrganisationUnitID: otherUnit, IsActive: true},
		}, nil)

		result, err := s.evaluators.checkUserHasAnyAccessorRoleInOtherOrganisation(ctx, userID,
			[]id.OrganisationUnitID{ownUnit})
		s.Require().NoError(err)
		s.False(result.Valid)
		s.Equal(otherUnit.String(), result.Meta["organisationUnitId"])
	})
}

func (s *EvaluatorsSuite) TestCheckUserCanHaveAssessmentOrAccessorRole() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())

	role := func(t id.RoleType, active bool) models.Role {
		return models.Role{ID: id.RoleID(uuid.New()), UserID: userID, Type: t, IsActive: active}
	}

	cases := []struct {
		name  string
		roles []models.Role
		valid bool
	}{
		{name: "no roles", roles: nil, valid: true},
		{name: "innovator blocks", roles: []models.Role{role(id.RoleTypeInnovator, true)}, valid: false},
		{name: "admin blocks", roles: []models.Role{role(id.RoleTypeAdmin, true)}, valid: false},
		{name: "assessment alone is fine", roles: []models.Role{role(id.RoleTypeAssessment, true)}, valid: true},
		{name: "accessor alone is fine", roles: []models.Role{role(id.RoleTypeAccessor, true)}, valid: true},
		{
			name:  "both professional families block",
			roles: []models.Role{role(id.RoleTypeAssessment, true), role(id.RoleTypeQualifyingAccessor, true)},
			valid: false,
		},
		{
			name:  "inactive roles are ignored",
			roles: []models.Role{role(id.RoleTypeAssessment, true), role(id.RoleTypeAccessor, false)},
			valid: true,
		},
	}

	for _, tc := range cases {
		s.Run(tc.name, func() {
			s.gateway.EXPECT().GetRoles(ctx, userID).Return(tc.roles, nil)

			result, err := s.evaluators.checkUserCanHaveAssessmentOrAccessorRole(ctx, userID)
			s.Require().NoError(err)
			s.Equal(models.RuleUserCanHaveAssessmentOrAccessorRole, result.Rule)
			s.Equal(tc.valid, result.Valid)
		})
	}
}

func (s *EvaluatorsSuite) TestCheckUserAlreadyHasRoleInUnit() {
	ctx := context.Background()
	userID := id.UserID(uuid.New())
	unitID := id.OrganisationUnitID(uuid.New())

	s.Run("held role fails with the unit in meta", func() {
		s.gateway.EXPECT().UserHasRoleInUnit(ctx, userID, unitID).Return(true, nil)

		result, err := s.evaluators.checkUserAlreadyHasRoleInUnit(ctx, userID, unitID)
		s.Require().NoError(err)
		s.False(result.Valid)
		s.Equal(unitID.String(), result.Meta["organisationUnitId"])
	})

	s.Run("gateway failure is an internal error", func() {
		s.gateway.EXPECT().UserHasRoleInUnit(ctx, userID, unitID).Return(false, errors.New("db down"))

		_, err := s.evaluators.checkUserAlreadyHasRoleInUnit(ctx, userID, unitID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInternal))
	})
}
