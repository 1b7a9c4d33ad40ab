package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"innovation-admin/internal/audit"
	"innovation-admin/internal/users/models"
	userstore "innovation-admin/internal/users/store"
	"innovation-admin/internal/validation"
	valmodels "innovation-admin/internal/validation/models"
	valstore "innovation-admin/internal/validation/store"
	id "innovation-admin/pkg/domain"
	dErrors "innovation-admin/pkg/domain-errors"
	"innovation-admin/pkg/platform/sentinel"
	"innovation-admin/pkg/platform/tx"
)

// ServiceSuite wires the lifecycle service against the real engine and the
// in-memory stores: refusals must come from actual rule evaluation, and
// mutations must be visible to the engine afterwards.
type ServiceSuite struct {
	suite.Suite
	gateway *valstore.MemoryStore
	store   *userstore.MemoryStore
	audit   *audit.MemoryPublisher
	service *Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.gateway = valstore.NewMemoryStore()
	s.store = userstore.NewMemory(s.gateway)
	s.audit = audit.NewMemoryPublisher()
	s.service = New(validation.NewRegistry(s.gateway), s.store, tx.NoopRunner{}, s.audit)
}

func (s *ServiceSuite) seedUser() id.UserID {
	userID := id.UserID(uuid.New())
	s.store.Seed(models.User{
		ID:        userID,
		Email:     userID.String() + "@example.com",
		Name:      "Test User",
		CreatedAt: time.Now(),
	})
	return userID
}

func (s *ServiceSuite) seedRole(userID id.UserID, roleType id.RoleType, unitID id.OrganisationUnitID) valmodels.Role {
	role := valmodels.Role{
		ID:                 id.RoleID(uuid.New()),
		UserID:             userID,
		Type:               roleType,
		OrganisationUnitID: unitID,
		IsActive:           true,
		CreatedAt:          time.Now(),
	}
	s.gateway.SeedRole(role)
	return role
}

func (s *ServiceSuite) lastEvent() audit.Event {
	s.T().Helper()
	events := s.audit.Events()
	s.Require().NotEmpty(events)
	return events[len(events)-1]
}

func (s *ServiceSuite) TestLockUser() {
	ctx := context.Background()

	s.Run("locks a user whose roles are dispensable", func() {
		userID := s.seedUser()
		s.seedRole(userID, id.RoleTypeInnovator, id.OrganisationUnitID{})

		s.Require().NoError(s.service.LockUser(ctx, userID))

		user, err := s.store.GetUser(ctx, userID)
		s.Require().NoError(err)
		s.True(user.Locked())

		event := s.lastEvent()
		s.Equal(audit.ActionUserLocked, event.Action)
		s.Equal(audit.OutcomePerformed, event.Outcome)
		s.Equal(userID, event.TargetUserID)
	})

	s.Run("refuses to lock the sole assessment user", func() {
		userID := s.seedUser()
		s.seedRole(userID, id.RoleTypeAssessment, id.OrganisationUnitID{})

		err := s.service.LockUser(ctx, userID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Contains(dErrors.MessageOf(err), string(valmodels.RuleAssessmentUserIsNotTheOnlyOne))

		user, gErr := s.store.GetUser(ctx, userID)
		s.Require().NoError(gErr)
		s.False(user.Locked())

		event := s.lastEvent()
		s.Equal(audit.OutcomeRefused, event.Outcome)
		s.Contains(event.Reason, string(valmodels.RuleAssessmentUserIsNotTheOnlyOne))
	})

	s.Run("unknown user is not found", func() {
		err := s.service.LockUser(ctx, id.UserID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestUnlockUser() {
	ctx := context.Background()

	s.Run("lifts a suspension", func() {
		userID := s.seedUser()
		s.seedRole(userID, id.RoleTypeInnovator, id.OrganisationUnitID{})
		s.Require().NoError(s.service.LockUser(ctx, userID))

		s.Require().NoError(s.service.UnlockUser(ctx, userID))

		user, err := s.store.GetUser(ctx, userID)
		s.Require().NoError(err)
		s.False(user.Locked())
		s.Equal(audit.ActionUserUnlocked, s.lastEvent().Action)
	})

	s.Run("unknown user is not found", func() {
		err := s.service.UnlockUser(ctx, id.UserID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestDeleteUser() {
	ctx := context.Background()

	s.Run("refuses to delete an admin", func() {
		userID := s.seedUser()
		s.seedRole(userID, id.RoleTypeAdmin, id.OrganisationUnitID{})

		err := s.service.DeleteUser(ctx, userID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Contains(dErrors.MessageOf(err), string(valmodels.RuleUserHasAnyAdminRole))
	})

	s.Run("soft deletes and hides the account", func() {
		userID := s.seedUser()
		s.seedRole(userID, id.RoleTypeInnovator, id.OrganisationUnitID{})

		s.Require().NoError(s.service.DeleteUser(ctx, userID))

		_, err := s.store.GetUser(ctx, userID)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		event := s.lastEvent()
		s.Equal(audit.ActionUserDeleted, event.Action)
		s.Equal(audit.OutcomePerformed, event.Outcome)
	})
}

func (s *ServiceSuite) TestRoleActivation() {
	ctx := context.Background()

	s.Run("flips the role flag both ways", func() {
		userID := s.seedUser()
		unitID := id.OrganisationUnitID(uuid.New())
		s.gateway.SeedUnit(unitID, true)
		role := s.seedRole(userID, id.RoleTypeQualifyingAccessor, unitID)
		// A colleague keeps the unit covered when this role is disabled.
		s.seedRole(id.UserID(uuid.New()), id.RoleTypeQualifyingAccessor, unitID)

		s.Require().NoError(s.service.InactivateRole(ctx, userID, role.ID))
		s.Equal(audit.ActionRoleInactivated, s.lastEvent().Action)

		s.Require().NoError(s.service.ActivateRole(ctx, userID, role.ID))
		s.Equal(audit.ActionRoleActivated, s.lastEvent().Action)
	})

	s.Run("refuses to disable the unit's last qualifying accessor", func() {
		userID := s.seedUser()
		unitID := id.OrganisationUnitID(uuid.New())
		s.gateway.SeedUnit(unitID, true)
		role := s.seedRole(userID, id.RoleTypeQualifyingAccessor, unitID)

		err := s.service.InactivateRole(ctx, userID, role.ID)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Contains(dErrors.MessageOf(err), string(valmodels.RuleLastQualifyingAccessorOnUnit))
	})

	s.Run("unknown role is not found", func() {
		userID := s.seedUser()
		err := s.service.ActivateRole(ctx, userID, id.RoleID(uuid.New()))
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *ServiceSuite) TestAddRole() {
	ctx := context.Background()

	s.Run("creates one accessor role per unit", func() {
		userID := s.seedUser()
		unitA := id.OrganisationUnitID(uuid.New())
		unitB := id.OrganisationUnitID(uuid.New())
		s.gateway.SeedUnit(unitA, true)
		s.gateway.SeedUnit(unitB, true)

		created, err := s.service.AddRole(ctx, userID, id.RoleTypeAccessor,
			[]id.OrganisationUnitID{unitA, unitB})
		s.Require().NoError(err)
		s.Require().Len(created, 2)

		// The engine sees the new roles immediately.
		held, err := s.gateway.UserHasRoleInUnit(ctx, userID, unitA)
		s.Require().NoError(err)
		s.True(held)

		event := s.lastEvent()
		s.Equal(audit.ActionRoleAdded, event.Action)
		s.Equal(audit.OutcomePerformed, event.Outcome)
	})

	s.Run("refuses a role the user's admin role conflicts with", func() {
		userID := s.seedUser()
		s.seedRole(userID, id.RoleTypeAdmin, id.OrganisationUnitID{})

		_, err := s.service.AddRole(ctx, userID, id.RoleTypeAssessment, nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeInvariantViolation))
		s.Contains(dErrors.MessageOf(err), string(valmodels.RuleUserHasAnyAdminRole))
	})

	s.Run("invalid role type is a bad request", func() {
		_, err := s.service.AddRole(ctx, s.seedUser(), id.RoleType("SUPERUSER"), nil)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	s.Run("assessment role needs no units", func() {
		userID := s.seedUser()
		created, err := s.service.AddRole(ctx, userID, id.RoleTypeAssessment, nil)
		s.Require().NoError(err)
		s.Require().Len(created, 1)
		s.True(created[0].OrganisationUnitID.IsNil())
	})
}
