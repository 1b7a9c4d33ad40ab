// Package store provides the query gateway implementations backing the
// validation engine: an in-memory store for tests and local runs, a
// postgres store for production, and a redis caching decorator.
package store

import (
	"context"
	"sync"

	"innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	"innovation-admin/pkg/platform/sentinel"
)

type memUser struct {
	locked  bool
	deleted bool
}

type memInnovation struct {
	name          string
	activeSupport bool
	supportedBy   []id.RoleID
}

// MemoryStore is an in-memory QueryGateway with seed helpers. Safe for
// concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	users       map[id.UserID]memUser
	roles       map[id.RoleID]models.Role
	units       map[id.OrganisationUnitID]bool
	innovations map[id.InnovationID]memInnovation
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:       make(map[id.UserID]memUser),
		roles:       make(map[id.RoleID]models.Role),
		units:       make(map[id.OrganisationUnitID]bool),
		innovations: make(map[id.InnovationID]memInnovation),
	}
}

// SeedUser registers a user. Roles of unregistered users are invisible to
// every query.
func (s *MemoryStore) SeedUser(userID id.UserID, locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[userID] = memUser{locked: locked}
}

// SeedRole registers a role; its user is registered unlocked if missing.
func (s *MemoryStore) SeedRole(role models.Role) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[role.UserID]; !ok {
		s.users[role.UserID] = memUser{}
	}
	s.roles[role.ID] = role
}

// SeedUnit registers an organisation unit and its active flag.
func (s *MemoryStore) SeedUnit(unitID id.OrganisationUnitID, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.units[unitID] = active
}

// SeedInnovation registers an innovation with its assigned supporting
// roles. activeSupport marks whether the innovation is in an active support
// state.
func (s *MemoryStore) SeedInnovation(innovationID id.InnovationID, name string, activeSupport bool, supportedBy ...id.RoleID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.innovations[innovationID] = memInnovation{
		name:          name,
		activeSupport: activeSupport,
		supportedBy:   supportedBy,
	}
}

// DeleteUser marks a user deleted, hiding all their roles from counts.
func (s *MemoryStore) DeleteUser(userID id.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.deleted = true
	s.users[userID] = u
}

// SetUserLocked flips a user's lock flag.
func (s *MemoryStore) SetUserLocked(userID id.UserID, locked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.users[userID]
	u.locked = locked
	s.users[userID] = u
}

// SetRoleActive flips one role's active flag. Reports whether the role
// exists and belongs to the user.
func (s *MemoryStore) SetRoleActive(userID id.UserID, roleID id.RoleID, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	role, ok := s.roles[roleID]
	if !ok || role.UserID != userID {
		return false
	}
	role.IsActive = active
	s.roles[roleID] = role
	return true
}

// counts reports whether the role satisfies invariants: enabled, with an
// existing user that is neither locked nor deleted. Callers hold s.mu.
func (s *MemoryStore) counts(role models.Role) bool {
	if !role.Enabled() {
		return false
	}
	u, ok := s.users[role.UserID]
	return ok && !u.locked && !u.deleted
}

func (s *MemoryStore) GetRole(ctx context.Context, userID id.UserID, roleID id.RoleID) (*models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	role, ok := s.roles[roleID]
	if !ok || role.UserID != userID {
		return nil, sentinel.ErrNotFound
	}
	copied := role
	return &copied, nil
}

func (s *MemoryStore) GetRoles(ctx context.Context, userID id.UserID) ([]models.Role, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[userID]
	if !ok || u.deleted {
		return nil, sentinel.ErrNotFound
	}
	var out []models.Role
	for _, role := range s.roles {
		if role.UserID == userID {
			out = append(out, role)
		}
	}
	return out, nil
}

func (s *MemoryStore) CountUserRolesOfType(ctx context.Context, userID id.UserID, types []id.RoleType, excludeRoleID id.RoleID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, role := range s.roles {
		if role.UserID != userID || role.ID == excludeRoleID || !s.counts(role) {
			continue
		}
		for _, t := range types {
			if role.Type == t {
				count++
				break
			}
		}
	}
	return count, nil
}

func (s *MemoryStore) CountPlatformUsersWithRole(ctx context.Context, roleType id.RoleType, excludeUserID id.UserID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[id.UserID]bool)
	for _, role := range s.roles {
		if role.Type != roleType || role.UserID == excludeUserID || !s.counts(role) {
			continue
		}
		seen[role.UserID] = true
	}
	return len(seen), nil
}

func (s *MemoryStore) CountActiveRolesInUnit(ctx context.Context, unitID id.OrganisationUnitID, roleType id.RoleType, excludeRoleID id.RoleID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, role := range s.roles {
		if role.OrganisationUnitID == unitID && role.Type == roleType && role.ID != excludeRoleID && s.counts(role) {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) InnovationsExclusivelySupportedBy(ctx context.Context, roleID id.RoleID) ([]models.InnovationSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.InnovationSummary
	for innovationID, innovation := range s.innovations {
		if !innovation.activeSupport {
			continue
		}
		holds := false
		exclusive := true
		for _, supportingID := range innovation.supportedBy {
			role, ok := s.roles[supportingID]
			if !ok || !s.counts(role) {
				continue
			}
			if supportingID == roleID {
				holds = true
			} else {
				exclusive = false
			}
		}
		if holds && exclusive {
			out = append(out, models.InnovationSummary{ID: innovationID, Name: innovation.name})
		}
	}
	return out, nil
}

func (s *MemoryStore) IsUnitActive(ctx context.Context, unitID id.OrganisationUnitID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.units[unitID], nil
}

func (s *MemoryStore) UserHasRoleInUnit(ctx context.Context, userID id.UserID, unitID id.OrganisationUnitID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, role := range s.roles {
		if role.UserID == userID && role.OrganisationUnitID == unitID && role.Type.IsAccessorFamily() && s.counts(role) {
			return true, nil
		}
	}
	return false, nil
}
