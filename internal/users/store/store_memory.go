// Package store provides the user-lifecycle persistence: an in-memory
// store layered over the validation gateway for tests and local runs, and
// a postgres store for production.
package store

import (
	"context"
	"sync"
	"time"

	"innovation-admin/internal/users/models"
	valmodels "innovation-admin/internal/validation/models"
	valstore "innovation-admin/internal/validation/store"
	id "innovation-admin/pkg/domain"
	"innovation-admin/pkg/platform/sentinel"
	"innovation-admin/pkg/requestcontext"
)

// MemoryStore keeps user accounts in memory and applies role mutations to
// the shared validation gateway so the engine sees them immediately.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[id.UserID]models.User
	gateway *valstore.MemoryStore
}

// NewMemory constructs a memory store sharing state with the given
// validation gateway.
func NewMemory(gateway *valstore.MemoryStore) *MemoryStore {
	return &MemoryStore{
		users:   make(map[id.UserID]models.User),
		gateway: gateway,
	}
}

// Seed registers a user in this store and the validation gateway.
func (s *MemoryStore) Seed(user models.User) {
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
	s.gateway.SeedUser(user.ID, user.Locked())
}

func (s *MemoryStore) GetUser(ctx context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	if !ok || user.Deleted() {
		return nil, sentinel.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (s *MemoryStore) SetUserLock(ctx context.Context, userID id.UserID, lockedAt *time.Time) error {
	s.mu.Lock()
	user, ok := s.users[userID]
	if !ok || user.Deleted() {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	user.LockedAt = lockedAt
	user.UpdatedAt = requestcontext.Now(ctx)
	s.users[userID] = user
	s.mu.Unlock()

	s.gateway.SetUserLocked(userID, lockedAt != nil)
	return nil
}

func (s *MemoryStore) MarkUserDeleted(ctx context.Context, userID id.UserID) error {
	now := requestcontext.Now(ctx)

	s.mu.Lock()
	user, ok := s.users[userID]
	if !ok || user.Deleted() {
		s.mu.Unlock()
		return sentinel.ErrNotFound
	}
	user.DeletedAt = &now
	user.UpdatedAt = now
	s.users[userID] = user
	s.mu.Unlock()

	s.gateway.DeleteUser(userID)
	return nil
}

func (s *MemoryStore) SetRoleActive(ctx context.Context, userID id.UserID, roleID id.RoleID, active bool) error {
	if !s.gateway.SetRoleActive(userID, roleID, active) {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *MemoryStore) CreateRole(ctx context.Context, role valmodels.Role) error {
	s.gateway.SeedRole(role)
	return nil
}
