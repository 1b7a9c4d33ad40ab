// Package models defines the user entity as seen by the lifecycle
// services.
package models

import (
	"time"

	id "innovation-admin/pkg/domain"
)

// User is a platform account. Locking suspends every capacity the account
// acts in; deletion is a soft delete that hides the account from all counts.
type User struct {
	ID        id.UserID
	Email     string
	Name      string
	LockedAt  *time.Time
	DeletedAt *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Locked reports whether the account is currently suspended.
func (u User) Locked() bool {
	return u.LockedAt != nil
}

// Deleted reports whether the account has been soft deleted.
func (u User) Deleted() bool {
	return u.DeletedAt != nil
}
