// Package audit captures the admin actions this service performs. Events are
// transport-agnostic so publishers can fan out to Kafka or memory sinks.
package audit

import (
	"time"

	id "innovation-admin/pkg/domain"
)

// Category classifies audit events by their primary purpose. This enables
// different retention policies and routing downstream.
type Category string

const (
	// CategoryCompliance covers events with legal/regulatory significance:
	// user deletion, locking, role changes.
	CategoryCompliance Category = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility: validation runs, refused operations.
	CategoryOperations Category = "operations"
)

// Event is emitted from domain logic to capture key admin actions.
type Event struct {
	Category  Category
	Timestamp time.Time
	// ActorID is the admin performing the action.
	ActorID id.UserID
	// TargetUserID is the user the action applies to.
	TargetUserID id.UserID
	// TargetRoleID is set for role-scoped actions.
	TargetRoleID id.RoleID
	Action       Action
	// Outcome is "performed" or "refused".
	Outcome string
	// Reason lists the failed validation rules when an operation is refused.
	Reason    string
	RequestID string
}

// Action names the admin operations that produce audit events.
type Action string

const (
	ActionUserLocked      Action = "user_locked"
	ActionUserUnlocked    Action = "user_unlocked"
	ActionUserDeleted     Action = "user_deleted"
	ActionRoleActivated   Action = "role_activated"
	ActionRoleInactivated Action = "role_inactivated"
	ActionRoleAdded       Action = "role_added"
)

const (
	OutcomePerformed = "performed"
	OutcomeRefused   = "refused"
)
