package domain

import dErrors "innovation-admin/pkg/domain-errors"

// RoleType identifies the capacity a role grants its holder.
// Invariant: the value must be one of the supported role types.
//
// Usage: construct via ParseRoleType at trust boundaries to enforce the
// allowlist; direct casting bypasses validation.
type RoleType string

// Supported role types. The string values are the platform's wire values.
const (
	RoleTypeAdmin              RoleType = "ADMIN"
	RoleTypeInnovator          RoleType = "INNOVATOR"
	RoleTypeAssessment         RoleType = "ASSESSMENT"
	RoleTypeAccessor           RoleType = "ACCESSOR"
	RoleTypeQualifyingAccessor RoleType = "QUALIFYING_ACCESSOR"
)

// validRoleTypes is the single source of truth for valid role types.
var validRoleTypes = map[RoleType]bool{
	RoleTypeAdmin:              true,
	RoleTypeInnovator:          true,
	RoleTypeAssessment:         true,
	RoleTypeAccessor:           true,
	RoleTypeQualifyingAccessor: true,
}

// ParseRoleType constructs a RoleType from external input.
//
// Errors: returns CodeInvalidInput when the value is empty or unsupported.
func ParseRoleType(s string) (RoleType, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "role type cannot be empty")
	}
	t := RoleType(s)
	if !t.IsValid() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "invalid role type")
	}
	return t, nil
}

// IsValid checks if the role type is one of the supported enum values.
func (t RoleType) IsValid() bool {
	return validRoleTypes[t]
}

// IsAccessorFamily reports whether the role type is bound to an
// organisation unit (accessor or qualifying accessor).
func (t RoleType) IsAccessorFamily() bool {
	return t == RoleTypeAccessor || t == RoleTypeQualifyingAccessor
}

// String returns the string representation of the role type.
func (t RoleType) String() string {
	return string(t)
}

// AllRoleTypes returns every supported role type.
func AllRoleTypes() []RoleType {
	return []RoleType{
		RoleTypeAdmin,
		RoleTypeInnovator,
		RoleTypeAssessment,
		RoleTypeAccessor,
		RoleTypeQualifyingAccessor,
	}
}
