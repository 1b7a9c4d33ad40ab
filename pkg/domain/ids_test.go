package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "innovation-admin/pkg/domain-errors"
)

// TestParseUUID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs"
//
// Justification: This is a pure function enforcing a domain invariant
// at trust boundaries.
func TestParseUUID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseUserID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseUserID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		validUUID := uuid.New()
		id, err := ParseUserID(validUUID.String())
		require.NoError(t, err)
		assert.Equal(t, UserID(validUUID), id)
	})
}

// TestTypeDistinction verifies the compiler enforces type safety.
// This is a compile-time check - if this compiles, the invariant holds.
func TestTypeDistinction(t *testing.T) {
	userID := UserID(uuid.New())
	roleID := RoleID(uuid.New())

	// These would fail to compile if types were interchangeable:
	// var _ UserID = roleID   // compile error
	// var _ RoleID = userID   // compile error

	// Verify they're distinct at runtime too
	assert.NotEqual(t, uuid.UUID(userID), uuid.UUID(roleID))
}

// TestParseID_SecurityInvariants validates security-critical parsing rules.
//
// Justification: These are trust boundary invariants - parsing must reject
// attack vectors at API entry points.
func TestParseID_SecurityInvariants(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// Attack vectors
		{"SQL injection attempt", "'; DROP TABLE users;--", true},
		{"Path traversal", "../../../etc/passwd", true},
		{"Null byte injection", "550e8400\x00-e29b-41d4-a716-446655440000", true},
		{"Oversized input", strings.Repeat("a", 1000), true},
		{"Unicode zero-width space", "550e8400​-e29b-41d4-a716-446655440000", true},

		// Edge cases
		{"Empty string", "", true},
		{"Nil UUID", uuid.Nil.String(), true},
		{"Whitespace only", "   ", true},
		{"Uppercase valid UUID", "550E8400-E29B-41D4-A716-446655440000", false},

		// Valid
		{"Valid UUID lowercase", "550e8400-e29b-41d4-a716-446655440000", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseUserID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestAllIDTypes_ConsistentBehavior ensures all ID types have identical
// parsing behavior.
//
// Justification: Inconsistent validation across ID types could create
// security holes.
func TestAllIDTypes_ConsistentBehavior(t *testing.T) {
	validUUID := uuid.New().String()
	invalidInputs := []string{"", "invalid", uuid.Nil.String()}

	t.Run("all accept valid UUID", func(t *testing.T) {
		_, errUser := ParseUserID(validUUID)
		_, errRole := ParseRoleID(validUUID)
		_, errOrg := ParseOrganisationID(validUUID)
		_, errUnit := ParseOrganisationUnitID(validUUID)
		_, errInnovation := ParseInnovationID(validUUID)
		assert.NoError(t, errUser)
		assert.NoError(t, errRole)
		assert.NoError(t, errOrg)
		assert.NoError(t, errUnit)
		assert.NoError(t, errInnovation)
	})

	t.Run("all reject invalid input", func(t *testing.T) {
		for _, input := range invalidInputs {
			_, errUser := ParseUserID(input)
			_, errRole := ParseRoleID(input)
			_, errOrg := ParseOrganisationID(input)
			_, errUnit := ParseOrganisationUnitID(input)
			_, errInnovation := ParseInnovationID(input)
			assert.Error(t, errUser, "UserID should reject %q", input)
			assert.Error(t, errRole, "RoleID should reject %q", input)
			assert.Error(t, errOrg, "OrganisationID should reject %q", input)
			assert.Error(t, errUnit, "OrganisationUnitID should reject %q", input)
			assert.Error(t, errInnovation, "InnovationID should reject %q", input)
		}
	})
}

func TestRoleType(t *testing.T) {
	t.Run("parses supported values", func(t *testing.T) {
		for _, rt := range AllRoleTypes() {
			parsed, err := ParseRoleType(rt.String())
			require.NoError(t, err)
			assert.Equal(t, rt, parsed)
		}
	})

	t.Run("rejects empty and unknown values", func(t *testing.T) {
		for _, input := range []string{"", "SUPERUSER", "accessor"} {
			_, err := ParseRoleType(input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})

	t.Run("accessor family covers unit-bound types only", func(t *testing.T) {
		assert.True(t, RoleTypeAccessor.IsAccessorFamily())
		assert.True(t, RoleTypeQualifyingAccessor.IsAccessorFamily())
		assert.False(t, RoleTypeAdmin.IsAccessorFamily())
		assert.False(t, RoleTypeInnovator.IsAccessorFamily())
		assert.False(t, RoleTypeAssessment.IsAccessorFamily())
	})
}
