// Package domain provides shared domain primitives: typed identifiers and
// the role-type enumeration.
//
// Typed IDs prevent cross-type assignment at compile time (a RoleID can
// never be passed where a UserID is expected). Construct via the Parse*
// helpers at trust boundaries; direct casting bypasses validation.
package domain

import (
	"github.com/google/uuid"

	dErrors "innovation-admin/pkg/domain-errors"
)

type (
	// UserID identifies a platform user.
	UserID uuid.UUID
	// RoleID identifies one role binding a user into a capacity.
	RoleID uuid.UUID
	// OrganisationID identifies a supporting organisation.
	OrganisationID uuid.UUID
	// OrganisationUnitID identifies a unit within an organisation.
	OrganisationUnitID uuid.UUID
	// InnovationID identifies an innovation submitted to the service.
	InnovationID uuid.UUID
)

func parseUUID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be empty")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, "id cannot be the nil UUID")
	}
	return u, nil
}

// ParseUserID validates and constructs a UserID from external input.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseRoleID validates and constructs a RoleID from external input.
func ParseRoleID(s string) (RoleID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return RoleID{}, err
	}
	return RoleID(u), nil
}

// ParseOrganisationID validates and constructs an OrganisationID.
func ParseOrganisationID(s string) (OrganisationID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return OrganisationID{}, err
	}
	return OrganisationID(u), nil
}

// ParseOrganisationUnitID validates and constructs an OrganisationUnitID.
func ParseOrganisationUnitID(s string) (OrganisationUnitID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return OrganisationUnitID{}, err
	}
	return OrganisationUnitID(u), nil
}

// ParseInnovationID validates and constructs an InnovationID.
func ParseInnovationID(s string) (InnovationID, error) {
	u, err := parseUUID(s)
	if err != nil {
		return InnovationID{}, err
	}
	return InnovationID(u), nil
}

func (id UserID) String() string             { return uuid.UUID(id).String() }
func (id RoleID) String() string             { return uuid.UUID(id).String() }
func (id OrganisationID) String() string     { return uuid.UUID(id).String() }
func (id OrganisationUnitID) String() string { return uuid.UUID(id).String() }
func (id InnovationID) String() string       { return uuid.UUID(id).String() }

func (id UserID) IsNil() bool             { return uuid.UUID(id) == uuid.Nil }
func (id RoleID) IsNil() bool             { return uuid.UUID(id) == uuid.Nil }
func (id OrganisationID) IsNil() bool     { return uuid.UUID(id) == uuid.Nil }
func (id OrganisationUnitID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id InnovationID) IsNil() bool       { return uuid.UUID(id) == uuid.Nil }
