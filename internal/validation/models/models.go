// Package models defines the data model of the admin precondition
// validation engine: roles as read by the engine, the closed set of
// validation rules, operations, and their payloads.
package models

import (
	"time"

	id "innovation-admin/pkg/domain"
)

// Role is one capacity a user acts in: a (user, role type, optional
// organisation/unit) binding. The validation engine only reads roles; all
// mutation happens in the user-lifecycle services.
type Role struct {
	ID                 id.RoleID
	UserID             id.UserID
	Type               id.RoleType
	OrganisationID     id.OrganisationID
	OrganisationUnitID id.OrganisationUnitID
	IsActive           bool
	LockedAt           *time.Time
	CreatedAt          time.Time
}

// Enabled reports whether the role currently counts toward platform
// invariants. Locked or inactivated roles never satisfy a constraint.
func (r Role) Enabled() bool {
	return r.IsActive && r.LockedAt == nil
}

// InnovationSummary identifies an innovation in validation metadata so the
// caller can show which innovations would be left unsupported.
type InnovationSummary struct {
	ID   id.InnovationID `json:"id"`
	Name string          `json:"name"`
}

// ValidationRule names one platform constraint the engine can check. The
// set is closed: handlers only ever emit these names.
type ValidationRule string

const (
	RuleAssessmentUserIsNotTheOnlyOne        ValidationRule = "AssessmentUserIsNotTheOnlyOne"
	RuleLastQualifyingAccessorOnUnit         ValidationRule = "LastQualifyingAccessorOnOrganisationUnit"
	RuleNoInnovationsSupportedOnlyByThisUser ValidationRule = "NoInnovationsSupportedOnlyByThisUser"
	RuleUserHasAnyAdminRole                  ValidationRule = "UserHasAnyAdminRole"
	RuleUserHasAnyInnovatorRole              ValidationRule = "UserHasAnyInnovatorRole"
	RuleUserHasAnyAssessmentRole             ValidationRule = "UserHasAnyAssessmentRole"
	RuleUserHasAnyAccessorRole               ValidationRule = "UserHasAnyAccessorRole"
	RuleUserHasAnyQualifyingAccessorRole     ValidationRule = "UserHasAnyQualifyingAccessorRole"
	RuleUserHasAnyAccessorRoleInOtherOrg     ValidationRule = "UserHasAnyAccessorRoleInOtherOrganisation"
	RuleUserAlreadyHasRoleInUnit             ValidationRule = "UserAlreadyHasRoleInUnit"
	RuleOrganisationUnitIsActive             ValidationRule = "OrganisationUnitIsActive"
	RuleUserCanHaveAssessmentOrAccessorRole  ValidationRule = "UserCanHaveAssessmentOrAccessorRole"
)

// hasAnyRuleByType maps a role type to the rule name reported when the user
// already holds a conflicting role of that type.
var hasAnyRuleByType = map[id.RoleType]ValidationRule{
	id.RoleTypeAdmin:              RuleUserHasAnyAdminRole,
	id.RoleTypeInnovator:          RuleUserHasAnyInnovatorRole,
	id.RoleTypeAssessment:         RuleUserHasAnyAssessmentRole,
	id.RoleTypeAccessor:           RuleUserHasAnyAccessorRole,
	id.RoleTypeQualifyingAccessor: RuleUserHasAnyQualifyingAccessorRole,
}

// HasAnyRuleFor returns the rule name covering "user already holds a role of
// this type".
func HasAnyRuleFor(t id.RoleType) ValidationRule {
	return hasAnyRuleByType[t]
}

// ValidationResult pairs a rule with its safety verdict. Valid=true means
// the attempted operation does not violate this rule - not that some
// unrelated fact holds. Callers block the admin action once any result with
// Valid=false is present.
type ValidationResult struct {
	Rule  ValidationRule `json:"rule"`
	Valid bool           `json:"valid"`
	// Meta carries structured explanatory data for failed checks, e.g. the
	// innovations that would be left unsupported.
	Meta map[string]any `json:"meta,omitempty"`
}

// Operation identifies one administrative operation gated by the engine.
type Operation string

const (
	OperationDeleteUser         Operation = "DELETE_USER"
	OperationLockUser           Operation = "LOCK_USER"
	OperationInactivateUserRole Operation = "INACTIVATE_USER_ROLE"
	OperationActivateUserRole   Operation = "ACTIVATE_USER_ROLE"
	OperationAddUserRole        Operation = "ADD_USER_ROLE"
	OperationAddAnyUserRole     Operation = "ADD_ANY_USER_ROLE"
)

// validOperations is the single source of truth for valid operations.
var validOperations = map[Operation]bool{
	OperationDeleteUser:         true,
	OperationLockUser:           true,
	OperationInactivateUserRole: true,
	OperationActivateUserRole:   true,
	OperationAddUserRole:        true,
	OperationAddAnyUserRole:     true,
}

// ParseOperation constructs an Operation from external input.
func ParseOperation(s string) (Operation, bool) {
	op := Operation(s)
	return op, validOperations[op]
}

// String returns the string representation of the operation.
func (o Operation) String() string {
	return string(o)
}

// Payload carries the operation-specific inputs. Shapes are assumed already
// schema-validated by the caller; handlers only enforce the structural
// requirements of the role type they resolve (e.g. an accessor-family
// addition needs organisation unit ids).
type Payload struct {
	// UserID is the target user. Required by every operation.
	UserID id.UserID
	// UserRoleID is the target role for single-role operations
	// (activate/inactivate).
	UserRoleID id.RoleID
	// RoleType is the prospective role type for AddUserRole.
	RoleType id.RoleType
	// OrganisationUnitIDs are the units the prospective role would be bound
	// to, for accessor-family AddUserRole.
	OrganisationUnitIDs []id.OrganisationUnitID
}
