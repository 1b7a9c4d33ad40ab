package handler

import (
	"strings"

	valmodels "innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	dErrors "innovation-admin/pkg/domain-errors"
	pstrings "innovation-admin/pkg/platform/strings"
)

// AddRoleRequest is the HTTP request body for
// POST /admin/v1/users/{userId}/roles.
type AddRoleRequest struct {
	RoleType            string   `json:"roleType"`
	OrganisationUnitIDs []string `json:"organisationUnitIds,omitempty"`
}

func (r AddRoleRequest) parse() (id.RoleType, []id.OrganisationUnitID, error) {
	roleType, err := id.ParseRoleType(strings.TrimSpace(r.RoleType))
	if err != nil {
		return "", nil, dErrors.Newf(dErrors.CodeValidation, "unknown role type %q", r.RoleType)
	}

	var unitIDs []id.OrganisationUnitID
	for _, raw := range pstrings.DedupeAndTrim(r.OrganisationUnitIDs) {
		unitID, err := id.ParseOrganisationUnitID(raw)
		if err != nil {
			return "", nil, dErrors.New(dErrors.CodeValidation, "organisationUnitIds must be valid uuids")
		}
		unitIDs = append(unitIDs, unitID)
	}
	return roleType, unitIDs, nil
}

// AddRoleResponse is the HTTP response for a granted role.
type AddRoleResponse struct {
	Roles []RoleResponse `json:"roles"`
}

// RoleResponse is one created role.
type RoleResponse struct {
	ID                 string `json:"id"`
	RoleType           string `json:"roleType"`
	OrganisationUnitID string `json:"organisationUnitId,omitempty"`
}

func toAddRoleResponse(created []valmodels.Role) AddRoleResponse {
	out := AddRoleResponse{Roles: make([]RoleResponse, 0, len(created))}
	for _, role := range created {
		resp := RoleResponse{
			ID:       role.ID.String(),
			RoleType: string(role.Type),
		}
		if !role.OrganisationUnitID.IsNil() {
			resp.OrganisationUnitID = role.OrganisationUnitID.String()
		}
		out.Roles = append(out.Roles, resp)
	}
	return out
}
