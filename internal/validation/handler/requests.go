package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"innovation-admin/internal/validation/models"
	id "innovation-admin/pkg/domain"
	dErrors "innovation-admin/pkg/domain-errors"
	pstrings "innovation-admin/pkg/platform/strings"
)

// ValidationRequest is the HTTP request body for
// POST /admin/v1/validations/{operation}.
type ValidationRequest struct {
	UserID              string   `json:"userId"`
	UserRoleID          string   `json:"userRoleId,omitempty"`
	RoleType            string   `json:"roleType,omitempty"`
	OrganisationUnitIDs []string `json:"organisationUnitIds,omitempty"`
}

// decodeValidationRequest parses and validates the request body into an
// engine payload. Only the fields present are parsed; the engine enforces
// which ones each operation needs.
func decodeValidationRequest(r *http.Request) (models.Payload, error) {
	var req ValidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return models.Payload{}, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return req.toPayload()
}

func (r ValidationRequest) toPayload() (models.Payload, error) {
	var payload models.Payload

	userID, err := id.ParseUserID(strings.TrimSpace(r.UserID))
	if err != nil {
		return models.Payload{}, dErrors.New(dErrors.CodeValidation, "userId must be a valid uuid")
	}
	payload.UserID = userID

	if r.UserRoleID != "" {
		roleID, err := id.ParseRoleID(strings.TrimSpace(r.UserRoleID))
		if err != nil {
			return models.Payload{}, dErrors.New(dErrors.CodeValidation, "userRoleId must be a valid uuid")
		}
		payload.UserRoleID = roleID
	}

	if r.RoleType != "" {
		roleType, err := id.ParseRoleType(r.RoleType)
		if err != nil {
			return models.Payload{}, dErrors.Newf(dErrors.CodeValidation, "unknown role type %q", r.RoleType)
		}
		payload.RoleType = roleType
	}

	for _, raw := range pstrings.DedupeAndTrim(r.OrganisationUnitIDs) {
		unitID, err := id.ParseOrganisationUnitID(raw)
		if err != nil {
			return models.Payload{}, dErrors.New(dErrors.CodeValidation, "organisationUnitIds must be valid uuids")
		}
		payload.OrganisationUnitIDs = append(payload.OrganisationUnitIDs, unitID)
	}

	return payload, nil
}
