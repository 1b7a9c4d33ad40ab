package handler

import (
	"innovation-admin/internal/validation/models"
)

// ValidationResponse is the HTTP response for
// POST /admin/v1/validations/{operation}.
type ValidationResponse struct {
	Validations []ValidationResultResponse `json:"validations"`
}

// ValidationResultResponse is one rule verdict.
type ValidationResultResponse struct {
	Rule  string         `json:"rule"`
	Valid bool           `json:"valid"`
	Meta  map[string]any `json:"meta,omitempty"`
}

func toValidationResponse(results []models.ValidationResult) ValidationResponse {
	out := ValidationResponse{
		Validations: make([]ValidationResultResponse, 0, len(results)),
	}
	for _, r := range results {
		out.Validations = append(out.Validations, ValidationResultResponse{
			Rule:  string(r.Rule),
			Valid: r.Valid,
			Meta:  r.Meta,
		})
	}
	return out
}
