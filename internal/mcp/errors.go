package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/newsdesk/internal/domain/activity"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unrecognized errors map
// to nil and are reported as-is.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, activity.ErrUnauthorized):
		return &APIError{Code: "FORBIDDEN", Message: "not allowed to access this activity", RecoveryHint: "Use list_my_activity for your own records"}
	case errors.Is(err, activity.ErrNotFound):
		return &APIError{Code: "ACTIVITY_NOT_FOUND", Message: "activity not found", RecoveryHint: "Check the ID with list_my_activity"}
	case errors.Is(err, activity.ErrValidation), errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_ARGUMENT", Message: err.Error(), RecoveryHint: "Check argument ranges in the tool schema"}
	case errors.Is(err, activity.ErrDeleteInFlight):
		return &APIError{Code: "DELETE_IN_PROGRESS", Message: "a delete for this record is already running", RecoveryHint: "Wait and list again"}
	case errors.Is(err, activity.ErrTimeout):
		return &APIError{Code: "TIMEOUT", Message: "activity backend timed out", RecoveryHint: "Retry shortly"}
	default:
		return nil
	}
}
