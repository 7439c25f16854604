package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rpggio/newsdesk/internal/domain/activity"
)

var validate = validator.New()

// Envelope is the body of every /api response.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// ListPayload is the data of a list response.
type ListPayload struct {
	Data       []activity.Record `json:"data"`
	Pagination Pagination        `json:"pagination"`
}

// DecodeJSON parses a request body into v, rejecting unknown fields. When v
// points to a struct its validate tags are checked too.
func DecodeJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", activity.ErrValidation, err)
	}
	if err := validate.Struct(v); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return fmt.Errorf("%w: %s", activity.ErrValidation, describeValidation(err))
	}
	return nil
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fmt.Sprintf("field %s must satisfy %s", fe.Field(), fe.Tag())
}

// WriteData writes a success envelope.
func WriteData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, Envelope{Success: true, Data: data})
}

// WriteError writes a failure envelope with the status err maps to.
func WriteError(w http.ResponseWriter, err error) {
	status, kind := StatusFor(err)
	msg := http.StatusText(status)
	if status < http.StatusInternalServerError {
		msg = err.Error()
	}
	writeJSON(w, status, Envelope{Success: false, Message: msg, Code: string(kind)})
}

// StatusFor maps a domain error to an HTTP status.
func StatusFor(err error) (int, activity.ErrorKind) {
	kind := activity.KindOf(err)
	switch {
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, activity.KindAuthorization
	case kind == activity.KindAuthorization:
		return http.StatusForbidden, kind
	case kind == activity.KindNotFound:
		return http.StatusNotFound, kind
	case kind == activity.KindValidation:
		return http.StatusBadRequest, kind
	case kind == activity.KindConflict:
		return http.StatusConflict, kind
	case kind == activity.KindTimeout:
		return http.StatusGatewayTimeout, kind
	default:
		return http.StatusInternalServerError, activity.KindInternal
	}
}

func writeStatus(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Envelope{Success: false, Message: msg, Code: string(activity.KindAuthorization)})
}

func writeJSON(w http.ResponseWriter, status int, payload Envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
