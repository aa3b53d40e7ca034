// Package errors provides the JSON error body returned by the shellder API.
package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/aegis-aio/shellder/internal/models"
)

// Error codes for structured API responses.
const (
	CodeValidationError = "VALIDATION_ERROR"
	CodeNotFound        = "NOT_FOUND"
	CodeOutOfRange      = "OUT_OF_RANGE"
	CodeRuntimeError    = "RUNTIME_ERROR"
	CodeInternalError   = "INTERNAL_ERROR"
)

var statusByCode = map[string]int{
	CodeValidationError: http.StatusBadRequest,
	CodeNotFound:        http.StatusNotFound,
	CodeOutOfRange:      http.StatusRequestedRangeNotSatisfiable,
	CodeRuntimeError:    http.StatusBadGateway,
	CodeInternalError:   http.StatusInternalServerError,
}

// APIError represents a structured API error response.
type APIError struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetails returns a copy of the error with additional details.
func (e *APIError) WithDetails(details map[string]any) *APIError {
	c := *e
	c.Details = details
	return &c
}

// WithRequestID returns a copy of the error with the request ID set.
func (e *APIError) WithRequestID(requestID string) *APIError {
	c := *e
	c.RequestID = requestID
	return &c
}

// HTTPStatusCode returns the HTTP status for the error code. Unknown codes
// are internal errors.
func (e *APIError) HTTPStatusCode() int {
	if status, ok := statusByCode[e.Code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// New creates a new APIError with the given code and message.
func New(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(message string) *APIError {
	return New(CodeNotFound, message)
}

// NewOutOfRangeError creates an error for a page or entry outside a session.
func NewOutOfRangeError(message string) *APIError {
	return New(CodeOutOfRange, message)
}

// NewRuntimeError creates an error for a failed container runtime call.
func NewRuntimeError(message string) *APIError {
	return New(CodeRuntimeError, message)
}

// NewInternalError creates an internal server error.
func NewInternalError(message string) *APIError {
	return New(CodeInternalError, message)
}

// FieldError creates a validation error for one request field.
func FieldError(field, message string) *APIError {
	return &APIError{
		Code:    CodeValidationError,
		Message: field + ": " + message,
		Details: map[string]any{"field": field},
	}
}

// FromValidation converts a models.ValidationError anywhere in err's chain
// into a field error. Other errors yield nil.
func FromValidation(err error) *APIError {
	var verr *models.ValidationError
	if !errors.As(err, &verr) {
		return nil
	}
	return FieldError(verr.Field, verr.Message)
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an APIError as a JSON response.
func WriteError(w http.ResponseWriter, err *APIError) {
	WriteJSON(w, err.HTTPStatusCode(), err)
}
