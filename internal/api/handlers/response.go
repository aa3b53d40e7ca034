package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5/middleware"

	apierrors "github.com/aegis-aio/shellder/internal/api/errors"
)

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	apierrors.WriteJSON(w, status, data)
}

// WriteError writes a structured error tagged with the request ID.
func WriteError(w http.ResponseWriter, r *http.Request, err *apierrors.APIError) {
	apierrors.WriteError(w, err.WithRequestID(middleware.GetReqID(r.Context())))
}

// WriteBadRequest writes a 400 Bad Request response for one field.
func WriteBadRequest(w http.ResponseWriter, r *http.Request, field, message string) {
	WriteError(w, r, apierrors.FieldError(field, message))
}

// WriteNotFound writes a 404 Not Found response.
func WriteNotFound(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, apierrors.NewNotFoundError(message))
}

// WriteRuntimeError writes a 502 response for a failed runtime call.
func WriteRuntimeError(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, apierrors.NewRuntimeError(message))
}

// WriteInspectError writes a 400 response for an invalid service name and a
// 502 response for anything else.
func WriteInspectError(w http.ResponseWriter, r *http.Request, err error) {
	if apiErr := apierrors.FromValidation(err); apiErr != nil {
		WriteError(w, r, apiErr)
		return
	}
	WriteRuntimeError(w, r, "Failed to read container log")
}

// intParam parses an optional positive integer query or path value.
func intParam(value string, fallback int) (int, bool) {
	if value == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, false
	}
	return n, true
}
