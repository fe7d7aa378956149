// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/imagevault/service/internal/apperr"
)

// ErrorBody is the body of every failed request.
type ErrorBody struct {
	Error string `json:"error" example:"Group ID is required"`
}

// Result is the body of mutations that only report success.
type Result struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message,omitempty" example:"File deleted successfully"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with payload.
func OK(w http.ResponseWriter, payload interface{}) {
	JSON(w, http.StatusOK, payload)
}

// Created writes a 201 response with payload.
func Created(w http.ResponseWriter, payload interface{}) {
	JSON(w, http.StatusCreated, payload)
}

// Success writes a 200 {success, message} response.
func Success(w http.ResponseWriter, message string) {
	OK(w, Result{Success: true, Message: message})
}

// Error writes an error response with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorBody{Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 response.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// InternalError writes a 500 response with a generic message.
func InternalError(w http.ResponseWriter, message string) {
	if message == "" {
		message = "Internal Server Error"
	}
	Error(w, http.StatusInternalServerError, message)
}

// Status maps an error to its HTTP status code.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Err writes the response for a service-layer error. Client errors carry
// their own message; everything else gets fallback and the detail goes to
// the server log only.
func Err(w http.ResponseWriter, err error, fallback string) {
	status := Status(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Msg(fallback)
		InternalError(w, fallback)
		return
	}
	Error(w, status, apperr.Message(err, http.StatusText(status)))
}
