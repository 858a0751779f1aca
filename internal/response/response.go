// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloudrelay/uploader/internal/apperr"
)

// ErrorBody is the JSON shape of every error response. Details is only set
// for server-side failures and carries the underlying diagnostic message.
type ErrorBody struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Message is a plain acknowledgement body.
type Message struct {
	Message string `json:"message"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with payload as the body.
func OK(w http.ResponseWriter, payload interface{}) {
	JSON(w, http.StatusOK, payload)
}

// Created writes a 201 response with payload as the body.
func Created(w http.ResponseWriter, payload interface{}) {
	JSON(w, http.StatusCreated, payload)
}

// Error writes an error response with the given status, message and details.
func Error(w http.ResponseWriter, status int, message, details string) {
	JSON(w, status, ErrorBody{Error: message, Details: details})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message, "")
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message, details string) {
	Error(w, http.StatusNotFound, message, details)
}

// ServiceUnavailable writes a 503 response.
func ServiceUnavailable(w http.ResponseWriter, message, details string) {
	Error(w, http.StatusServiceUnavailable, message, details)
}

// InternalError writes a 500 response.
func InternalError(w http.ResponseWriter, message, details string) {
	Error(w, http.StatusInternalServerError, message, details)
}

// Fail maps err to a response by its apperr kind:
// client input 400, not found 404, configuration 503, provider 500.
func Fail(w http.ResponseWriter, err error) {
	var e *apperr.Error
	if !errors.As(err, &e) {
		InternalError(w, "internal server error", err.Error())
		return
	}

	switch e.Kind {
	case apperr.KindClientInput:
		BadRequest(w, e.Message)
	case apperr.KindNotFound:
		NotFound(w, e.Message, e.Details())
	case apperr.KindConfiguration:
		ServiceUnavailable(w, e.Message, e.Details())
	default:
		InternalError(w, e.Message, e.Details())
	}
}
