// Package transport provides the HTTP-agnostic pieces of the request
// pipeline: failure translation into the API's error envelopes, and
// handler middleware for recovery, request IDs, and logging.
package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/coursewise/coursewise/pkg/api"
	"github.com/coursewise/coursewise/pkg/auth"
	"github.com/coursewise/coursewise/pkg/storage"
)

// WriteJSON serializes v with the appropriate headers and status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteMessage writes the singular failure envelope {"message": ...}.
func WriteMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, api.ErrorResponse{Message: message})
}

// WriteValidationErrors writes the batched failure envelope
// {"errors": [...]}. The whole batch goes out in one response.
func WriteValidationErrors(w http.ResponseWriter, messages []string) {
	WriteJSON(w, http.StatusBadRequest, api.ValidationErrorResponse{Errors: messages})
}

// Translate maps a classified failure to a status code and response body.
// It returns ok=false for unclassified failures, which must propagate to
// the generic handler instead of being masked with a misleading 4xx.
func Translate(err error) (status int, body any, ok bool) {
	var ve *storage.ValidationError
	if errors.As(err, &ve) {
		if !ve.Classified() {
			return 0, nil, false
		}
		return http.StatusBadRequest, api.ValidationErrorResponse{Errors: ve.Messages()}, true
	}

	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound, api.ErrorResponse{Message: "Not Found"}, true
	case errors.Is(err, auth.ErrForbidden):
		return http.StatusForbidden, api.ErrorResponse{Message: "Access Denied"}, true
	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized, api.ErrorResponse{Message: "Access Denied"}, true
	}

	return 0, nil, false
}

// FailureHandler is the top-level handler for unclassified failures. It
// optionally logs the internal error and responds with the generic
// envelope, leaking no internal detail to the client.
type FailureHandler struct {
	Logger    *slog.Logger
	LogErrors bool
}

// Handle translates err when possible and falls back to a generic 500.
func (f *FailureHandler) Handle(w http.ResponseWriter, r *http.Request, err error) {
	if status, body, ok := Translate(err); ok {
		WriteJSON(w, status, body)
		return
	}

	if f.LogErrors {
		logger := f.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("unhandled failure",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
			"error", err,
		)
	}

	WriteJSON(w, http.StatusInternalServerError, api.ErrorResponse{
		Message: "Internal Server Error",
		Error:   &struct{}{},
	})
}
