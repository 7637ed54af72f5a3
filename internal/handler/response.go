package handler

// Response helpers shared by all handlers: one function to write JSON,
// one to translate domain errors into HTTP status codes.
//
// ERROR FORMAT:
// Every error response has the shape {"message": "..."}; internal
// errors additionally echo the underlying error text as "error".
// Clients only ever need to read "message".

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/skarim/autotrack/internal/apperror"
)

// ErrorResponse is the standard error body returned by all API endpoints.
type ErrorResponse struct {
	Message string `json:"message"`
	// Error carries the underlying error text on 500s. The front-end
	// reads it; exposing internals this way is an acknowledged leak.
	Error string `json:"error,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be set before the body is written; once
// Encode starts writing, header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — all we can do is log.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status code and sends it.
//
// The service layer returns apperror sentinels (ErrValidation,
// ErrNotFound, ...); this is the single place they become status codes.
// Anything outside the taxonomy is a 500 whose body carries both the
// fallbackMessage (stable, human-readable) and the raw error text.
func writeError(w http.ResponseWriter, err error, fallbackMessage string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		var status int
		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
		default:
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{
				Message: appErr.Message,
				Error:   err.Error(),
			})
			return
		}

		writeJSON(w, status, ErrorResponse{Message: appErr.Message})
		return
	}

	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Message: fallbackMessage,
		Error:   err.Error(),
	})
}
