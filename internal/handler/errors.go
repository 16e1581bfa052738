package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lavaexpress/dispatch/backend/internal/domain"
)

// ErrorResponse is the JSON error envelope for every non-2xx response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a machine-readable code and a human-readable message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON encodes v as the response body with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeError maps a service-layer error onto the HTTP status taxonomy:
// ErrNotFound → 404, ErrValidation → 422, ErrConflict → 409, anything else →
// 500 with the detail kept out of the body.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Error: ErrorDetail{Code: "not_found", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: ErrorDetail{Code: "validation_error", Message: unwrapMessage(err)},
		})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, ErrorResponse{
			Error: ErrorDetail{Code: "conflict", Message: "route not generated, retry"},
		})
	default:
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: ErrorDetail{Code: "internal_error", Message: "internal server error"},
		})
	}
}

// badRequest writes a 422 for requests rejected before reaching the service
// layer (missing body, malformed date, bad UUID).
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
		Error: ErrorDetail{Code: "validation_error", Message: message},
	})
}

// unwrapMessage strips the layer-qualified prefixes from a wrapped sentinel
// error, leaving the human-readable tail.
// e.g. "service.Generator.GenerateRoute: validation error: unknown zone" → "unknown zone".
func unwrapMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []string{"validation error: ", "not found: "} {
		if i := strings.LastIndex(msg, sentinel); i >= 0 {
			return msg[i+len(sentinel):]
		}
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
