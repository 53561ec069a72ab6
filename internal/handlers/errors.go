package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/crucial707/milstock/internal/apperr"
	"github.com/lib/pq"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// JSONError sends a JSON error response with a single "error" field.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// JSONValidationError sends a JSON error response with "error" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	out := map[string]interface{}{"error": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	json.NewEncoder(w).Encode(out)
}

// WriteError maps the apperr taxonomy onto HTTP statuses. Unknown errors
// become a logged 500 with a generic body.
func WriteError(w http.ResponseWriter, err error) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		JSONValidationError(w, "validation failed", verr.Fields, http.StatusBadRequest)
	case errors.Is(err, apperr.ErrAuthenticationRequired):
		JSONError(w, "authentication required", http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrForbidden):
		JSONError(w, "forbidden: insufficient role or scope", http.StatusForbidden)
	case errors.Is(err, apperr.ErrAmbiguousSelection):
		JSONError(w, "base or equipment type not found/ambiguous", http.StatusBadRequest)
	case errors.Is(err, apperr.ErrNotFound):
		JSONError(w, "not found", http.StatusNotFound)
	default:
		slog.Error("request failed", "error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

// writeCreateError maps Postgres insert failures: broken references become 404,
// uniqueness and check-constraint violations become 400.
func writeCreateError(w http.ResponseWriter, err error) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23503": // foreign_key_violation
			JSONError(w, "referenced base, equipment type, or user not found", http.StatusNotFound)
			return
		case "23505": // unique_violation
			JSONError(w, "already exists", http.StatusBadRequest)
			return
		case "23514": // check_violation
			JSONError(w, "constraint violation", http.StatusBadRequest)
			return
		}
	}
	slog.Error("create failed", "error", err)
	JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
}
