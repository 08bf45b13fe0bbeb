// Package respond writes JSON responses and maps apperr kinds to HTTP
// statuses. All handlers go through this package so every failure reaches
// the client as a structured body identifying the failure kind.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/contesthub/contesthub/internal/app/system/apperr"
	"go.uber.org/zap"
)

// errorBody is the JSON structure for every failure response.
type errorBody struct {
	Error   string `json:"error"`   // taxonomy kind, e.g. "conflict"
	Message string `json:"message"` // human-readable detail
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error maps err's kind to a status and writes the structured failure body.
// Store and upstream failures are logged with their cause but surfaced to
// the caller as a generic message; everything else passes its message
// through.
func Error(w http.ResponseWriter, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := statusFor(kind)

	msg := err.Error()
	switch kind {
	case apperr.Store, apperr.Upstream, apperr.Unknown:
		if log != nil {
			log.Error("request failed", zap.String("kind", kind.String()), zap.Error(err))
		}
		msg = "internal error"
	}

	JSON(w, status, errorBody{Error: kind.String(), Message: msg})
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.Upstream:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// Decode parses the request body into dst, returning a validation error on
// malformed JSON. Unknown fields are rejected so typos surface instead of
// being silently dropped.
func Decode(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.Validation, "malformed request body", err)
	}
	return nil
}
