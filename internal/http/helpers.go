package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"finhealth/internal/core"
	"finhealth/internal/ingest"
	"finhealth/internal/storage"
)

// errorResponse is the uniform error payload.
type errorResponse struct {
	Error   string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string, details ...string) {
	writeJSON(w, status, errorResponse{Error: msg, Details: details})
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, core.ErrNoData):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrUnknownIndustry):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ingest.ErrUnsupportedFormat), errors.Is(err, ingest.ErrEmptyFile):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeDomainError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	if errors.Is(err, core.ErrUnknownIndustry) {
		writeError(w, status, err.Error(), "known industries: "+strings.Join(core.Industries(), ", "))
		return
	}
	if status == http.StatusInternalServerError {
		// Do not leak internals on unexpected failures.
		writeError(w, status, "internal server error")
		return
	}
	writeError(w, status, err.Error())
}

// clientIPOf extracts the client IP, preferring proxy headers.
func clientIPOf(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
