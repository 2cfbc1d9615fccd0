package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Strob0t/repodoc/internal/domain"
)

// maxBodyBytes bounds request bodies; a repository URL request is tiny.
const maxBodyBytes = 64 << 10

// ---------------------------------------------------------------------------
// Request helpers
// ---------------------------------------------------------------------------

// readJSON decodes a JSON request body with a size limit.
func readJSON[T any](w http.ResponseWriter, r *http.Request, bodyLimit int64) (T, bool) {
	var v T
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
		} else {
			writeError(w, http.StatusBadRequest, "invalid request body")
		}
		return v, false
	}
	return v, true
}

// ---------------------------------------------------------------------------
// Response helpers
// ---------------------------------------------------------------------------

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("failed to write JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeDomainError maps pipeline errors to sanitized responses. The raw
// error is logged, never returned.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var mc *domain.MissingCredentialsError
	status, msg := http.StatusInternalServerError, "internal server error"
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, msg = http.StatusBadRequest, "Invalid GitHub repository URL"
	case errors.Is(err, domain.ErrEmptyResult):
		status, msg = http.StatusBadRequest, "Documentation generation failed"
	case errors.Is(err, domain.ErrNotFound):
		status, msg = http.StatusNotFound, "repository not found"
	case errors.As(err, &mc):
		status, msg = http.StatusInternalServerError, "documentation service is not configured"
	case errors.Is(err, domain.ErrUpstreamAuth):
		status, msg = http.StatusBadGateway, "upstream authentication failed"
	case errors.Is(err, domain.ErrMalformedModelOutput):
		status, msg = http.StatusBadGateway, "model returned malformed output"
	case errors.Is(err, domain.ErrSchemaValidation):
		status, msg = http.StatusBadGateway, "model output did not match the documentation schema"
	case errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusGatewayTimeout, "request timed out"
	case errors.Is(err, domain.ErrUpstreamRequest):
		status, msg = http.StatusBadGateway, "upstream service request failed"
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "status", status, "error", err)
	} else {
		slog.WarnContext(r.Context(), "request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeError(w, status, msg)
}
