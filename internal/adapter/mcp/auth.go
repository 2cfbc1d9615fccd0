package mcp

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
)

// AuthMiddleware guards the MCP endpoint with a shared key, accepted as
// "Authorization: Bearer <key>" or "X-API-Key: <key>". An empty apiKey
// leaves the endpoint open.
func AuthMiddleware(apiKey string, next http.Handler) http.Handler {
	if apiKey == "" {
		return next
	}
	want := []byte(apiKey)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := presentedKey(r)
		switch {
		case got == "":
			rejectMCP(w, r, http.StatusUnauthorized, "missing credentials")
		case subtle.ConstantTimeCompare([]byte(got), want) != 1:
			rejectMCP(w, r, http.StatusForbidden, "invalid credentials")
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func presentedKey(r *http.Request) string {
	if k := r.Header.Get("X-API-Key"); k != "" {
		return k
	}
	auth := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(auth, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

func rejectMCP(w http.ResponseWriter, r *http.Request, status int, msg string) {
	slog.WarnContext(r.Context(), "mcp request rejected", "status", status, "reason", msg)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
