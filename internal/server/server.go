// package server contains the request router, middleware & handlers for the track sorting service
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/desertthunder/sortify/internal/sessions"
	"github.com/desertthunder/sortify/internal/shared"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the sorting service.
// Implementations handle related endpoint groups (auth flow, proxy, auxiliary).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Sessions is the slice of the session manager the handlers need: resolve a
// request to a credential record, issue a new session, destroy one.
//
// Implemented by [sessions.Manager].
type Sessions interface {
	Resolve(ctx context.Context, r *http.Request) (*sessions.Record, error)
	Issue(ctx context.Context, rec *sessions.Record) (string, error)
	Destroy(ctx context.Context, id string) error
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error body. The message must never contain tokens,
// client secrets, or upstream response detail.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAuthError maps session resolution failures onto the 401 contract.
// Anything outside the auth taxonomy is reported as a generic internal error.
func writeAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, "not authenticated")
	case errors.Is(err, shared.ErrSessionExpired):
		writeError(w, http.StatusUnauthorized, "session expired")
	case errors.Is(err, shared.ErrRefreshFailed):
		writeError(w, http.StatusUnauthorized, "token refresh failed")
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
