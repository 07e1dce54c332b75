package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/sessions"
	"github.com/desertthunder/sortify/internal/shared"
)

// AuthService is the slice of the OAuth client the auth flow needs.
//
// Implemented by [services.SpotifyAuth].
type AuthService interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*sessions.Record, error)
}

// StateStore tracks outstanding OAuth state parameters.
//
// Implemented by [sessions.Store].
type StateStore interface {
	PutState(ctx context.Context, state string, ttl time.Duration) error
	TakeState(ctx context.Context, state string) (bool, error)
}

// AuthHandler drives the OAuth authorization code flow: the redirect to the
// authorization endpoint, the browser callback, and logout.
//
// Callback failures render an HTML error page rather than JSON since the path
// is browser-navigated. Upstream failure detail is logged, never shown.
type AuthHandler struct {
	auth     AuthService
	sessions Sessions
	states   StateStore
	logger   *log.Logger
}

// NewAuthHandler creates an AuthHandler over the given collaborators.
func NewAuthHandler(auth AuthService, s Sessions, states StateStore, logger *log.Logger) *AuthHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &AuthHandler{auth: auth, sessions: s, states: states, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{"/auth", "/callback", "/logout"}
}

// ServeHTTP dispatches the auth flow endpoints.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/auth":
		h.begin(w, r)
	case "/callback":
		h.callback(w, r)
	case "/logout":
		h.logout(w, r)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

// begin registers a random state parameter and redirects the browser to the
// authorization endpoint.
func (h *AuthHandler) begin(w http.ResponseWriter, r *http.Request) {
	state := shared.GenerateSessionID()

	if err := h.states.PutState(r.Context(), state, sessions.StateTTL); err != nil {
		h.logger.Error("failed to store oauth state", "err", err)
		renderErrorPage(w, http.StatusInternalServerError, "Something went wrong", "Please try again.")
		return
	}

	http.Redirect(w, r, h.auth.AuthURL(state), http.StatusFound)
}

// callback completes the flow: validates state, exchanges the code, persists
// the credential record, and issues the session cookie.
func (h *AuthHandler) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		h.logger.Warn("authorization denied", "error", errParam)
		renderErrorPage(w, http.StatusBadRequest, "Authorization Denied",
			"Spotify did not grant access. You can close this window and try again.")
		return
	}

	code := q.Get("code")
	if code == "" {
		renderErrorPage(w, http.StatusBadRequest, "Missing Code",
			"The callback did not include an authorization code.")
		return
	}

	ok, err := h.states.TakeState(r.Context(), q.Get("state"))
	if err != nil {
		h.logger.Error("failed to check oauth state", "err", err)
		renderErrorPage(w, http.StatusInternalServerError, "Something went wrong", "Please try again.")
		return
	}
	if !ok {
		h.logger.Warn("oauth state mismatch")
		renderErrorPage(w, http.StatusBadRequest, "Invalid State",
			"The sign-in request could not be verified. Please start over.")
		return
	}

	rec, err := h.auth.Exchange(r.Context(), code)
	if err != nil {
		h.logger.Error("token exchange failed", "err", err)
		renderErrorPage(w, http.StatusBadGateway, "Sign-in Failed",
			"Spotify rejected the authorization. Please try again.")
		return
	}

	id, err := h.sessions.Issue(r.Context(), rec)
	if err != nil {
		h.logger.Error("failed to persist session", "err", err)
		renderErrorPage(w, http.StatusInternalServerError, "Something went wrong", "Please try again.")
		return
	}

	setSessionCookie(w, id)
	http.Redirect(w, r, "/", http.StatusFound)
}

// logout clears the cookie and removes the stored record when one exists.
//
// Always succeeds; logging out without a session still clears the cookie.
func (h *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessions.CookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.Destroy(r.Context(), cookie.Value); err != nil {
			h.logger.Warn("failed to delete session record", "err", err)
		}
	}

	clearSessionCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func setSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessions.CookieName,
		Value:    id,
		Path:     "/",
		MaxAge:   int(sessions.SessionTTL.Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessions.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// renderErrorPage writes a browser-facing error page for callback failures.
func renderErrorPage(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(status)
	fmt.Fprintf(w, `
<!DOCTYPE html>
<html>
<head>
    <title>%s</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #cc3344; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>
`, title, title, detail)
}
