package sessions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/shared"
)

// CookieName is the session cookie carrying the opaque identifier. The cookie
// value is never the credential record itself.
const CookieName = "sortify_session"

// Refresher exchanges a refresh token for a fresh credential record. On
// success the returned record carries the new access token and expiry; the
// refresh token equals the upstream response's refresh token if one was
// issued, otherwise the input token.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*Record, error)
}

// Manager resolves inbound requests to credential records, refreshing access
// tokens near expiry before handing them out.
//
// The manager holds no state of its own beyond its collaborators; two
// concurrent requests on the same session near expiry may both refresh, and
// the last write to the store wins. Either refreshed token is valid.
type Manager struct {
	store     Store
	refresher Refresher
	logger    *log.Logger
	now       func() time.Time
}

// NewManager creates a Manager over the given store and refresher.
func NewManager(store Store, refresher Refresher, logger *log.Logger) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Manager{
		store:     store,
		refresher: refresher,
		logger:    logger,
		now:       time.Now,
	}
}

// Resolve extracts the session identifier from the request cookie and loads a
// usable credential record, refreshing first when the access token is inside
// the refresh margin.
//
// Returns [shared.ErrNotAuthenticated] when no cookie is present,
// [shared.ErrSessionExpired] when the store has no record for it, and
// [shared.ErrRefreshFailed] when a required refresh does not succeed. A stale
// token is never returned.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*Record, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return nil, shared.ErrNotAuthenticated
	}
	return m.ResolveID(ctx, cookie.Value)
}

// ResolveID loads the credential record for a session identifier, refreshing
// when required and re-persisting the updated record under the same key with
// a renewed TTL.
func (m *Manager) ResolveID(ctx context.Context, id string) (*Record, error) {
	rec, err := m.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			return nil, shared.ErrSessionExpired
		}
		return nil, err
	}

	if rec.RefreshToken == "" {
		// Dead session; cannot be refreshed so force re-authentication.
		return nil, shared.ErrSessionExpired
	}

	if !rec.NeedsRefresh(m.now()) {
		return rec, nil
	}

	fresh, err := m.refresher.Refresh(ctx, rec.RefreshToken)
	if err != nil {
		m.logger.Error("token refresh failed", "err", err)
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	if fresh.RefreshToken == "" {
		fresh.RefreshToken = rec.RefreshToken
	}

	if err := m.store.Put(ctx, id, fresh, SessionTTL); err != nil {
		return nil, err
	}

	return fresh, nil
}

// Issue generates a new session identifier, persists the record under it with
// the session TTL, and returns the identifier for cookie issuance.
func (m *Manager) Issue(ctx context.Context, rec *Record) (string, error) {
	if rec.RefreshToken == "" {
		return "", shared.ErrNoRefreshToken
	}

	id := shared.GenerateSessionID()
	if err := m.store.Put(ctx, id, rec, SessionTTL); err != nil {
		return "", err
	}

	return id, nil
}

// Destroy removes the record for a session identifier. Destroying an unknown
// session is not an error.
func (m *Manager) Destroy(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}
