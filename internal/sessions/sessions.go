package sessions

import (
	"context"
	"time"
)

const (
	// SessionTTL is the absolute ceiling on a stored session, independent of
	// token refresh activity.
	SessionTTL = 24 * time.Hour

	// StateTTL bounds how long an authorization request can stay pending.
	StateTTL = 10 * time.Minute

	// RefreshMargin is the safety window before access token expiry inside
	// which a refresh is forced.
	RefreshMargin = 60 * time.Second
)

// Record is the credential record persisted for one session: the Spotify
// access/refresh token pair and the absolute access token expiry.
//
// A Record is never persisted without RefreshToken; a record missing it cannot
// be refreshed and is treated as a dead session.
type Record struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresAt    int64  `json:"expires_at"` // epoch milliseconds
}

// NeedsRefresh reports whether the access token is expired or inside the
// refresh margin at the given time.
func (r *Record) NeedsRefresh(now time.Time) bool {
	return now.UnixMilli() >= r.ExpiresAt-RefreshMargin.Milliseconds()
}

// Store is a durable mapping from opaque session identifiers to credential
// records with per-record expiry, plus short-lived OAuth state tracking.
type Store interface {
	// Get loads the record for a session identifier.
	// Returns [shared.ErrSessionNotFound] when the key is absent or expired.
	Get(ctx context.Context, id string) (*Record, error)

	// Put stores the record under the identifier with the given TTL,
	// replacing any existing record.
	Put(ctx context.Context, id string, rec *Record, ttl time.Duration) error

	// Delete removes the record. Deleting an absent key is not an error.
	Delete(ctx context.Context, id string) error

	// PutState registers an outstanding OAuth state parameter.
	PutState(ctx context.Context, state string, ttl time.Duration) error

	// TakeState consumes a state parameter, reporting whether it was
	// outstanding. A state can be taken at most once.
	TakeState(ctx context.Context, state string) (bool, error)
}
