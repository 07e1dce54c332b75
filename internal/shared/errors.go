package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Session and token errors
	ErrNotAuthenticated = fmt.Errorf("not authenticated")
	ErrSessionExpired   = fmt.Errorf("session expired")
	ErrRefreshFailed    = fmt.Errorf("token refresh failed")
	ErrNoRefreshToken   = fmt.Errorf("no refresh token available")

	// Authorization callback errors
	ErrAuthDenied     = fmt.Errorf("authorization denied")
	ErrMissingCode    = fmt.Errorf("missing authorization code")
	ErrStateMismatch  = fmt.Errorf("state parameter mismatch")
	ErrExchangeFailed = fmt.Errorf("token exchange failed")

	// Store and API errors
	ErrStoreUnavailable = fmt.Errorf("token store unavailable")
	ErrSessionNotFound  = fmt.Errorf("session not found")
	ErrAPIRequest       = fmt.Errorf("API request failed")
)
