// Spotify OAuth client for the authorization code and refresh grants.
//
// Endpoint contracts per https://developer.spotify.com/documentation/web-api/concepts/authorization
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/sortify/internal/sessions"
	"github.com/desertthunder/sortify/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"

	// SpotifyBaseURL is the upstream REST API base the proxy forwards to.
	SpotifyBaseURL = "https://api.spotify.com/v1"
)

// spotifyScopes is the minimal scope list covering the capabilities the proxy's
// downstream calls exercise: profile read, library read/modify, playlist
// read/modify, top-items read, and playback via the streaming SDK.
var spotifyScopes = []string{
	"user-read-private",
	"user-read-email",
	"user-library-read",
	"user-library-modify",
	"playlist-read-private",
	"playlist-modify-public",
	"playlist-modify-private",
	"user-top-read",
	"streaming",
	"user-read-playback-state",
	"user-modify-playback-state",
}

// SpotifyAuth performs OAuth token exchange and refresh against the Spotify
// accounts service. The token endpoint takes form-encoded grants with HTTP
// Basic client authentication, which [oauth2.Config] handles.
type SpotifyAuth struct {
	config *oauth2.Config
}

// NewSpotifyAuth creates a SpotifyAuth from the registered client credentials.
func NewSpotifyAuth(cfg shared.SpotifyConfig) (*SpotifyAuth, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("%w: client_id and client_secret are required", shared.ErrMissingCredentials)
	}

	redirectURI := cfg.RedirectURI
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	return &SpotifyAuth{
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       spotifyScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:  spotifyAuthURL,
				TokenURL: spotifyTokenURL,
			},
		},
	}, nil
}

// AuthURL returns the authorization redirect URL carrying the given state parameter.
func (s *SpotifyAuth) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// Exchange trades an authorization code for a credential record. The record's
// expiry is computed locally from the response lifetime, never trusted as
// service time.
//
// A token response without a refresh token produces an error rather than a
// record, since such a session could never be refreshed.
func (s *SpotifyAuth) Exchange(ctx context.Context, code string) (*sessions.Record, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrExchangeFailed, err)
	}

	if token.RefreshToken == "" {
		return nil, shared.ErrNoRefreshToken
	}

	return &sessions.Record{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.UnixMilli(),
	}, nil
}

// Refresh exchanges a refresh token for a new credential record via the
// refresh grant. When the response omits a replacement refresh token the
// input token is carried forward; the refresh credential is never dropped.
//
// Failures are surfaced immediately with no retry; retry policy belongs to
// the caller.
func (s *SpotifyAuth) Refresh(ctx context.Context, refreshToken string) (*sessions.Record, error) {
	src := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrRefreshFailed, err)
	}

	rec := &sessions.Record{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry.UnixMilli(),
	}
	if rec.RefreshToken == "" {
		rec.RefreshToken = refreshToken
	}

	return rec, nil
}

var _ sessions.Refresher = (*SpotifyAuth)(nil)
