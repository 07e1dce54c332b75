// Package services contains clients for the external collaborators: the
// Spotify accounts service (token exchange and refresh grants) and the
// insight generation service.
//
// [SpotifyAuth] is the only component that touches the OAuth token endpoint.
// It returns [sessions.Record] values with locally computed expiries and
// implements [sessions.Refresher] for the session manager.
//
// The proxied Web API itself has no typed client here; the proxy treats its
// payloads as opaque bytes.
package services
