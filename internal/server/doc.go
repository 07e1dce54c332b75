// Package server provides HTTP routing, middleware, and the handlers for the
// track sorting service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Request Classification
//
// Every inbound request falls into one of: static page, auth-begin, auth
// callback, logout, token fetch, proxied API call, auxiliary (insight,
// history), or not-found. The router holds no persisted state of its own.
//
//	GET  /           → landing page
//	GET  /health     → liveness + store ping
//	GET  /auth       → redirect to Spotify authorization
//	GET  /callback   → OAuth redirect target
//	GET  /logout     → clear cookie, redirect home
//	GET  /api/token  → current access token for the playback SDK
//	*    /api/*      → transparent proxy to the Spotify Web API
//	POST /insight    → AI insight passthrough
//	POST /history    → record a sorting decision
//	GET  /history    → list recent decisions
//
// # Failure Contract
//
// Session and refresh failures on JSON routes return 401 with an error field;
// callback failures render an HTML page; panics become a generic 500 JSON
// body. Upstream non-2xx responses on proxied calls are relayed verbatim.
// Secrets never appear in client-visible messages.
package server
