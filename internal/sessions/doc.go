// Package sessions manages the credential lifecycle for browser sessions.
//
// A session links an opaque cookie identifier to one stored [Record] holding
// the Spotify access/refresh token pair and its expiry. Records are created on
// a successful code exchange, read on every proxied call, replaced in place on
// refresh, and removed either explicitly on logout or implicitly when the
// store's TTL lapses.
//
// # Store
//
// [Store] abstracts the expiring key-value service holding records.
// [RedisStore] is the production implementation; tests substitute fakes or a
// miniredis-backed instance.
//
// # Manager
//
// [Manager] is the resolver used by HTTP handlers: cookie → identifier →
// record, with a forced refresh when the access token is within
// [RefreshMargin] of expiry. Refresh failures surface as errors rather than
// stale tokens.
package sessions
