// Package web holds the embedded single-page UI served at the root path.
//
// The page drives playback and sorting entirely through the /api proxy and
// the auxiliary endpoints; all state it needs server-side lives in the
// session cookie. The backend treats the page as an opaque asset.
package web

import _ "embed"

//go:embed index.html
var indexHTML []byte

// Index returns the landing page markup.
func Index() []byte {
	return indexHTML
}
