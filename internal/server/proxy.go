package server

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/shared"
)

// ProxyHandler forwards authenticated requests to the Spotify Web API and
// relays the upstream response verbatim. It is a transparent tunnel: the
// payload is opaque bytes, never parsed or rewritten, and upstream non-2xx
// statuses are passed through as the contract requires.
//
// The special path /api/token short-circuits the tunnel and returns the
// session's current access token for the browser playback SDK.
type ProxyHandler struct {
	sessions   Sessions
	baseURL    string
	httpClient *http.Client
	logger     *log.Logger
}

// NewProxyHandler creates a ProxyHandler forwarding to the given upstream base URL.
func NewProxyHandler(s Sessions, baseURL string, client *http.Client, logger *log.Logger) *ProxyHandler {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	return &ProxyHandler{
		sessions:   s,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: client,
		logger:     logger,
	}
}

// Routes returns the HTTP routes this handler serves.
func (h *ProxyHandler) Routes() []string {
	return []string{"/api/", "/api/token"}
}

// ServeHTTP resolves the session, refreshing the access token when needed,
// then either returns the token or forwards the call upstream.
func (h *ProxyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec, err := h.sessions.Resolve(r.Context(), r)
	if err != nil {
		writeAuthError(w, err)
		return
	}

	if r.URL.Path == "/api/token" {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"access_token": rec.AccessToken})
		return
	}

	h.forward(w, r, rec.AccessToken)
}

// forward builds the outbound request from scratch so that no inbound header,
// cookies in particular, ever reaches the upstream API.
func (h *ProxyHandler) forward(w http.ResponseWriter, r *http.Request, accessToken string) {
	target := h.baseURL + strings.TrimPrefix(r.URL.Path, "/api")
	if query := upstreamQuery(r); query != "" {
		target += "?" + query
	}

	var body io.Reader
	switch r.Method {
	case http.MethodPost, http.MethodPut, http.MethodDelete:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}
		if len(data) > 0 {
			body = bytes.NewReader(data)
		}
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, body)
	if err != nil {
		h.logger.Error("failed to build upstream request", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Error("upstream request failed", "path", r.URL.Path, "err", err)
		writeError(w, http.StatusBadGateway, "upstream request failed")
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		h.logger.Error("failed to read upstream response", "err", err)
		writeError(w, http.StatusBadGateway, "upstream request failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.StatusCode)
	_, _ = w.Write(data)
}

// upstreamQuery returns the query string to forward. The original query is
// relayed verbatim except for one convenience: top-items calls default
// time_range=short_term when the caller supplied none. A caller-supplied
// value is never overridden.
func upstreamQuery(r *http.Request) string {
	if !strings.HasPrefix(r.URL.Path, "/api/me/top/") {
		return r.URL.RawQuery
	}

	values, err := url.ParseQuery(r.URL.RawQuery)
	if err != nil || values.Has("time_range") {
		return r.URL.RawQuery
	}

	values.Set("time_range", "short_term")
	return values.Encode()
}
