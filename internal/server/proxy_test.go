package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/sortify/internal/sessions"
	"github.com/desertthunder/sortify/internal/shared"
)

// upstreamCapture records what the stub upstream API received.
type upstreamCapture struct {
	calls   int
	method  string
	path    string
	query   string
	body    string
	headers http.Header
}

func newUpstream(t *testing.T, status int, responseBody string) (*httptest.Server, *upstreamCapture) {
	t.Helper()
	cap := &upstreamCapture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cap.calls++
		cap.method = r.Method
		cap.path = r.URL.Path
		cap.query = r.URL.RawQuery
		cap.headers = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		cap.body = string(data)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		io.WriteString(w, responseBody)
	}))
	t.Cleanup(srv.Close)
	return srv, cap
}

func proxyRequest(method, target string, body string) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.AddCookie(&http.Cookie{Name: sessions.CookieName, Value: "sid"})
	return req
}

func TestProxyHandler(t *testing.T) {
	t.Run("Missing Session", func(t *testing.T) {
		upstream, cap := newUpstream(t, http.StatusOK, `{}`)
		fs := &fakeSessions{resolveErr: shared.ErrNotAuthenticated}
		h := NewProxyHandler(fs, upstream.URL, nil, nil)

		req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("expected JSON error body: %v", err)
		}
		if body["error"] == "" {
			t.Error("expected an error field in the body")
		}
		if cap.calls != 0 {
			t.Errorf("expected zero upstream calls, got %d", cap.calls)
		}
	})

	t.Run("Transparency", func(t *testing.T) {
		upstream, _ := newUpstream(t, http.StatusTooManyRequests, `{"error":"rate limited"}`)
		fs := &fakeSessions{record: validRecord()}
		h := NewProxyHandler(fs, upstream.URL, nil, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, proxyRequest(http.MethodGet, "/api/me/tracks", ""))

		if w.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429 passed through, got %d", w.Code)
		}
		if w.Body.String() != `{"error":"rate limited"}` {
			t.Errorf("expected body relayed verbatim, got %s", w.Body.String())
		}
		if ct := w.Header().Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %s", ct)
		}
	})

	t.Run("No Cookie Forwarded Upstream", func(t *testing.T) {
		upstream, cap := newUpstream(t, http.StatusOK, `{}`)
		fs := &fakeSessions{record: validRecord()}
		h := NewProxyHandler(fs, upstream.URL, nil, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, proxyRequest(http.MethodGet, "/api/me", ""))

		if cap.headers.Get("Cookie") != "" {
			t.Error("cookie header must never be forwarded upstream")
		}
		if got := cap.headers.Get("Authorization"); got != "Bearer acc_tok" {
			t.Errorf("expected bearer auth header, got %q", got)
		}
		if got := cap.headers.Get("Content-Type"); got != "application/json" {
			t.Errorf("expected JSON content type upstream, got %q", got)
		}
	})

	t.Run("Method Query And Body Forwarded", func(t *testing.T) {
		upstream, cap := newUpstream(t, http.StatusCreated, `{"snapshot_id":"abc"}`)
		fs := &fakeSessions{record: validRecord()}
		h := NewProxyHandler(fs, upstream.URL, nil, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, proxyRequest(http.MethodPost, "/api/playlists/p1/tracks?position=0", `{"uris":["spotify:track:t1"]}`))

		if cap.method != http.MethodPost {
			t.Errorf("expected POST forwarded, got %s", cap.method)
		}
		if cap.path != "/playlists/p1/tracks" {
			t.Errorf("expected /api prefix stripped, got %s", cap.path)
		}
		if cap.query != "position=0" {
			t.Errorf("expected query relayed verbatim, got %s", cap.query)
		}
		if cap.body != `{"uris":["spotify:track:t1"]}` {
			t.Errorf("expected body forwarded, got %s", cap.body)
		}
		if w.Code != http.StatusCreated {
			t.Errorf("expected upstream status relayed, got %d", w.Code)
		}
	})

	t.Run("Empty Body Not Forwarded", func(t *testing.T) {
		upstream, cap := newUpstream(t, http.StatusOK, `{}`)
		fs := &fakeSessions{record: validRecord()}
		h := NewProxyHandler(fs, upstream.URL, nil, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, proxyRequest(http.MethodDelete, "/api/me/tracks?ids=t1", ""))

		if cap.body != "" {
			t.Errorf("expected no body forwarded, got %q", cap.body)
		}
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("Token Endpoint", func(t *testing.T) {
		upstream, cap := newUpstream(t, http.StatusOK, `{}`)
		fs := &fakeSessions{record: validRecord()}
		h := NewProxyHandler(fs, upstream.URL, nil, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, proxyRequest(http.MethodGet, "/api/token", ""))

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}

		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("expected JSON body: %v", err)
		}
		if body["access_token"] != "acc_tok" {
			t.Errorf("expected access token in body, got %+v", body)
		}
		if cap.calls != 0 {
			t.Errorf("token endpoint must not touch the upstream API, got %d calls", cap.calls)
		}
	})

	t.Run("Top Items Default Time Range", func(t *testing.T) {
		t.Run("Defaults When Absent", func(t *testing.T) {
			upstream, cap := newUpstream(t, http.StatusOK, `{}`)
			fs := &fakeSessions{record: validRecord()}
			h := NewProxyHandler(fs, upstream.URL, nil, nil)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, proxyRequest(http.MethodGet, "/api/me/top/artists", ""))

			if !strings.Contains(cap.query, "time_range=short_term") {
				t.Errorf("expected default time_range, got %q", cap.query)
			}
		})

		t.Run("Never Overrides Caller Value", func(t *testing.T) {
			upstream, cap := newUpstream(t, http.StatusOK, `{}`)
			fs := &fakeSessions{record: validRecord()}
			h := NewProxyHandler(fs, upstream.URL, nil, nil)

			w := httptest.NewRecorder()
			h.ServeHTTP(w, proxyRequest(http.MethodGet, "/api/me/top/tracks?time_range=long_term", ""))

			if cap.query != "time_range=long_term" {
				t.Errorf("expected caller value preserved, got %q", cap.query)
			}
		})
	})

	t.Run("Near Expiry Refresh Scenario", func(t *testing.T) {
		upstream, cap := newUpstream(t, http.StatusOK, `{"id":"me"}`)

		store := newMemStore()
		store.records["sid"] = &sessions.Record{
			AccessToken:  "old_tok",
			RefreshToken: "ref",
			ExpiresAt:    time.Now().Add(30 * time.Second).UnixMilli(),
		}
		refresher := &stubRefresher{rec: &sessions.Record{
			AccessToken:  "fresh_tok",
			RefreshToken: "ref",
			ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
		}}
		manager := sessions.NewManager(store, refresher, nil)
		h := NewProxyHandler(manager, upstream.URL, nil, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, proxyRequest(http.MethodGet, "/api/me", ""))

		if refresher.calls != 1 {
			t.Fatalf("expected exactly one refresh, got %d", refresher.calls)
		}
		if got := cap.headers.Get("Authorization"); got != "Bearer fresh_tok" {
			t.Errorf("expected refreshed token upstream, got %q", got)
		}
		if w.Code != http.StatusOK {
			t.Errorf("expected 200, got %d", w.Code)
		}
	})

	t.Run("Refresh Failure Is Unauthenticated", func(t *testing.T) {
		upstream, cap := newUpstream(t, http.StatusOK, `{}`)

		store := newMemStore()
		store.records["sid"] = &sessions.Record{
			AccessToken:  "old_tok",
			RefreshToken: "ref",
			ExpiresAt:    time.Now().Add(10 * time.Second).UnixMilli(),
		}
		refresher := &stubRefresher{err: shared.ErrRefreshFailed}
		manager := sessions.NewManager(store, refresher, nil)
		h := NewProxyHandler(manager, upstream.URL, nil, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, proxyRequest(http.MethodGet, "/api/me", ""))

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 on refresh failure, got %d", w.Code)
		}
		if cap.calls != 0 {
			t.Error("a stale token must never be used upstream")
		}
	})

	t.Run("Upstream Unreachable", func(t *testing.T) {
		fs := &fakeSessions{record: validRecord()}
		h := NewProxyHandler(fs, "http://127.0.0.1:1", nil, nil)

		w := httptest.NewRecorder()
		h.ServeHTTP(w, proxyRequest(http.MethodGet, "/api/me", ""))

		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}
