package server

import (
	"context"
	"net/http"
	"time"

	"github.com/desertthunder/sortify/internal/sessions"
	"github.com/desertthunder/sortify/internal/shared"
)

// fakeSessions implements [Sessions] with fixed results and call counting.
type fakeSessions struct {
	record       *sessions.Record
	resolveErr   error
	issueErr     error
	resolveCalls int
	issued       []*sessions.Record
	destroyed    []string
}

func (f *fakeSessions) Resolve(_ context.Context, _ *http.Request) (*sessions.Record, error) {
	f.resolveCalls++
	if f.resolveErr != nil {
		return nil, f.resolveErr
	}
	return f.record, nil
}

func (f *fakeSessions) Issue(_ context.Context, rec *sessions.Record) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	f.issued = append(f.issued, rec)
	return "issued-session-id", nil
}

func (f *fakeSessions) Destroy(_ context.Context, id string) error {
	f.destroyed = append(f.destroyed, id)
	return nil
}

// memStore is an in-memory [sessions.Store] for handler tests built on a real
// [sessions.Manager].
type memStore struct {
	records  map[string]*sessions.Record
	states   map[string]bool
	getCalls int
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*sessions.Record{}, states: map[string]bool{}}
}

func (s *memStore) Get(_ context.Context, id string) (*sessions.Record, error) {
	s.getCalls++
	rec, ok := s.records[id]
	if !ok {
		return nil, shared.ErrSessionNotFound
	}
	copied := *rec
	return &copied, nil
}

func (s *memStore) Put(_ context.Context, id string, rec *sessions.Record, _ time.Duration) error {
	copied := *rec
	s.records[id] = &copied
	return nil
}

func (s *memStore) Delete(_ context.Context, id string) error {
	delete(s.records, id)
	return nil
}

func (s *memStore) PutState(_ context.Context, state string, _ time.Duration) error {
	s.states[state] = true
	return nil
}

func (s *memStore) TakeState(_ context.Context, state string) (bool, error) {
	ok := s.states[state]
	delete(s.states, state)
	return ok, nil
}

// stubRefresher returns a fixed record and counts refresh calls.
type stubRefresher struct {
	rec   *sessions.Record
	err   error
	calls int
}

func (r *stubRefresher) Refresh(_ context.Context, _ string) (*sessions.Record, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	copied := *r.rec
	return &copied, nil
}

// fakeAuth implements [AuthService] without touching the network.
type fakeAuth struct {
	record        *sessions.Record
	exchangeErr   error
	exchangeCalls int
	lastCode      string
}

func (f *fakeAuth) AuthURL(state string) string {
	return "https://accounts.example.com/authorize?state=" + state
}

func (f *fakeAuth) Exchange(_ context.Context, code string) (*sessions.Record, error) {
	f.exchangeCalls++
	f.lastCode = code
	if f.exchangeErr != nil {
		return nil, f.exchangeErr
	}
	copied := *f.record
	return &copied, nil
}

func validRecord() *sessions.Record {
	return &sessions.Record{
		AccessToken:  "acc_tok",
		RefreshToken: "ref_tok",
		ExpiresAt:    time.Now().Add(time.Hour).UnixMilli(),
	}
}
