package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/models"
	"github.com/desertthunder/sortify/internal/sessions"
	"github.com/desertthunder/sortify/internal/shared"
)

// HistoryStore persists sorting decisions.
//
// Implemented by [repositories.HistoryRepository].
type HistoryStore interface {
	Create(event *models.HistoryEvent) error
	ListBySession(sessionKey string, limit int) ([]*models.HistoryEvent, error)
}

// HistoryHandler records and lists the sorting decisions made in a session.
// POST records an event; GET returns the most recent ones.
type HistoryHandler struct {
	sessions Sessions
	repo     HistoryStore
	logger   *log.Logger
}

// NewHistoryHandler creates a HistoryHandler over the given repository.
func NewHistoryHandler(s Sessions, repo HistoryStore, logger *log.Logger) *HistoryHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &HistoryHandler{sessions: s, repo: repo, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *HistoryHandler) Routes() []string {
	return []string{"/history"}
}

func (h *HistoryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Resolve(r.Context(), r); err != nil {
		writeAuthError(w, err)
		return
	}

	// Resolve succeeded, so the cookie is present.
	cookie, _ := r.Cookie(sessions.CookieName)

	switch r.Method {
	case http.MethodPost:
		h.record(w, r, cookie.Value)
	case http.MethodGet:
		h.list(w, r, cookie.Value)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *HistoryHandler) record(w http.ResponseWriter, r *http.Request, sessionKey string) {
	var event models.HistoryEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event.SessionKey = sessionKey
	if err := h.repo.Create(&event); err != nil {
		h.logger.Error("failed to record history event", "err", err)
		writeError(w, http.StatusBadRequest, "could not record event")
		return
	}

	writeJSON(w, http.StatusCreated, &event)
}

func (h *HistoryHandler) list(w http.ResponseWriter, r *http.Request, sessionKey string) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := h.repo.ListBySession(sessionKey, limit)
	if err != nil {
		h.logger.Error("failed to list history", "err", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if events == nil {
		events = []*models.HistoryEvent{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"events": events})
}
