package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/services"
	"github.com/desertthunder/sortify/internal/shared"
)

// InsightHandler relays listening summaries from the external insight
// service. This is the only endpoint besides /history that parses its JSON
// body, and it does so against a narrow typed shape.
type InsightHandler struct {
	sessions Sessions
	client   *services.InsightClient
	logger   *log.Logger
}

// NewInsightHandler creates an InsightHandler over the given client.
func NewInsightHandler(s Sessions, client *services.InsightClient, logger *log.Logger) *InsightHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &InsightHandler{sessions: s, client: client, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *InsightHandler) Routes() []string {
	return []string{"/insight"}
}

func (h *InsightHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if _, err := h.sessions.Resolve(r.Context(), r); err != nil {
		writeAuthError(w, err)
		return
	}

	if h.client == nil || !h.client.Enabled() {
		writeError(w, http.StatusNotImplemented, "insight service not configured")
		return
	}

	var req services.InsightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	insight, err := h.client.Generate(r.Context(), &req)
	if err != nil {
		h.logger.Error("insight generation failed", "err", err)
		writeError(w, http.StatusBadGateway, "insight generation failed")
		return
	}

	writeJSON(w, http.StatusOK, insight)
}
