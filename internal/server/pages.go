package server

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sortify/internal/shared"
	"github.com/desertthunder/sortify/internal/web"
)

// Pinger reports store connectivity for health checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageHandler serves the embedded landing page and the health endpoint. Any
// path not matched elsewhere falls through to this handler and gets a 404.
type PageHandler struct {
	store  Pinger
	logger *log.Logger
}

// NewPageHandler creates a PageHandler with the given store for health reporting.
func NewPageHandler(store Pinger, logger *log.Logger) *PageHandler {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PageHandler{store: store, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *PageHandler) Routes() []string {
	return []string{"/", "/health"}
}

func (h *PageHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(web.Index())
	case "/health":
		h.health(w, r)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (h *PageHandler) health(w http.ResponseWriter, r *http.Request) {
	status := map[string]string{"status": "ok", "store": "ok"}

	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			h.logger.Warn("store health check failed", "err", err)
			status["store"] = "unavailable"
			writeJSON(w, http.StatusServiceUnavailable, status)
			return
		}
	}

	writeJSON(w, http.StatusOK, status)
}
