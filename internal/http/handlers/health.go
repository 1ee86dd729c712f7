package handlers

import (
	"net/http"
	"time"

	"github.com/medrehab/clinic-concierge/internal/locations"
)

// HealthHandler reports service status and directory freshness.
type HealthHandler struct {
	snapshot  *locations.Snapshot
	startedAt time.Time
}

func NewHealthHandler(snapshot *locations.Snapshot) *HealthHandler {
	return &HealthHandler{snapshot: snapshot, startedAt: time.Now()}
}

// Status handles GET / and GET /health.
func (h *HealthHandler) Status(w http.ResponseWriter, r *http.Request) {
	payload := map[string]any{
		"status":         "ok",
		"service":        "clinic-concierge",
		"uptime_seconds": int(time.Since(h.startedAt).Seconds()),
	}
	if h.snapshot != nil {
		payload["locations_loaded"] = h.snapshot.Len()
		if loadedAt := h.snapshot.LoadedAt(); !loadedAt.IsZero() {
			payload["directory_refreshed_at"] = loadedAt.UTC().Format(time.RFC3339)
		}
	}
	writeJSON(w, http.StatusOK, payload)
}
