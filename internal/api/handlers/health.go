package handlers

import (
	"net/http"
	"time"
)

type HealthHandler struct {
	startTime time.Time
	records   int
}

func NewHealthHandler(records int) *HealthHandler {
	return &HealthHandler{startTime: time.Now(), records: records}
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "OK",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   "1.0.0",
		"uptime":    time.Since(h.startTime).String(),
		"records":   h.records,
	})
}
