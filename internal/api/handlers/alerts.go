package handlers

import (
	"net/http"
)

// AlertsHandler serves the live service alerts panel data.
type AlertsHandler struct {
	alerts AlertProvider
}

func NewAlertsHandler(alerts AlertProvider) *AlertsHandler {
	return &AlertsHandler{alerts: alerts}
}

// GetAlerts returns active MTA service alerts. Feed failures degrade this
// endpoint only; the dashboard data path never depends on it.
func (h *AlertsHandler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.alerts.ActiveAlerts(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":   "Alerts feed unavailable",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"alerts":  alerts,
		"count":   len(alerts),
	})
}
