package handlers

import (
	"net/http"
)

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "ridership-dashboard",
		"description": "Interactive NYC subway ridership dashboard over MTA hourly turnstile data",
		"version":     "1.0.0",
		"endpoints": map[string]string{
			"GET /":                      "API information",
			"GET /health":                "Health check",
			"GET /dashboard":             "Rendered dashboard page (?borough=)",
			"GET /api/boroughs":          "Boroughs in the dataset",
			"GET /api/metrics":           "Headline metrics (?borough=)",
			"GET /api/ridership/hourly":  "Hourly ridership series (?borough=)",
			"GET /api/ridership/payment": "Daily ridership by payment method (?borough=)",
			"GET /api/ridership/heatmap": "Average ridership by weekday and hour (?borough=)",
			"GET /api/stations/summary":  "Per-station totals (?borough=)",
			"GET /api/stations/top":      "Top stations (?borough=&limit=&by=ridership|transfers)",
			"GET /api/fares":             "Ridership by payment method and fare class (?borough=)",
			"GET /api/alerts":            "Active MTA service alerts",
			"GET /api/sample":            "Raw dataset sample (?limit=)",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error":   "Route not found",
		"message": "Check the root endpoint (/) for available routes",
	})
}
