package handlers

import (
	"net/http"
	"strconv"

	"github.com/nycdash/ridership-dashboard/internal/analytics"
	"github.com/nycdash/ridership-dashboard/internal/config"
	"github.com/nycdash/ridership-dashboard/internal/models"
)

const maxTopLimit = 25

// StationsHandler serves station-level aggregates.
type StationsHandler struct {
	analytics *analytics.Service
	settings  config.Settings
}

func NewStationsHandler(svc *analytics.Service, settings config.Settings) *StationsHandler {
	return &StationsHandler{analytics: svc, settings: settings}
}

// GetSummary returns per-station totals for the scope.
func (h *StationsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	borough := boroughParam(r)
	summaries, err := h.analytics.StationSummaries(borough)
	if err != nil {
		writeAggregateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"borough":  scopeName(borough),
		"stations": summaries,
		"count":    len(summaries),
	})
}

// GetTop returns the top stations by ridership or transfers.
func (h *StationsHandler) GetTop(w http.ResponseWriter, r *http.Request) {
	borough := boroughParam(r)

	limit := h.settings.TopN
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxTopLimit {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "limit must be an integer between 1 and 25",
			})
			return
		}
		limit = parsed
	}

	by := r.URL.Query().Get("by")
	if by == "" {
		by = "ridership"
	}

	var (
		summaries []models.StationSummary
		err       error
	)
	switch by {
	case "ridership":
		summaries, err = h.analytics.TopStations(borough, limit)
	case "transfers":
		summaries, err = h.analytics.TopTransferHubs(borough, limit)
	default:
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "by must be one of: ridership, transfers",
		})
		return
	}
	if err != nil {
		writeAggregateError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"borough":  scopeName(borough),
		"by":       by,
		"stations": summaries,
		"count":    len(summaries),
	})
}
