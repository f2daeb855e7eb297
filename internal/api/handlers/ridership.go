package handlers

import (
	"net/http"
	"strconv"

	"github.com/nycdash/ridership-dashboard/internal/analytics"
	"github.com/nycdash/ridership-dashboard/internal/config"
)

const maxSampleRows = 1000

// RidershipHandler serves the JSON aggregate endpoints backed by the
// analytics service.
type RidershipHandler struct {
	analytics *analytics.Service
	settings  config.Settings
}

func NewRidershipHandler(svc *analytics.Service, settings config.Settings) *RidershipHandler {
	return &RidershipHandler{analytics: svc, settings: settings}
}

// GetBoroughs lists the boroughs present in the dataset.
func (h *RidershipHandler) GetBoroughs(w http.ResponseWriter, r *http.Request) {
	boroughs := h.analytics.Boroughs()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"boroughs": boroughs,
		"count":    len(boroughs),
	})
}

// GetMetrics returns the headline numbers for the scope.
func (h *RidershipHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	borough := boroughParam(r)
	metrics, err := h.analytics.Metrics(borough)
	if err != nil {
		writeAggregateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"borough": scopeName(borough),
		"metrics": metrics,
	})
}

// GetHourly returns the hourly ridership series.
func (h *RidershipHandler) GetHourly(w http.ResponseWriter, r *http.Request) {
	borough := boroughParam(r)
	points, err := h.analytics.HourlySeries(borough)
	if err != nil {
		writeAggregateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"borough": scopeName(borough),
		"points":  points,
		"count":   len(points),
	})
}

// GetPaymentTrends returns daily ridership per payment method.
func (h *RidershipHandler) GetPaymentTrends(w http.ResponseWriter, r *http.Request) {
	borough := boroughParam(r)
	trends, err := h.analytics.PaymentTrends(borough)
	if err != nil {
		writeAggregateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"borough": scopeName(borough),
		"trends":  trends,
		"count":   len(trends),
	})
}

// GetHeatmap returns average ridership per (weekday, hour) bucket.
func (h *RidershipHandler) GetHeatmap(w http.ResponseWriter, r *http.Request) {
	borough := boroughParam(r)
	cells, err := h.analytics.WeeklyHeatmap(borough)
	if err != nil {
		writeAggregateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"borough": scopeName(borough),
		"cells":   cells,
		"count":   len(cells),
	})
}

// GetFares returns ridership per payment method and fare class.
func (h *RidershipHandler) GetFares(w http.ResponseWriter, r *http.Request) {
	borough := boroughParam(r)
	fares, err := h.analytics.FareBreakdown(borough)
	if err != nil {
		writeAggregateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"borough": scopeName(borough),
		"fares":   fares,
		"count":   len(fares),
	})
}

// GetSample returns the first rows of the raw dataset.
func (h *RidershipHandler) GetSample(w http.ResponseWriter, r *http.Request) {
	limit := h.settings.SampleRows
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > maxSampleRows {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error": "limit must be an integer between 1 and 1000",
			})
			return
		}
		limit = parsed
	}

	records := h.analytics.Sample(limit)
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"records": records,
		"count":   len(records),
	})
}

func scopeName(borough string) string {
	if borough == "" {
		return analytics.Overall
	}
	return borough
}
