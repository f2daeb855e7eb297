package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-echarts/go-echarts/v2/components"

	"github.com/nycdash/ridership-dashboard/internal/analytics"
	"github.com/nycdash/ridership-dashboard/internal/charts"
	"github.com/nycdash/ridership-dashboard/internal/config"
)

// DashboardHandler renders the full chart page. Each request re-runs the
// aggregation glue against the in-memory dataset, so a borough filter change
// is just a reload with a different query parameter.
type DashboardHandler struct {
	analytics *analytics.Service
	settings  config.Settings
}

func NewDashboardHandler(svc *analytics.Service, settings config.Settings) *DashboardHandler {
	return &DashboardHandler{analytics: svc, settings: settings}
}

func (h *DashboardHandler) Render(w http.ResponseWriter, r *http.Request) {
	borough := boroughParam(r)

	page, err := h.buildPage(borough)
	if err != nil {
		if errors.Is(err, analytics.ErrUnknownBorough) {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":    "Unknown borough",
				"message":  err.Error(),
				"boroughs": h.analytics.Boroughs(),
			})
			return
		}
		slog.Error("building dashboard", "borough", borough, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": "Failed to build dashboard",
		})
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(w); err != nil {
		slog.Error("rendering dashboard", "error", err)
	}
}

func (h *DashboardHandler) buildPage(borough string) (*components.Page, error) {
	scopeLabel := "in NYC"
	if borough != "" && borough != analytics.Overall {
		scopeLabel = "in " + borough
	}
	theme := h.settings.Theme

	hourly, err := h.analytics.HourlySeries(borough)
	if err != nil {
		return nil, err
	}
	summaries, err := h.analytics.StationSummaries(borough)
	if err != nil {
		return nil, err
	}
	topStations, err := h.analytics.TopStations(borough, h.settings.TopN)
	if err != nil {
		return nil, err
	}
	transferHubs, err := h.analytics.TopTransferHubs(borough, h.settings.TopN)
	if err != nil {
		return nil, err
	}
	spread, err := h.analytics.BoroughSpread(borough)
	if err != nil {
		return nil, err
	}
	trends, err := h.analytics.PaymentTrends(borough)
	if err != nil {
		return nil, err
	}
	heatmap, err := h.analytics.WeeklyHeatmap(borough)
	if err != nil {
		return nil, err
	}
	fares, err := h.analytics.FareBreakdown(borough)
	if err != nil {
		return nil, err
	}

	donut, err := h.shareDonut(borough, scopeLabel, theme)
	if err != nil {
		return nil, err
	}

	page := charts.DashboardPage(h.settings.PageTitle,
		charts.HourlyLine(hourly, scopeLabel, theme),
		donut,
		charts.SpreadBoxPlot(spread, scopeLabel, theme),
		charts.TopStationsBar(topStations, scopeLabel, theme),
		charts.StationMap(summaries, scopeLabel, theme),
		charts.PaymentArea(trends, scopeLabel, theme),
		charts.WeeklyHeatmap(heatmap, analytics.WeekdayOrder(), scopeLabel, theme),
		charts.FareTreemap(fares, scopeLabel, theme),
		charts.TransferHubsBar(transferHubs, scopeLabel, theme),
		charts.ProfileScatter(summaries, theme),
		charts.RidershipSunburst(summaries, theme),
	)
	return page, nil
}

// shareDonut shows borough share overall, or the top station share when a
// single borough is selected.
func (h *DashboardHandler) shareDonut(borough, scopeLabel, theme string) (components.Charter, error) {
	if borough == "" || borough == analytics.Overall {
		share, err := h.analytics.BoroughShare()
		if err != nil {
			return nil, err
		}
		names := make([]string, len(share))
		values := make([]float64, len(share))
		for i, s := range share {
			names[i] = s.Borough
			values[i] = s.Ridership
		}
		return charts.ShareDonut("Ridership Share by Borough", names, values, theme), nil
	}

	top, err := h.analytics.TopStations(borough, h.settings.ShareTopN)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(top))
	values := make([]float64, len(top))
	for i, s := range top {
		names[i] = s.Station
		values[i] = s.TotalRidership
	}
	title := "Top Station Share " + scopeLabel
	return charts.ShareDonut(title, names, values, theme), nil
}
