package api

import (
	"net/http"

	"github.com/nycdash/ridership-dashboard/internal/analytics"
	"github.com/nycdash/ridership-dashboard/internal/api/handlers"
	"github.com/nycdash/ridership-dashboard/internal/config"
)

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(
	cfg *config.Config,
	settings config.Settings,
	analyticsSvc *analytics.Service,
	alerts handlers.AlertProvider,
	records int,
) http.Handler {
	mux := http.NewServeMux()

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(records)
	rootHandler := handlers.NewRootHandler()
	dashboardHandler := handlers.NewDashboardHandler(analyticsSvc, settings)
	ridershipHandler := handlers.NewRidershipHandler(analyticsSvc, settings)
	stationsHandler := handlers.NewStationsHandler(analyticsSvc, settings)
	alertsHandler := handlers.NewAlertsHandler(alerts)

	// Core routes
	mux.HandleFunc("GET /", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Rendered dashboard
	mux.HandleFunc("GET /dashboard", dashboardHandler.Render)

	// Aggregate API
	mux.HandleFunc("GET /api/boroughs", ridershipHandler.GetBoroughs)
	mux.HandleFunc("GET /api/metrics", ridershipHandler.GetMetrics)
	mux.HandleFunc("GET /api/ridership/hourly", ridershipHandler.GetHourly)
	mux.HandleFunc("GET /api/ridership/payment", ridershipHandler.GetPaymentTrends)
	mux.HandleFunc("GET /api/ridership/heatmap", ridershipHandler.GetHeatmap)
	mux.HandleFunc("GET /api/stations/summary", stationsHandler.GetSummary)
	mux.HandleFunc("GET /api/stations/top", stationsHandler.GetTop)
	mux.HandleFunc("GET /api/fares", ridershipHandler.GetFares)
	mux.HandleFunc("GET /api/sample", ridershipHandler.GetSample)

	// Live service alerts
	mux.HandleFunc("GET /api/alerts", alertsHandler.GetAlerts)

	// Apply middleware stack
	handler := Chain(mux,
		Recovery,
		Logging,
		CORS,
		Timeout(cfg.HTTPTimeout),
	)

	return handler
}
