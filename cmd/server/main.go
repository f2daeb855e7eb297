// Package main is the entry point for the ridership dashboard server.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/nycdash/ridership-dashboard/internal/analytics"
	"github.com/nycdash/ridership-dashboard/internal/api"
	"github.com/nycdash/ridership-dashboard/internal/config"
	"github.com/nycdash/ridership-dashboard/internal/dataset"
	"github.com/nycdash/ridership-dashboard/internal/transit"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration error: ", err)
	}

	settings, err := config.LoadSettings(cfg.DashboardConfig)
	if err != nil {
		log.Fatal("Dashboard settings error: ", err)
	}

	data, err := dataset.Load(cfg.DataFile)
	if err != nil {
		log.Fatal("Ridership data error: ", err)
	}
	slog.Info("ridership data loaded",
		"file", cfg.DataFile,
		"records", data.Len(),
		"skipped", data.Skipped(),
		"boroughs", len(data.Boroughs()),
	)

	analyticsSvc := analytics.New(data, cfg.CacheTTL)
	defer analyticsSvc.Close()

	alertSvc := transit.NewAlertService(cfg.AlertsFeedURL, cfg.HTTPTimeout, cfg.CacheTTL)
	defer alertSvc.Close()

	router := api.NewRouter(cfg, settings, analyticsSvc, alertSvc, data.Len())

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("🚇 ridership dashboard starting on port %s\n", cfg.Port)
	fmt.Printf("📍 Environment: %s\n", cfg.Env)
	fmt.Printf("🔗 http://localhost:%s/dashboard\n", cfg.Port)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}
