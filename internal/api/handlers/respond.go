// Package handlers contains HTTP request handlers
package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nycdash/ridership-dashboard/internal/analytics"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding JSON response", "error", err)
	}
}

// writeAggregateError maps analytics errors onto API responses: an unknown
// borough is a client error, anything else is a server error.
func writeAggregateError(w http.ResponseWriter, err error) {
	if errors.Is(err, analytics.ErrUnknownBorough) {
		writeJSON(w, http.StatusNotFound, map[string]any{
			"error":   "Borough not found",
			"message": err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]any{
		"error":   "Aggregation failed",
		"message": err.Error(),
	})
}

// boroughParam reads the optional ?borough= query parameter.
func boroughParam(r *http.Request) string {
	return r.URL.Query().Get("borough")
}
