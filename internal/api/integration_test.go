package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/nycdash/ridership-dashboard/internal/analytics"
	"github.com/nycdash/ridership-dashboard/internal/api"
	"github.com/nycdash/ridership-dashboard/internal/config"
	"github.com/nycdash/ridership-dashboard/internal/dataset"
	"github.com/nycdash/ridership-dashboard/internal/models"
)

// mockAlerts satisfies handlers.AlertProvider without touching the network.
type mockAlerts struct {
	alerts []models.ServiceAlert
	err    error
}

func (m *mockAlerts) ActiveAlerts(ctx context.Context) ([]models.ServiceAlert, error) {
	return m.alerts, m.err
}

func fixturePath(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot locate test file")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "dataset", "testdata", "ridership_sample.csv")
}

func newTestServer(t *testing.T, alerts *mockAlerts) *httptest.Server {
	t.Helper()

	data, err := dataset.Load(fixturePath(t))
	if err != nil {
		t.Fatalf("loading fixture dataset: %v", err)
	}

	svc := analytics.New(data, time.Minute)
	t.Cleanup(svc.Close)

	cfg := &config.Config{HTTPTimeout: 10 * time.Second}
	router := api.NewRouter(cfg, config.DefaultSettings(), svc, alerts, data.Len())

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func get(t *testing.T, server *httptest.Server, path string) *http.Response {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return body
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Errorf("status = %d, want %d", resp.StatusCode, want)
	}
}

func assertSuccess(t *testing.T, body map[string]any) {
	t.Helper()
	if success, ok := body["success"].(bool); !ok || !success {
		t.Errorf("success = %v, want true", body["success"])
	}
}

func TestHealthEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/health")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)

	if body["status"] != "OK" {
		t.Errorf("status field = %v, want OK", body["status"])
	}
	if records, ok := body["records"].(float64); !ok || records != 24 {
		t.Errorf("records = %v, want 24", body["records"])
	}
}

func TestRootEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)

	if body["name"] != "ridership-dashboard" {
		t.Errorf("name = %v", body["name"])
	}
	endpoints, ok := body["endpoints"].(map[string]any)
	if !ok || len(endpoints) == 0 {
		t.Error("endpoints index missing")
	}
}

func TestBoroughsEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/boroughs")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	boroughs, ok := body["boroughs"].([]any)
	if !ok || len(boroughs) != 3 {
		t.Fatalf("boroughs = %v, want 3 entries", body["boroughs"])
	}
	if boroughs[0] != "Brooklyn" || boroughs[2] != "Queens" {
		t.Errorf("boroughs not sorted: %v", boroughs)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/metrics")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	if body["borough"] != "Overall" {
		t.Errorf("borough = %v, want Overall", body["borough"])
	}
	metrics, ok := body["metrics"].(map[string]any)
	if !ok {
		t.Fatal("metrics object missing")
	}
	if total, _ := metrics["total_ridership"].(float64); total != 19630 {
		t.Errorf("total_ridership = %v, want 19630", metrics["total_ridership"])
	}
	if station, _ := metrics["busiest_station"].(string); !strings.HasPrefix(station, "Times Sq") {
		t.Errorf("busiest_station = %v", metrics["busiest_station"])
	}
}

func TestMetricsScopedByBorough(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/metrics?borough=Queens")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	if body["borough"] != "Queens" {
		t.Errorf("borough = %v, want Queens", body["borough"])
	}
	metrics := body["metrics"].(map[string]any)
	if total, _ := metrics["total_ridership"].(float64); total != 2520 {
		t.Errorf("total_ridership = %v, want 2520", metrics["total_ridership"])
	}
}

func TestUnknownBoroughReturns404(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	paths := []string{
		"/api/metrics?borough=Gotham",
		"/api/ridership/hourly?borough=Gotham",
		"/api/stations/summary?borough=Gotham",
		"/api/fares?borough=Gotham",
	}
	for _, path := range paths {
		resp := get(t, server, path)
		assertStatus(t, resp, http.StatusNotFound)
		body := decodeBody(t, resp)
		if body["error"] != "Borough not found" {
			t.Errorf("%s: error = %v", path, body["error"])
		}
	}
}

func TestHourlyEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/ridership/hourly")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	if count, _ := body["count"].(float64); count != 5 {
		t.Errorf("count = %v, want 5", body["count"])
	}
}

func TestPaymentEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/ridership/payment")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	if count, _ := body["count"].(float64); count != 4 {
		t.Errorf("count = %v, want 4", body["count"])
	}
}

func TestHeatmapEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/ridership/heatmap")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	if count, _ := body["count"].(float64); count != 5 {
		t.Errorf("count = %v, want 5", body["count"])
	}
}

func TestStationSummaryEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/stations/summary?borough=Brooklyn")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	stations, ok := body["stations"].([]any)
	if !ok || len(stations) != 2 {
		t.Fatalf("stations = %v, want 2 entries", body["stations"])
	}
	first := stations[0].(map[string]any)
	if ridership, _ := first["total_ridership"].(float64); ridership != 2900 {
		t.Errorf("top Brooklyn station ridership = %v, want 2900", first["total_ridership"])
	}
}

func TestStationsTopEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/stations/top?limit=2&by=transfers")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	if body["by"] != "transfers" {
		t.Errorf("by = %v, want transfers", body["by"])
	}
	stations := body["stations"].([]any)
	if len(stations) != 2 {
		t.Fatalf("len(stations) = %d, want 2", len(stations))
	}
	first := stations[0].(map[string]any)
	if transfers, _ := first["total_transfers"].(float64); transfers != 570 {
		t.Errorf("top transfers = %v, want 570", first["total_transfers"])
	}
}

func TestStationsTopValidation(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	tests := []struct {
		name string
		path string
	}{
		{"limit not a number", "/api/stations/top?limit=abc"},
		{"limit too large", "/api/stations/top?limit=100"},
		{"limit zero", "/api/stations/top?limit=0"},
		{"unknown sort key", "/api/stations/top?by=popularity"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resp := get(t, server, tc.path)
			assertStatus(t, resp, http.StatusBadRequest)
			resp.Body.Close()
		})
	}
}

func TestFaresEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/fares")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	if count, _ := body["count"].(float64); count != 3 {
		t.Errorf("count = %v, want 3", body["count"])
	}
}

func TestSampleEndpoint(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/api/sample?limit=10")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	if count, _ := body["count"].(float64); count != 10 {
		t.Errorf("count = %v, want 10", body["count"])
	}

	resp = get(t, server, "/api/sample?limit=2000")
	assertStatus(t, resp, http.StatusBadRequest)
	resp.Body.Close()
}

func TestAlertsEndpoint(t *testing.T) {
	alerts := &mockAlerts{alerts: []models.ServiceAlert{
		{ID: "a1", Routes: []string{"N", "Q"}, Header: "Delays on the N"},
	}}
	server := newTestServer(t, alerts)

	resp := get(t, server, "/api/alerts")
	assertStatus(t, resp, http.StatusOK)
	body := decodeBody(t, resp)
	assertSuccess(t, body)

	if count, _ := body["count"].(float64); count != 1 {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestAlertsEndpointFeedDown(t *testing.T) {
	server := newTestServer(t, &mockAlerts{err: errors.New("feed timeout")})

	resp := get(t, server, "/api/alerts")
	assertStatus(t, resp, http.StatusServiceUnavailable)
	body := decodeBody(t, resp)
	if body["error"] != "Alerts feed unavailable" {
		t.Errorf("error = %v", body["error"])
	}
}

func TestDashboardRendersHTML(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/dashboard")
	assertStatus(t, resp, http.StatusOK)
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q, want text/html", ct)
	}

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading dashboard body: %v", err)
	}
	page := string(html)
	if !strings.Contains(page, "echarts") {
		t.Error("dashboard page does not reference echarts")
	}
	if !strings.Contains(page, "NYC Subway Ridership Dashboard") {
		t.Error("dashboard page missing title")
	}
}

func TestDashboardBoroughFilter(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/dashboard?borough=Brooklyn")
	assertStatus(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = get(t, server, "/dashboard?borough=Gotham")
	assertStatus(t, resp, http.StatusBadRequest)
	body := decodeBody(t, resp)
	if body["error"] != "Unknown borough" {
		t.Errorf("error = %v", body["error"])
	}
	if boroughs, ok := body["boroughs"].([]any); !ok || len(boroughs) != 3 {
		t.Errorf("boroughs hint = %v", body["boroughs"])
	}
}

func TestCORSHeaders(t *testing.T) {
	server := newTestServer(t, &mockAlerts{})

	resp := get(t, server, "/health")
	defer resp.Body.Close()

	if origin := resp.Header.Get("Access-Control-Allow-Origin"); origin != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", origin)
	}
}
