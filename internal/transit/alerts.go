// Package transit fetches live MTA service data for the dashboard's
// alerts panel.
package transit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"

	"github.com/nycdash/ridership-dashboard/internal/cache"
	"github.com/nycdash/ridership-dashboard/internal/models"
)

// maxAlerts bounds the list shown on the dashboard panel.
const maxAlerts = 50

// AlertService fetches and caches MTA service alerts from the GTFS-RT
// all-alerts feed.
type AlertService struct {
	feedURL string
	client  *http.Client
	cache   *cache.Cache[[]models.ServiceAlert]
}

// NewAlertService creates an alert service for the given feed URL.
func NewAlertService(feedURL string, timeout, cacheTTL time.Duration) *AlertService {
	return &AlertService{
		feedURL: feedURL,
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New[[]models.ServiceAlert](cacheTTL),
	}
}

// Close stops the alert cache.
func (s *AlertService) Close() {
	s.cache.Close()
}

// ActiveAlerts returns the currently active service alerts, newest fetch
// cached for the service TTL.
func (s *AlertService) ActiveAlerts(ctx context.Context) ([]models.ServiceAlert, error) {
	if cached, ok := s.cache.Get("all"); ok {
		return cached, nil
	}

	feed, err := s.fetchFeed(ctx)
	if err != nil {
		return nil, err
	}

	alerts := collectActive(feed, time.Now())
	s.cache.Set("all", alerts)
	return alerts, nil
}

func (s *AlertService) fetchFeed(ctx context.Context) (*gtfs.FeedMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building alerts request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching alerts feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("alerts feed returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading alerts response: %w", err)
	}

	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feed); err != nil {
		return nil, fmt.Errorf("parsing alerts protobuf: %w", err)
	}
	return feed, nil
}

// collectActive keeps alerts whose active period covers now, up to maxAlerts.
func collectActive(feed *gtfs.FeedMessage, now time.Time) []models.ServiceAlert {
	var alerts []models.ServiceAlert
	nowUnix := now.Unix()

	for _, entity := range feed.GetEntity() {
		alert := entity.GetAlert()
		if alert == nil {
			continue
		}
		if !activeAt(alert, nowUnix) {
			continue
		}

		header := englishText(alert.GetHeaderText())
		if header == "" {
			continue
		}

		alerts = append(alerts, models.ServiceAlert{
			ID:          entity.GetId(),
			Routes:      affectedRoutes(alert),
			Header:      header,
			Description: englishText(alert.GetDescriptionText()),
		})
		if len(alerts) == maxAlerts {
			break
		}
	}

	return alerts
}

func activeAt(alert *gtfs.Alert, nowUnix int64) bool {
	periods := alert.GetActivePeriod()
	if len(periods) == 0 {
		return true
	}
	for _, period := range periods {
		start := int64(period.GetStart())
		end := int64(period.GetEnd())
		if nowUnix >= start && (end == 0 || nowUnix < end) {
			return true
		}
	}
	return false
}

func affectedRoutes(alert *gtfs.Alert) []string {
	seen := make(map[string]bool)
	var routes []string
	for _, ie := range alert.GetInformedEntity() {
		routeID := ie.GetRouteId()
		if routeID == "" || seen[routeID] {
			continue
		}
		seen[routeID] = true
		routes = append(routes, routeID)
	}
	sort.Strings(routes)
	return routes
}

func englishText(ts *gtfs.TranslatedString) string {
	if ts == nil {
		return ""
	}
	for _, t := range ts.GetTranslation() {
		if t.GetLanguage() == "en" || t.GetLanguage() == "" {
			return t.GetText()
		}
	}
	if translations := ts.GetTranslation(); len(translations) > 0 {
		return translations[0].GetText()
	}
	return ""
}
