// Package analytics computes the dashboard aggregates from the loaded
// ridership dataset. Every operation takes a borough scope; results are
// memoized per borough so reactive page reloads do not redo the group-bys.
package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/nycdash/ridership-dashboard/internal/cache"
	"github.com/nycdash/ridership-dashboard/internal/dataset"
	"github.com/nycdash/ridership-dashboard/internal/models"
)

// Overall is the scope value that selects the whole dataset.
const Overall = "Overall"

// ErrUnknownBorough is returned when the requested borough has no records.
var ErrUnknownBorough = errors.New("unknown borough")

// dayNames orders heatmap rows Monday first, as the dashboard displays them.
var dayNames = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// WeekdayOrder returns the heatmap day ordering.
func WeekdayOrder() []string {
	out := make([]string, len(dayNames))
	copy(out, dayNames)
	return out
}

// Service runs aggregations against an immutable dataset. Each operation
// memoizes its result per borough scope.
type Service struct {
	data      *dataset.Dataset
	summaries *cache.Cache[[]models.StationSummary]
	hourly    *cache.Cache[[]models.HourlyPoint]
	trends    *cache.Cache[[]models.PaymentTrend]
	heatmap   *cache.Cache[[]models.HeatmapCell]
	share     *cache.Cache[[]models.BoroughTotal]
	spread    *cache.Cache[[]models.BoxStats]
	fares     *cache.Cache[[]models.FareSlice]
	metrics   *cache.Cache[models.Metrics]
}

// New creates an analytics service with the given memoization TTL.
func New(data *dataset.Dataset, ttl time.Duration) *Service {
	return &Service{
		data:      data,
		summaries: cache.New[[]models.StationSummary](ttl),
		hourly:    cache.New[[]models.HourlyPoint](ttl),
		trends:    cache.New[[]models.PaymentTrend](ttl),
		heatmap:   cache.New[[]models.HeatmapCell](ttl),
		share:     cache.New[[]models.BoroughTotal](ttl),
		spread:    cache.New[[]models.BoxStats](ttl),
		fares:     cache.New[[]models.FareSlice](ttl),
		metrics:   cache.New[models.Metrics](ttl),
	}
}

// Close stops the memoization caches.
func (s *Service) Close() {
	s.summaries.Close()
	s.hourly.Close()
	s.trends.Close()
	s.heatmap.Close()
	s.share.Close()
	s.spread.Close()
	s.fares.Close()
	s.metrics.Close()
}

// Boroughs returns the boroughs present in the dataset, sorted.
func (s *Service) Boroughs() []string {
	return s.data.Boroughs()
}

// scope normalizes a borough parameter: empty or Overall selects everything,
// anything else must exist in the dataset.
func (s *Service) scope(borough string) (string, error) {
	if borough == "" || borough == Overall {
		return "", nil
	}
	if !s.data.HasBorough(borough) {
		return "", fmt.Errorf("%w: %s", ErrUnknownBorough, borough)
	}
	return borough, nil
}

// StationSummaries returns per-station totals within the scope, sorted by
// total ridership descending.
func (s *Service) StationSummaries(borough string) ([]models.StationSummary, error) {
	b, err := s.scope(borough)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.summaries.Get(b); ok {
		return cached, nil
	}

	groups := s.data.Frame(b).GroupBy("station_complex", "borough")
	if groups.Err != nil {
		return nil, fmt.Errorf("grouping stations: %w", groups.Err)
	}
	grouped := groups.Aggregation(
		[]dataframe.AggregationType{
			dataframe.Aggregation_SUM,
			dataframe.Aggregation_SUM,
			dataframe.Aggregation_MEAN,
			dataframe.Aggregation_MEAN,
		},
		[]string{"ridership", "transfers", "latitude", "longitude"},
	)
	if grouped.Error() != nil {
		return nil, fmt.Errorf("aggregating stations: %w", grouped.Error())
	}

	var (
		stations  = grouped.Col("station_complex").Records()
		boroughs  = grouped.Col("borough").Records()
		ridership = grouped.Col("ridership_SUM").Float()
		transfers = grouped.Col("transfers_SUM").Float()
		lats      = grouped.Col("latitude_MEAN").Float()
		lngs      = grouped.Col("longitude_MEAN").Float()
	)

	out := make([]models.StationSummary, grouped.Nrow())
	for i := range out {
		out[i] = models.StationSummary{
			Station:        stations[i],
			Borough:        boroughs[i],
			TotalRidership: ridership[i],
			TotalTransfers: transfers[i],
			Latitude:       lats[i],
			Longitude:      lngs[i],
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalRidership != out[j].TotalRidership {
			return out[i].TotalRidership > out[j].TotalRidership
		}
		return out[i].Station < out[j].Station
	})

	s.summaries.Set(b, out)
	return out, nil
}

// TopStations returns the n busiest stations in the scope.
func (s *Service) TopStations(borough string, n int) ([]models.StationSummary, error) {
	summaries, err := s.StationSummaries(borough)
	if err != nil {
		return nil, err
	}
	return topN(summaries, n), nil
}

// TopTransferHubs returns the n stations with the most transfers in the scope.
func (s *Service) TopTransferHubs(borough string, n int) ([]models.StationSummary, error) {
	summaries, err := s.StationSummaries(borough)
	if err != nil {
		return nil, err
	}
	byTransfers := make([]models.StationSummary, len(summaries))
	copy(byTransfers, summaries)
	sort.Slice(byTransfers, func(i, j int) bool {
		if byTransfers[i].TotalTransfers != byTransfers[j].TotalTransfers {
			return byTransfers[i].TotalTransfers > byTransfers[j].TotalTransfers
		}
		return byTransfers[i].Station < byTransfers[j].Station
	})
	return topN(byTransfers, n), nil
}

func topN(summaries []models.StationSummary, n int) []models.StationSummary {
	if n > 0 && n < len(summaries) {
		summaries = summaries[:n]
	}
	return summaries
}

// BoroughShare returns total ridership per borough across the whole dataset,
// sorted descending.
func (s *Service) BoroughShare() ([]models.BoroughTotal, error) {
	if cached, ok := s.share.Get(""); ok {
		return cached, nil
	}

	groups := s.data.Frame("").GroupBy("borough")
	if groups.Err != nil {
		return nil, fmt.Errorf("grouping boroughs: %w", groups.Err)
	}
	grouped := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{"ridership"},
	)
	if grouped.Error() != nil {
		return nil, fmt.Errorf("aggregating boroughs: %w", grouped.Error())
	}

	boroughs := grouped.Col("borough").Records()
	totals := grouped.Col("ridership_SUM").Float()

	out := make([]models.BoroughTotal, grouped.Nrow())
	for i := range out {
		out[i] = models.BoroughTotal{Borough: boroughs[i], Ridership: totals[i]}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ridership > out[j].Ridership })

	s.share.Set("", out)
	return out, nil
}

// HourlySeries returns total ridership per hour in chronological order.
func (s *Service) HourlySeries(borough string) ([]models.HourlyPoint, error) {
	b, err := s.scope(borough)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.hourly.Get(b); ok {
		return cached, nil
	}

	totals := make(map[time.Time]float64)
	for _, rec := range s.data.Records(b) {
		totals[rec.Timestamp] += rec.Ridership
	}

	out := make([]models.HourlyPoint, 0, len(totals))
	for ts, total := range totals {
		out = append(out, models.HourlyPoint{Timestamp: ts, Ridership: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })

	s.hourly.Set(b, out)
	return out, nil
}

// PaymentTrends returns daily ridership per payment method, sorted by day
// then method.
func (s *Service) PaymentTrends(borough string) ([]models.PaymentTrend, error) {
	b, err := s.scope(borough)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.trends.Get(b); ok {
		return cached, nil
	}

	type bucket struct{ date, method string }
	totals := make(map[bucket]float64)
	for _, rec := range s.data.Records(b) {
		key := bucket{rec.Timestamp.Format("2006-01-02"), rec.PaymentMethod}
		totals[key] += rec.Ridership
	}

	out := make([]models.PaymentTrend, 0, len(totals))
	for key, total := range totals {
		out = append(out, models.PaymentTrend{Date: key.date, Method: key.method, Ridership: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Method < out[j].Method
	})

	s.trends.Set(b, out)
	return out, nil
}

// WeeklyHeatmap returns average ridership per (weekday, hour) bucket for the
// buckets that have observations, Monday first.
func (s *Service) WeeklyHeatmap(borough string) ([]models.HeatmapCell, error) {
	b, err := s.scope(borough)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.heatmap.Get(b); ok {
		return cached, nil
	}

	var sums, counts [7][24]float64
	for _, rec := range s.data.Records(b) {
		day := mondayIndex(rec.Timestamp.Weekday())
		hour := rec.Timestamp.Hour()
		sums[day][hour] += rec.Ridership
		counts[day][hour]++
	}

	var out []models.HeatmapCell
	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour++ {
			if counts[day][hour] == 0 {
				continue
			}
			out = append(out, models.HeatmapCell{
				Day:          dayNames[day],
				Hour:         hour,
				AvgRidership: sums[day][hour] / counts[day][hour],
			})
		}
	}

	s.heatmap.Set(b, out)
	return out, nil
}

// mondayIndex maps time.Weekday (Sunday = 0) onto a Monday-first index.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// BoroughSpread returns the five-number summary of hourly ridership for each
// borough in the scope.
func (s *Service) BoroughSpread(borough string) ([]models.BoxStats, error) {
	b, err := s.scope(borough)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.spread.Get(b); ok {
		return cached, nil
	}

	boroughs := s.data.Boroughs()
	if b != "" {
		boroughs = []string{b}
	}

	out := make([]models.BoxStats, 0, len(boroughs))
	for _, name := range boroughs {
		col := s.data.Frame(name).Col("ridership")
		if col.Err != nil {
			return nil, fmt.Errorf("ridership column for %s: %w", name, col.Err)
		}
		out = append(out, models.BoxStats{
			Borough: name,
			Min:     col.Min(),
			Q1:      col.Quantile(0.25),
			Median:  col.Quantile(0.5),
			Q3:      col.Quantile(0.75),
			Max:     col.Max(),
		})
	}

	s.spread.Set(b, out)
	return out, nil
}

// FareBreakdown returns total ridership per (payment method, fare class).
func (s *Service) FareBreakdown(borough string) ([]models.FareSlice, error) {
	b, err := s.scope(borough)
	if err != nil {
		return nil, err
	}
	if cached, ok := s.fares.Get(b); ok {
		return cached, nil
	}

	groups := s.data.Frame(b).GroupBy("payment_method", "fare_class_category")
	if groups.Err != nil {
		return nil, fmt.Errorf("grouping fares: %w", groups.Err)
	}
	grouped := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{"ridership"},
	)
	if grouped.Error() != nil {
		return nil, fmt.Errorf("aggregating fares: %w", grouped.Error())
	}

	methods := grouped.Col("payment_method").Records()
	classes := grouped.Col("fare_class_category").Records()
	totals := grouped.Col("ridership_SUM").Float()

	out := make([]models.FareSlice, grouped.Nrow())
	for i := range out {
		out[i] = models.FareSlice{
			PaymentMethod: methods[i],
			FareClass:     classes[i],
			Ridership:     totals[i],
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PaymentMethod != out[j].PaymentMethod {
			return out[i].PaymentMethod < out[j].PaymentMethod
		}
		return out[i].FareClass < out[j].FareClass
	})

	s.fares.Set(b, out)
	return out, nil
}

// Metrics returns the headline numbers for the scope.
func (s *Service) Metrics(borough string) (models.Metrics, error) {
	b, err := s.scope(borough)
	if err != nil {
		return models.Metrics{}, err
	}
	if cached, ok := s.metrics.Get(b); ok {
		return cached, nil
	}

	frame := s.data.Frame(b)
	m := models.Metrics{
		TotalRidership:     frame.Col("ridership").Sum(),
		AvgHourlyRidership: frame.Col("ridership").Mean(),
		TotalTransfers:     frame.Col("transfers").Sum(),
	}

	daily := make(map[time.Time]float64)
	for _, rec := range s.data.Records(b) {
		day := rec.Timestamp.Truncate(24 * time.Hour)
		daily[day] += rec.Ridership
	}
	var busiest time.Time
	for day, total := range daily {
		if total > m.BusiestDayTotal || (total == m.BusiestDayTotal && day.Before(busiest)) {
			busiest = day
			m.BusiestDayTotal = total
		}
	}
	if !busiest.IsZero() {
		m.BusiestDay = busiest.Format("Jan 02, 2006")
	}

	summaries, err := s.StationSummaries(borough)
	if err != nil {
		return models.Metrics{}, err
	}
	if len(summaries) > 0 {
		m.BusiestStation = summaries[0].Station
		m.BusiestStationTotal = summaries[0].TotalRidership
	}

	s.metrics.Set(b, m)
	return m, nil
}

// Sample returns up to limit records from the start of the dataset.
func (s *Service) Sample(limit int) []models.RidershipRecord {
	records := s.data.Records("")
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	return records
}
