// Package models defines shared data types
package models

import "time"

// RidershipRecord is one hourly turnstile observation at a station complex
type RidershipRecord struct {
	Timestamp     time.Time `json:"transit_timestamp"`
	Station       string    `json:"station_complex"`
	Borough       string    `json:"borough"`
	PaymentMethod string    `json:"payment_method"`
	FareClass     string    `json:"fare_class_category"`
	Ridership     float64   `json:"ridership"`
	Transfers     float64   `json:"transfers"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
}

// StationSummary aggregates all records of one station complex
type StationSummary struct {
	Station        string  `json:"station_complex"`
	Borough        string  `json:"borough"`
	TotalRidership float64 `json:"total_ridership"`
	TotalTransfers float64 `json:"total_transfers"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// HourlyPoint is the system-wide ridership total for one hour
type HourlyPoint struct {
	Timestamp time.Time `json:"transit_timestamp"`
	Ridership float64   `json:"ridership"`
}

// BoroughTotal is the ridership total for one borough
type BoroughTotal struct {
	Borough   string  `json:"borough"`
	Ridership float64 `json:"ridership"`
}

// PaymentTrend is the ridership total for one payment method on one day
type PaymentTrend struct {
	Date      string  `json:"date"`
	Method    string  `json:"payment_method"`
	Ridership float64 `json:"ridership"`
}

// HeatmapCell is the average ridership for one (weekday, hour) bucket
type HeatmapCell struct {
	Day          string  `json:"day_of_week"`
	Hour         int     `json:"hour"`
	AvgRidership float64 `json:"avg_ridership"`
}

// BoxStats is the five-number summary of hourly ridership in one borough
type BoxStats struct {
	Borough string  `json:"borough"`
	Min     float64 `json:"min"`
	Q1      float64 `json:"q1"`
	Median  float64 `json:"median"`
	Q3      float64 `json:"q3"`
	Max     float64 `json:"max"`
}

// FareSlice is the ridership total for one (payment method, fare class) pair
type FareSlice struct {
	PaymentMethod string  `json:"payment_method"`
	FareClass     string  `json:"fare_class_category"`
	Ridership     float64 `json:"ridership"`
}

// Metrics are the headline numbers shown on the dashboard
type Metrics struct {
	TotalRidership      float64 `json:"total_ridership"`
	AvgHourlyRidership  float64 `json:"avg_hourly_ridership"`
	BusiestDay          string  `json:"busiest_day"`
	BusiestDayTotal     float64 `json:"busiest_day_total"`
	BusiestStation      string  `json:"busiest_station"`
	BusiestStationTotal float64 `json:"busiest_station_total"`
	TotalTransfers      float64 `json:"total_transfers"`
}

// ServiceAlert represents an active MTA service alert
type ServiceAlert struct {
	ID          string   `json:"id"`
	Routes      []string `json:"routes"`
	Header      string   `json:"header"`
	Description string   `json:"description,omitempty"`
}
