package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
)

// QueryWindow is the shared time-window + metadata-filter shape consumed by
// every analyzer operation, so the match stage is built in exactly one place.
type QueryWindow struct {
	Start    time.Time
	End      time.Time
	Location string
	Building string
	Room     string
	SensorID string
}

// WindowForHours builds a window covering the last n hours ending now.
func WindowForHours(hours int) QueryWindow {
	end := time.Now().UTC()
	return QueryWindow{Start: end.Add(-time.Duration(hours) * time.Hour), End: end}
}

// WindowForDays builds a window covering the last n days ending now.
func WindowForDays(days int) QueryWindow {
	end := time.Now().UTC()
	return QueryWindow{Start: end.AddDate(0, 0, -days), End: end}
}

// Match renders the window as a find/aggregation match filter.
func (w QueryWindow) Match() bson.M {
	match := bson.M{
		"timestamp": bson.M{"$gte": w.Start, "$lte": w.End},
	}
	if w.Location != "" {
		match["metadata.location"] = w.Location
	}
	if w.Building != "" {
		match["metadata.building"] = w.Building
	}
	if w.Room != "" {
		match["metadata.room"] = w.Room
	}
	if w.SensorID != "" {
		match["metadata.sensor_id"] = w.SensorID
	}
	return match
}

// TrendBucket is one hourly aggregation bucket, keyed by the wall-clock hour.
type TrendBucket struct {
	Year  int `bson:"year" json:"year"`
	Month int `bson:"month" json:"month"`
	Day   int `bson:"day" json:"day"`
	Hour  int `bson:"hour" json:"hour"`
}

// TrendPoint carries the per-hour statistics for one metric.
type TrendPoint struct {
	Bucket  TrendBucket `bson:"_id" json:"bucket"`
	Average float64     `bson:"avg_value" json:"average"`
	Min     float64     `bson:"min_value" json:"min"`
	Max     float64     `bson:"max_value" json:"max"`
	Count   int64       `bson:"readings_count" json:"count"`
}

// AlertTypeSummary is the per-alert-type severity breakdown over a window.
type AlertTypeSummary struct {
	AlertType     AlertType `bson:"_id" json:"alert_type"`
	Count         int64     `bson:"count" json:"count"`
	CriticalCount int64     `bson:"critical_count" json:"critical_count"`
	WarningCount  int64     `bson:"warning_count" json:"warning_count"`
}

// AggregatedMetrics is the single-document window summary. Metric averages
// are pointers because a window may contain documents missing one metric.
type AggregatedMetrics struct {
	AvgTemperature *float64 `bson:"avg_temperature" json:"avg_temperature"`
	MinTemperature *float64 `bson:"min_temperature" json:"min_temperature"`
	MaxTemperature *float64 `bson:"max_temperature" json:"max_temperature"`
	AvgHumidity    *float64 `bson:"avg_humidity" json:"avg_humidity"`
	MinHumidity    *float64 `bson:"min_humidity" json:"min_humidity"`
	MaxHumidity    *float64 `bson:"max_humidity" json:"max_humidity"`
	TotalReadings  int64    `bson:"total_readings" json:"total_readings"`
	AlertCount     int64    `bson:"alert_count" json:"alert_count"`
}

// DataQualityReport estimates completeness against the one-reading-per-minute
// cadence. The cadence is assumed, not verified per sensor.
type DataQualityReport struct {
	PeriodDays        int     `json:"period_days"`
	ExpectedReadings  int64   `json:"expected_readings"`
	ActualReadings    int64   `json:"actual_readings"`
	MissingReadings   int64   `json:"missing_readings"`
	MissingPercentage float64 `json:"missing_percentage"`
	Anomalies         int64   `json:"anomalies"`
	DataCompleteness  float64 `json:"data_completeness"`
}

// CollectionStats summarises the stored time range.
type CollectionStats struct {
	FirstRecord    time.Time `json:"first_record"`
	LastRecord     time.Time `json:"last_record"`
	TotalDocuments int64     `json:"total_documents"`
}
