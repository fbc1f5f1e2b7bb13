package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"RoomWatch.mongoDB/models"
)

// Canonical optimal band used purely for reporting ideal stretches; fixed,
// independent of the currently configured alert thresholds.
const (
	optimalTempMin     = 63
	optimalTempMax     = 80
	optimalHumidityMin = 40
	optimalHumidityMax = 60
)

// Sanity band for data-quality anomaly counting; wider than the alert
// thresholds and distinct from the optimal band.
const (
	sanityTempMin     = 60
	sanityTempMax     = 85
	sanityHumidityMin = 35
	sanityHumidityMax = 70
)

// readingsPerDay is the expected cadence: one reading per minute.
const readingsPerDay = 24 * 60

// Store is the read surface of the time-series collection the analyzer
// needs. dao.TimeSeriesCollection implements it.
type Store interface {
	Find(ctx context.Context, filter bson.M, sort bson.D, limit int64) ([]models.Reading, error)
	CountDocuments(ctx context.Context, filter bson.M) (int64, error)
	Aggregate(ctx context.Context, pipeline mongo.Pipeline, results any) error
	Stats(ctx context.Context) (*models.CollectionStats, error)
}

// DataAnalyzer handles querying, aggregation, and analysis over the
// time-series collection. Every operation is read-only and parameterized by
// a QueryWindow; failures yield an empty result plus an error, never a
// partial result set.
type DataAnalyzer struct {
	store Store
}

// NewDataAnalyzer creates an analyzer over the given store.
func NewDataAnalyzer(store Store) *DataAnalyzer {
	return &DataAnalyzer{store: store}
}

// QueryRecentData returns readings from the last n hours, newest first,
// honoring the window's optional metadata filters.
func (a *DataAnalyzer) QueryRecentData(ctx context.Context, hours int, filters models.QueryWindow) ([]models.Reading, error) {
	window := models.WindowForHours(hours)
	window.Location = filters.Location
	window.Building = filters.Building
	window.Room = filters.Room

	results, err := a.store.Find(ctx, window.Match(), bson.D{{Key: "timestamp", Value: -1}}, 0)
	if err != nil {
		log.Printf("❌ Error querying recent data: %v", err)
		return nil, err
	}
	log.Printf("✅ Retrieved %d documents from last %d hours", len(results), hours)
	return results, nil
}

// GetAlertSummary groups the alert-carrying readings of the last n days by
// alert type, counting severities within each group.
func (a *DataAnalyzer) GetAlertSummary(ctx context.Context, days int) ([]models.AlertTypeSummary, error) {
	match := models.WindowForDays(days).Match()
	match["alert_type"] = bson.M{"$exists": true, "$ne": bson.A{}}

	severityCount := func(severity models.Severity) bson.M {
		return bson.M{"$size": bson.M{"$filter": bson.M{
			"input": "$severities",
			"cond":  bson.M{"$eq": bson.A{"$$this", severity}},
		}}}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		// alert_type and severity are index-aligned arrays; unwind one and
		// pick the matching severity by index.
		{{Key: "$unwind", Value: bson.M{"path": "$alert_type", "includeArrayIndex": "alert_idx"}}},
		{{Key: "$project", Value: bson.M{
			"alert_type": 1,
			"severity":   bson.M{"$arrayElemAt": bson.A{"$severity", "$alert_idx"}},
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$alert_type",
			"count":      bson.M{"$sum": 1},
			"severities": bson.M{"$push": "$severity"},
		}}},
		{{Key: "$project", Value: bson.M{
			"count":          1,
			"critical_count": severityCount(models.SeverityCritical),
			"warning_count":  severityCount(models.SeverityWarning),
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	var results []models.AlertTypeSummary
	if err := a.store.Aggregate(ctx, pipeline, &results); err != nil {
		log.Printf("❌ Error getting alert summary: %v", err)
		return nil, err
	}
	log.Printf("✅ Alert summary retrieved for last %d days", days)
	return results, nil
}

// GetTrends returns hourly avg/min/max/count buckets for one metric over the
// last n days, bucket order ascending. Only documents that carry the metric
// are aggregated. metric must be "temperature" or "humidity".
func (a *DataAnalyzer) GetTrends(ctx context.Context, metric string, days int) ([]models.TrendPoint, error) {
	if metric != "temperature" && metric != "humidity" {
		return nil, fmt.Errorf("unsupported trend metric: %q", metric)
	}
	field := "metrics." + metric
	valueRef := "$" + field

	match := models.WindowForDays(days).Match()
	match[field] = bson.M{"$exists": true}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"year":  bson.M{"$year": "$timestamp"},
				"month": bson.M{"$month": "$timestamp"},
				"day":   bson.M{"$dayOfMonth": "$timestamp"},
				"hour":  bson.M{"$hour": "$timestamp"},
			},
			"avg_value":      bson.M{"$avg": valueRef},
			"min_value":      bson.M{"$min": valueRef},
			"max_value":      bson.M{"$max": valueRef},
			"readings_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	var results []models.TrendPoint
	if err := a.store.Aggregate(ctx, pipeline, &results); err != nil {
		log.Printf("❌ Error getting %s trends: %v", metric, err)
		return nil, err
	}
	log.Printf("✅ %s trends retrieved for last %d days", metric, days)
	return results, nil
}

// GetOptimalPeriods returns readings from the last n days with no alerts and
// both metrics inside the canonical optimal band.
func (a *DataAnalyzer) GetOptimalPeriods(ctx context.Context, days int) ([]models.Reading, error) {
	filter := models.WindowForDays(days).Match()
	// nil matches both "field absent" and an explicit null from older writers.
	filter["alert_type"] = nil
	filter["metrics.temperature"] = bson.M{"$gte": optimalTempMin, "$lte": optimalTempMax}
	filter["metrics.humidity"] = bson.M{"$gte": optimalHumidityMin, "$lte": optimalHumidityMax}

	results, err := a.store.Find(ctx, filter, bson.D{{Key: "timestamp", Value: -1}}, 0)
	if err != nil {
		log.Printf("❌ Error getting optimal periods: %v", err)
		return nil, err
	}
	log.Printf("✅ Retrieved %d optimal condition records from last %d days", len(results), days)
	return results, nil
}

// GetAggregatedMetrics returns the single-document summary for a window, or
// nil when no documents match - never a zero-filled summary.
func (a *DataAnalyzer) GetAggregatedMetrics(ctx context.Context, window models.QueryWindow) (*models.AggregatedMetrics, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: window.Match()}},
		{{Key: "$group", Value: bson.M{
			"_id":             nil,
			"avg_temperature": bson.M{"$avg": "$metrics.temperature"},
			"min_temperature": bson.M{"$min": "$metrics.temperature"},
			"max_temperature": bson.M{"$max": "$metrics.temperature"},
			"avg_humidity":    bson.M{"$avg": "$metrics.humidity"},
			"min_humidity":    bson.M{"$min": "$metrics.humidity"},
			"max_humidity":    bson.M{"$max": "$metrics.humidity"},
			"total_readings":  bson.M{"$sum": 1},
			"alert_count": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$ne": bson.A{"$alert_type", nil}}, 1, 0},
			}},
		}}},
	}

	var results []models.AggregatedMetrics
	if err := a.store.Aggregate(ctx, pipeline, &results); err != nil {
		log.Printf("❌ Error calculating aggregated metrics: %v", err)
		return nil, err
	}
	if len(results) == 0 {
		log.Println("⚠️ No data found for aggregation")
		return nil, nil
	}
	log.Println("✅ Aggregated metrics calculated successfully")
	return &results[0], nil
}

// GetDataQuality estimates completeness for the last n days against the
// one-reading-per-minute cadence, and counts readings outside the fixed
// sanity band. The cadence is assumed, not verified per sensor.
func (a *DataAnalyzer) GetDataQuality(ctx context.Context, days int) (*models.DataQualityReport, error) {
	window := models.WindowForDays(days)
	expected := int64(days) * readingsPerDay

	actual, err := a.store.CountDocuments(ctx, window.Match())
	if err != nil {
		log.Printf("❌ Error calculating data quality metrics: %v", err)
		return nil, err
	}

	anomalyFilter := window.Match()
	anomalyFilter["$or"] = bson.A{
		bson.M{"metrics.temperature": bson.M{"$lt": sanityTempMin}},
		bson.M{"metrics.temperature": bson.M{"$gt": sanityTempMax}},
		bson.M{"metrics.humidity": bson.M{"$lt": sanityHumidityMin}},
		bson.M{"metrics.humidity": bson.M{"$gt": sanityHumidityMax}},
	}
	anomalies, err := a.store.CountDocuments(ctx, anomalyFilter)
	if err != nil {
		log.Printf("❌ Error calculating data quality metrics: %v", err)
		return nil, err
	}

	report := &models.DataQualityReport{
		PeriodDays:       days,
		ExpectedReadings: expected,
		ActualReadings:   actual,
		MissingReadings:  expected - actual,
		Anomalies:        anomalies,
	}
	if expected > 0 {
		report.MissingPercentage = round2(float64(expected-actual) / float64(expected) * 100)
		report.DataCompleteness = round2(float64(actual) / float64(expected) * 100)
	}
	log.Println("✅ Data quality metrics calculated successfully")
	return report, nil
}

// ExportJSON writes the last n days of readings to a JSON file, oldest
// first, with timestamps in ISO-8601 form. Returns the document count.
func (a *DataAnalyzer) ExportJSON(ctx context.Context, filename string, days int) (int, error) {
	results, err := a.store.Find(ctx, models.WindowForDays(days).Match(), bson.D{{Key: "timestamp", Value: 1}}, 0)
	if err != nil {
		log.Printf("❌ Error exporting data: %v", err)
		return 0, err
	}

	// time.Time marshals to RFC 3339, the ISO-8601 form the export needs.
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		log.Printf("❌ Error exporting data: %v", err)
		return 0, err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		log.Printf("❌ Error exporting data: %v", err)
		return 0, err
	}

	log.Printf("✅ Exported %d documents to %s", len(results), filename)
	return len(results), nil
}

// SearchByMetadata searches by metadata criteria alone, newest first.
func (a *DataAnalyzer) SearchByMetadata(ctx context.Context, filters models.QueryWindow, limit int64) ([]models.Reading, error) {
	filter := bson.M{}
	if filters.Location != "" {
		filter["metadata.location"] = filters.Location
	}
	if filters.Building != "" {
		filter["metadata.building"] = filters.Building
	}
	if filters.Room != "" {
		filter["metadata.room"] = filters.Room
	}
	if filters.SensorID != "" {
		filter["metadata.sensor_id"] = filters.SensorID
	}

	results, err := a.store.Find(ctx, filter, bson.D{{Key: "timestamp", Value: -1}}, limit)
	if err != nil {
		log.Printf("❌ Error searching by metadata: %v", err)
		return nil, err
	}
	log.Printf("✅ Metadata search returned %d documents", len(results))
	return results, nil
}

// GetTimeRangeData returns readings inside an explicit window, oldest first.
func (a *DataAnalyzer) GetTimeRangeData(ctx context.Context, window models.QueryWindow, limit int64) ([]models.Reading, error) {
	results, err := a.store.Find(ctx, window.Match(), bson.D{{Key: "timestamp", Value: 1}}, limit)
	if err != nil {
		log.Printf("❌ Error getting time range data: %v", err)
		return nil, err
	}
	log.Printf("✅ Retrieved %d documents from %s to %s", len(results), window.Start, window.End)
	return results, nil
}

// GetCollectionStats returns the stored time range and document count.
func (a *DataAnalyzer) GetCollectionStats(ctx context.Context) (*models.CollectionStats, error) {
	stats, err := a.store.Stats(ctx)
	if err != nil {
		log.Printf("❌ Error getting collection stats: %v", err)
		return nil, err
	}
	return stats, nil
}
