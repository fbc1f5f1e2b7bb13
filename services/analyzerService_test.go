package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"RoomWatch.mongoDB/models"
)

// fakeStore records the calls the analyzer makes and returns canned data.
type fakeStore struct {
	findFilter bson.M
	findSort   bson.D
	findLimit  int64
	findResult []models.Reading
	findErr    error

	countFn func(filter bson.M) (int64, error)

	pipeline mongo.Pipeline
	aggFill  func(results any)
	aggErr   error

	statsResult *models.CollectionStats
}

func (f *fakeStore) Find(_ context.Context, filter bson.M, sort bson.D, limit int64) ([]models.Reading, error) {
	f.findFilter = filter
	f.findSort = sort
	f.findLimit = limit
	return f.findResult, f.findErr
}

func (f *fakeStore) CountDocuments(_ context.Context, filter bson.M) (int64, error) {
	if f.countFn != nil {
		return f.countFn(filter)
	}
	return 0, nil
}

func (f *fakeStore) Aggregate(_ context.Context, pipeline mongo.Pipeline, results any) error {
	f.pipeline = pipeline
	if f.aggErr != nil {
		return f.aggErr
	}
	if f.aggFill != nil {
		f.aggFill(results)
	}
	return nil
}

func (f *fakeStore) Stats(_ context.Context) (*models.CollectionStats, error) {
	return f.statsResult, nil
}

// matchStage extracts the $match filter from the first pipeline stage.
func matchStage(t *testing.T, pipeline mongo.Pipeline) bson.M {
	t.Helper()
	require.NotEmpty(t, pipeline)
	require.Equal(t, "$match", pipeline[0][0].Key)
	match, ok := pipeline[0][0].Value.(bson.M)
	require.True(t, ok)
	return match
}

func TestGetTrendsRejectsUnknownMetric(t *testing.T) {
	analyzer := NewDataAnalyzer(&fakeStore{})
	_, err := analyzer.GetTrends(context.Background(), "pressure", 7)
	assert.Error(t, err)
}

func TestGetTrendsPipelineAndDecoding(t *testing.T) {
	store := &fakeStore{
		aggFill: func(results any) {
			out := results.(*[]models.TrendPoint)
			*out = []models.TrendPoint{
				{Bucket: models.TrendBucket{Year: 2026, Month: 8, Day: 29, Hour: 9}, Average: 70.5, Min: 70, Max: 71, Count: 2},
				{Bucket: models.TrendBucket{Year: 2026, Month: 8, Day: 29, Hour: 10}, Average: 72, Min: 72, Max: 72, Count: 1},
			}
		},
	}
	analyzer := NewDataAnalyzer(store)

	trends, err := analyzer.GetTrends(context.Background(), "temperature", 7)
	require.NoError(t, err)
	require.Len(t, trends, 2)
	assert.Equal(t, 9, trends[0].Bucket.Hour)
	assert.Equal(t, 70.5, trends[0].Average)
	assert.Equal(t, int64(2), trends[0].Count)

	// Only documents carrying the metric are aggregated.
	match := matchStage(t, store.pipeline)
	assert.Equal(t, bson.M{"$exists": true}, match["metrics.temperature"])
	assert.Contains(t, match, "timestamp")
}

func TestGetAlertSummaryMatchesOnlyAlertCarryingDocuments(t *testing.T) {
	store := &fakeStore{
		aggFill: func(results any) {
			out := results.(*[]models.AlertTypeSummary)
			*out = []models.AlertTypeSummary{
				{AlertType: models.AlertTemperatureHigh, Count: 3, CriticalCount: 1, WarningCount: 2},
			}
		},
	}
	analyzer := NewDataAnalyzer(store)

	summary, err := analyzer.GetAlertSummary(context.Background(), 7)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, int64(1), summary[0].CriticalCount)
	assert.Equal(t, int64(2), summary[0].WarningCount)

	match := matchStage(t, store.pipeline)
	assert.Equal(t, bson.M{"$exists": true, "$ne": bson.A{}}, match["alert_type"])
}

func TestGetAggregatedMetricsReturnsNilWhenWindowIsEmpty(t *testing.T) {
	analyzer := NewDataAnalyzer(&fakeStore{})

	window := models.QueryWindow{Start: time.Now().Add(-time.Hour), End: time.Now()}
	metrics, err := analyzer.GetAggregatedMetrics(context.Background(), window)

	require.NoError(t, err)
	assert.Nil(t, metrics, "an empty window must yield an absent result, not a zero-filled summary")
}

func TestGetAggregatedMetricsDecoding(t *testing.T) {
	avg := 71.25
	store := &fakeStore{
		aggFill: func(results any) {
			out := results.(*[]models.AggregatedMetrics)
			*out = []models.AggregatedMetrics{{AvgTemperature: &avg, TotalReadings: 4, AlertCount: 1}}
		},
	}
	analyzer := NewDataAnalyzer(store)

	metrics, err := analyzer.GetAggregatedMetrics(context.Background(), models.WindowForDays(1))
	require.NoError(t, err)
	require.NotNil(t, metrics)
	require.NotNil(t, metrics.AvgTemperature)
	assert.Equal(t, 71.25, *metrics.AvgTemperature)
	assert.Equal(t, int64(4), metrics.TotalReadings)
}

func TestGetDataQuality(t *testing.T) {
	store := &fakeStore{
		countFn: func(filter bson.M) (int64, error) {
			if _, anomalyQuery := filter["$or"]; anomalyQuery {
				return 12, nil
			}
			return 6000, nil
		},
	}
	analyzer := NewDataAnalyzer(store)

	report, err := analyzer.GetDataQuality(context.Background(), 7)
	require.NoError(t, err)

	assert.Equal(t, int64(7*1440), report.ExpectedReadings)
	assert.Equal(t, int64(6000), report.ActualReadings)
	assert.Equal(t, int64(4080), report.MissingReadings)
	assert.Equal(t, int64(12), report.Anomalies)
	assert.InDelta(t, 40.48, report.MissingPercentage, 0.001)
	assert.InDelta(t, 59.52, report.DataCompleteness, 0.001)
}

func TestQueryRecentDataFiltersAndOrder(t *testing.T) {
	store := &fakeStore{findResult: []models.Reading{{Timestamp: time.Now()}}}
	analyzer := NewDataAnalyzer(store)

	readings, err := analyzer.QueryRecentData(context.Background(), 24, models.QueryWindow{Location: "MCW", Room: "ServerRoom"})
	require.NoError(t, err)
	assert.Len(t, readings, 1)

	assert.Equal(t, "MCW", store.findFilter["metadata.location"])
	assert.Equal(t, "ServerRoom", store.findFilter["metadata.room"])
	assert.NotContains(t, store.findFilter, "metadata.building")
	assert.Equal(t, bson.D{{Key: "timestamp", Value: -1}}, store.findSort)
}

func TestGetOptimalPeriodsUsesCanonicalBand(t *testing.T) {
	store := &fakeStore{}
	analyzer := NewDataAnalyzer(store)

	_, err := analyzer.GetOptimalPeriods(context.Background(), 7)
	require.NoError(t, err)

	assert.Nil(t, store.findFilter["alert_type"])
	assert.Contains(t, store.findFilter, "alert_type")
	assert.Equal(t, bson.M{"$gte": optimalTempMin, "$lte": optimalTempMax}, store.findFilter["metrics.temperature"])
	assert.Equal(t, bson.M{"$gte": optimalHumidityMin, "$lte": optimalHumidityMax}, store.findFilter["metrics.humidity"])
}

func TestExportJSONWritesISO8601Timestamps(t *testing.T) {
	ts := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{findResult: []models.Reading{{
		Timestamp: ts,
		Metadata:  models.Metadata{Location: "MCW", Building: "CBE", Room: "ServerRoom"},
	}}}
	analyzer := NewDataAnalyzer(store)

	filename := filepath.Join(t.TempDir(), "export.json")
	count, err := analyzer.ExportJSON(context.Background(), filename, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), "2026-03-01T10:00:00Z")

	// Export reads oldest first.
	assert.Equal(t, bson.D{{Key: "timestamp", Value: 1}}, store.findSort)
}

func TestSearchByMetadataOmitsTimeWindow(t *testing.T) {
	store := &fakeStore{}
	analyzer := NewDataAnalyzer(store)

	_, err := analyzer.SearchByMetadata(context.Background(), models.QueryWindow{Location: "MCW", SensorID: "SR001"}, 100)
	require.NoError(t, err)

	assert.NotContains(t, store.findFilter, "timestamp")
	assert.Equal(t, "SR001", store.findFilter["metadata.sensor_id"])
	assert.Equal(t, int64(100), store.findLimit)
}
