package services

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RoomWatch.mongoDB/dao"
	"RoomWatch.mongoDB/models"
)

// End-to-end aggregation tests against a real MongoDB; skipped unless
// MONGODB_URI is set.

func setupIntegrationAnalyzer(t *testing.T) (*DataAnalyzer, *dao.TimeSeriesCollection, context.Context) {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set, skipping integration test")
	}

	ctx := context.Background()
	manager := dao.NewDatabaseManager(uri, "monitoringDB_test")
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { manager.Close(ctx) })

	name := fmt.Sprintf("readings_%d", time.Now().UnixNano())
	ts := dao.NewTimeSeriesCollection(manager, name)
	require.NoError(t, ts.Setup(ctx))
	t.Cleanup(func() { _ = manager.Collection(name).Drop(ctx) })

	return NewDataAnalyzer(ts), ts, ctx
}

func insertReading(t *testing.T, ts *dao.TimeSeriesCollection, ctx context.Context, when time.Time, temp float64) {
	t.Helper()
	_, err := ts.InsertDocument(ctx, &models.Reading{
		Timestamp: when,
		Metadata:  models.Metadata{Location: "MCW", Building: "CBE", Room: "ServerRoom", SensorID: "SR001", SensorType: "environmental"},
		Metrics:   &models.Metrics{Temperature: &temp},
	})
	require.NoError(t, err)
}

func TestGetTrendsHourlyBuckets(t *testing.T) {
	analyzer, ts, ctx := setupIntegrationAnalyzer(t)

	base := time.Now().UTC().Truncate(time.Hour).Add(-3 * time.Hour)
	// Two readings in one hour bucket, one in the next.
	insertReading(t, ts, ctx, base.Add(5*time.Minute), 70.0)
	insertReading(t, ts, ctx, base.Add(25*time.Minute), 74.0)
	insertReading(t, ts, ctx, base.Add(time.Hour+10*time.Minute), 68.0)

	trends, err := analyzer.GetTrends(ctx, "temperature", 1)
	require.NoError(t, err)
	require.Len(t, trends, 2)

	first := trends[0]
	assert.Equal(t, base.Hour(), first.Bucket.Hour)
	assert.Equal(t, 72.0, first.Average)
	assert.Equal(t, 70.0, first.Min)
	assert.Equal(t, 74.0, first.Max)
	assert.Equal(t, int64(2), first.Count)

	second := trends[1]
	assert.Equal(t, 68.0, second.Average)
	assert.Equal(t, int64(1), second.Count)
}

func TestGetAggregatedMetricsWindow(t *testing.T) {
	analyzer, ts, ctx := setupIntegrationAnalyzer(t)

	now := time.Now().UTC()
	insertReading(t, ts, ctx, now.Add(-30*time.Minute), 66.0)
	insertReading(t, ts, ctx, now.Add(-20*time.Minute), 70.0)
	// Outside the window, must not count.
	insertReading(t, ts, ctx, now.Add(-2*time.Hour), 90.0)

	window := models.QueryWindow{Start: now.Add(-time.Hour), End: now}
	metrics, err := analyzer.GetAggregatedMetrics(ctx, window)
	require.NoError(t, err)
	require.NotNil(t, metrics)

	assert.Equal(t, int64(2), metrics.TotalReadings)
	require.NotNil(t, metrics.AvgTemperature)
	assert.Equal(t, 68.0, *metrics.AvgTemperature)
	require.NotNil(t, metrics.MaxTemperature)
	assert.Equal(t, 70.0, *metrics.MaxTemperature)
	assert.Nil(t, metrics.AvgHumidity, "no humidity was recorded")
}
