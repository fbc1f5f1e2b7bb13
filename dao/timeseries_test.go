package dao

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"RoomWatch.mongoDB/models"
)

// Integration tests; they need a running MongoDB and are skipped unless
// MONGODB_URI is set.

func setupTestCollection(t *testing.T) (*TimeSeriesCollection, context.Context) {
	t.Helper()

	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set, skipping integration test")
	}

	ctx := context.Background()
	manager := NewDatabaseManager(uri, "monitoringDB_test")
	require.NoError(t, manager.Connect(ctx))
	t.Cleanup(func() { manager.Close(ctx) })

	name := fmt.Sprintf("readings_%d", time.Now().UnixNano())
	ts := NewTimeSeriesCollection(manager, name)
	require.NoError(t, ts.Setup(ctx))
	t.Cleanup(func() { _ = ts.collection.Drop(ctx) })

	return ts, ctx
}

func indexNames(t *testing.T, ts *TimeSeriesCollection, ctx context.Context) []string {
	t.Helper()
	cursor, err := ts.collection.Indexes().List(ctx)
	require.NoError(t, err)
	var specs []struct {
		Name string `bson:"name"`
	}
	require.NoError(t, cursor.All(ctx, &specs))
	names := make([]string, 0, len(specs))
	for _, s := range specs {
		names = append(names, s.Name)
	}
	return names
}

func TestSetupIsIdempotent(t *testing.T) {
	ts, ctx := setupTestCollection(t)

	before := indexNames(t, ts, ctx)
	require.NoError(t, ts.Setup(ctx))
	after := indexNames(t, ts, ctx)

	assert.ElementsMatch(t, before, after, "second setup must leave the index set unchanged")
}

func TestInsertAndVerify(t *testing.T) {
	ts, ctx := setupTestCollection(t)

	temp := 71.25
	reading := &models.Reading{
		Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		Metadata:  models.Metadata{Location: "MCW", Building: "CBE", Room: "ServerRoom", SensorID: "SR001", SensorType: "environmental"},
		Metrics:   &models.Metrics{Temperature: &temp},
	}

	id, err := ts.InsertDocument(ctx, reading)
	require.NoError(t, err)

	ok, err := ts.VerifyInsertion(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	saved, err := ts.FindByID(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "MCW", saved.Metadata.Location)
	require.NotNil(t, saved.Metrics.Temperature)
	assert.Equal(t, 71.25, *saved.Metrics.Temperature)
	assert.Nil(t, saved.Metrics.Humidity, "absent metric must stay absent")
	assert.False(t, saved.HasAlerts())
}

func TestCleanupOldData(t *testing.T) {
	ts, ctx := setupTestCollection(t)

	now := time.Now().UTC()
	for _, age := range []int{40, 35, 1, 0} {
		reading := &models.Reading{
			Timestamp: now.AddDate(0, 0, -age),
			Metadata:  models.Metadata{Location: "MCW", Building: "CBE", Room: "ServerRoom"},
		}
		_, err := ts.InsertDocument(ctx, reading)
		require.NoError(t, err)
	}

	deleted, err := ts.CleanupOldData(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	// Nothing older than the retention window survives.
	cutoff := time.Now().UTC().AddDate(0, 0, -30)
	remaining, err := ts.CountDocuments(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)

	// Idempotent: an immediate rerun deletes nothing.
	deleted, err = ts.CleanupOldData(ctx, 30)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestStats(t *testing.T) {
	ts, ctx := setupTestCollection(t)

	stats, err := ts.Stats(ctx)
	require.NoError(t, err)
	assert.Nil(t, stats, "empty collection has no stats")

	first := time.Now().UTC().Add(-2 * time.Hour).Truncate(time.Millisecond)
	last := time.Now().UTC().Truncate(time.Millisecond)
	for _, when := range []time.Time{last, first} {
		_, err := ts.InsertDocument(ctx, &models.Reading{
			Timestamp: when,
			Metadata:  models.Metadata{Location: "MCW", Building: "CBE", Room: "ServerRoom"},
		})
		require.NoError(t, err)
	}

	stats, err = ts.Stats(ctx)
	require.NoError(t, err)
	require.NotNil(t, stats)
	assert.Equal(t, int64(2), stats.TotalDocuments)
	assert.True(t, stats.FirstRecord.Equal(first))
	assert.True(t, stats.LastRecord.Equal(last))
}
