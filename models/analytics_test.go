package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestQueryWindowMatch(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 8, 0, 0, 0, 0, time.UTC)

	t.Run("window only", func(t *testing.T) {
		match := QueryWindow{Start: start, End: end}.Match()
		assert.Equal(t, bson.M{"timestamp": bson.M{"$gte": start, "$lte": end}}, match)
	})

	t.Run("with metadata filters", func(t *testing.T) {
		w := QueryWindow{Start: start, End: end, Location: "MCW", Building: "CBE", Room: "ServerRoom", SensorID: "SR001"}
		match := w.Match()
		assert.Equal(t, "MCW", match["metadata.location"])
		assert.Equal(t, "CBE", match["metadata.building"])
		assert.Equal(t, "ServerRoom", match["metadata.room"])
		assert.Equal(t, "SR001", match["metadata.sensor_id"])
	})

	t.Run("empty filters are omitted", func(t *testing.T) {
		match := QueryWindow{Start: start, End: end, Location: "MCW"}.Match()
		assert.Contains(t, match, "metadata.location")
		assert.NotContains(t, match, "metadata.building")
		assert.NotContains(t, match, "metadata.room")
		assert.NotContains(t, match, "metadata.sensor_id")
	})
}

func TestWindowHelpers(t *testing.T) {
	w := WindowForHours(24)
	assert.InDelta(t, 24*time.Hour, w.End.Sub(w.Start), float64(time.Second))

	w = WindowForDays(7)
	assert.InDelta(t, 7*24*time.Hour, w.End.Sub(w.Start), float64(time.Hour))
}
