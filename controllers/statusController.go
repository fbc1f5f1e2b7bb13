package controllers

import (
	"context"
	"encoding/json"
	"net/http"

	"RoomWatch.mongoDB/config"
	"RoomWatch.mongoDB/models"
	"RoomWatch.mongoDB/utils"
)

// HealthChecker reports whether the store connection is still alive.
// dao.DatabaseManager implements it.
type HealthChecker interface {
	IsConnected(ctx context.Context) bool
}

// StatusController serves the system status endpoint: store liveness plus
// the cached latest reading for the configured sensor.
type StatusController struct {
	db       HealthChecker
	sensorID string
}

// NewStatusController creates the controller for one sensor stream.
func NewStatusController(db HealthChecker, sensorID string) *StatusController {
	return &StatusController{db: db, sensorID: sensorID}
}

// HandleStatus serves GET /status.
func (c *StatusController) HandleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"database_connected": c.db.IsConnected(r.Context()),
		"cache_available":    config.RedisAvailable(),
	}

	if config.RedisAvailable() {
		payload, err := config.GetLatestReading(r.Context(), c.sensorID)
		if err == nil && payload != nil {
			var latest models.Reading
			if json.Unmarshal(payload, &latest) == nil {
				status["latest_reading"] = latest
			}
		}
	}

	utils.RespondWithJSON(w, http.StatusOK, status)
}
