package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"RoomWatch.mongoDB/models"
	"RoomWatch.mongoDB/services"
	"RoomWatch.mongoDB/utils"
)

// ThresholdController reads and updates the process-lifetime threshold
// configuration. Updates are applied even when validation produces
// warnings; the warnings travel back in the response (soft-fail policy).
type ThresholdController struct {
	alerts *services.AlertManager
}

// NewThresholdController creates the controller over the shared manager.
func NewThresholdController(alerts *services.AlertManager) *ThresholdController {
	return &ThresholdController{alerts: alerts}
}

// HandleGetThresholds serves GET /config/thresholds.
func (c *ThresholdController) HandleGetThresholds(w http.ResponseWriter, r *http.Request) {
	utils.RespondWithJSON(w, http.StatusOK, c.alerts.GetThresholds())
}

// HandleUpdateThresholds serves PUT /config/thresholds. The configuration
// is not persisted; it lives for the process lifetime only.
func (c *ThresholdController) HandleUpdateThresholds(w http.ResponseWriter, r *http.Request) {
	var thresholds services.Thresholds
	if err := json.NewDecoder(r.Body).Decode(&thresholds); err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeBadRequest, "Invalid request body", nil, http.StatusBadRequest))
		return
	}

	c.alerts.SetThresholds(thresholds)

	warnings := c.alerts.ValidateThresholds()
	for _, warning := range warnings {
		log.Printf("⚠️ Threshold Warning: %s", warning)
	}
	if warnings == nil {
		warnings = []string{}
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"thresholds": c.alerts.GetThresholds(),
		"warnings":   warnings,
	})
}
