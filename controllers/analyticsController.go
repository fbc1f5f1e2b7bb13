package controllers

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"RoomWatch.mongoDB/models"
	"RoomWatch.mongoDB/utils"
)

// AnalyticsService is the analyzer surface the controller calls.
// services.DataAnalyzer implements it.
type AnalyticsService interface {
	QueryRecentData(ctx context.Context, hours int, filters models.QueryWindow) ([]models.Reading, error)
	GetAlertSummary(ctx context.Context, days int) ([]models.AlertTypeSummary, error)
	GetTrends(ctx context.Context, metric string, days int) ([]models.TrendPoint, error)
	GetOptimalPeriods(ctx context.Context, days int) ([]models.Reading, error)
	GetAggregatedMetrics(ctx context.Context, window models.QueryWindow) (*models.AggregatedMetrics, error)
	GetDataQuality(ctx context.Context, days int) (*models.DataQualityReport, error)
	ExportJSON(ctx context.Context, filename string, days int) (int, error)
	GetCollectionStats(ctx context.Context) (*models.CollectionStats, error)
}

// AnalyticsController handles the read-only reporting endpoints.
type AnalyticsController struct {
	service   AnalyticsService
	exportDir string
}

// NewAnalyticsController creates the controller; exports are written under
// exportDir.
func NewAnalyticsController(service AnalyticsService, exportDir string) *AnalyticsController {
	return &AnalyticsController{service: service, exportDir: exportDir}
}

// metadataFilters pulls the optional location/building/room query params.
func metadataFilters(r *http.Request) models.QueryWindow {
	q := r.URL.Query()
	return models.QueryWindow{
		Location: q.Get("location"),
		Building: q.Get("building"),
		Room:     q.Get("room"),
	}
}

// intParam parses a positive integer query parameter with a default.
func intParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", name)
	}
	return n, nil
}

// HandleRecentData serves GET /data/recent.
func (c *AnalyticsController) HandleRecentData(w http.ResponseWriter, r *http.Request) {
	hours, err := intParam(r, "hours", 24)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
		return
	}

	readings, err := c.service.QueryRecentData(r.Context(), hours, metadataFilters(r))
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error querying recent data: %v", err), nil, http.StatusInternalServerError))
		return
	}
	if readings == nil {
		readings = []models.Reading{}
	}
	utils.RespondWithJSON(w, http.StatusOK, readings)
}

// HandleAlertSummary serves GET /analytics/alerts.
func (c *AnalyticsController) HandleAlertSummary(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 7)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
		return
	}

	summary, err := c.service.GetAlertSummary(r.Context(), days)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error getting alert summary: %v", err), nil, http.StatusInternalServerError))
		return
	}
	if summary == nil {
		summary = []models.AlertTypeSummary{}
	}
	utils.RespondWithJSON(w, http.StatusOK, summary)
}

// HandleTrends serves GET /analytics/trends/{metric}.
func (c *AnalyticsController) HandleTrends(w http.ResponseWriter, r *http.Request) {
	metric := mux.Vars(r)["metric"]
	if metric != "temperature" && metric != "humidity" {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, "metric must be 'temperature' or 'humidity'", nil, http.StatusBadRequest))
		return
	}

	days, err := intParam(r, "days", 7)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
		return
	}

	trends, err := c.service.GetTrends(r.Context(), metric, days)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error getting %s trends: %v", metric, err), nil, http.StatusInternalServerError))
		return
	}
	if trends == nil {
		trends = []models.TrendPoint{}
	}
	utils.RespondWithJSON(w, http.StatusOK, trends)
}

// HandleOptimalPeriods serves GET /analytics/optimal.
func (c *AnalyticsController) HandleOptimalPeriods(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 7)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
		return
	}

	readings, err := c.service.GetOptimalPeriods(r.Context(), days)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error getting optimal periods: %v", err), nil, http.StatusInternalServerError))
		return
	}
	if readings == nil {
		readings = []models.Reading{}
	}
	utils.RespondWithJSON(w, http.StatusOK, readings)
}

// HandleAggregatedMetrics serves GET /analytics/metrics. start and end are
// required RFC 3339 instants; a window with no matching documents responds
// 404 rather than a zero-filled summary.
func (c *AnalyticsController) HandleAggregatedMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMissingParameter, "start is required in RFC3339 format", nil, http.StatusBadRequest))
		return
	}
	end, err := time.Parse(time.RFC3339, q.Get("end"))
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeMissingParameter, "end is required in RFC3339 format", nil, http.StatusBadRequest))
		return
	}

	window := metadataFilters(r)
	window.Start = start
	window.End = end

	metrics, err := c.service.GetAggregatedMetrics(r.Context(), window)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error calculating aggregated metrics: %v", err), nil, http.StatusInternalServerError))
		return
	}
	if metrics == nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, "No data found for the requested window", nil, http.StatusNotFound))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, metrics)
}

// HandleDataQuality serves GET /analytics/quality.
func (c *AnalyticsController) HandleDataQuality(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 7)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
		return
	}

	report, err := c.service.GetDataQuality(r.Context(), days)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error calculating data quality: %v", err), nil, http.StatusInternalServerError))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, report)
}

// HandleExport serves GET /data/export: a one-shot bulk export of the
// window to a JSON file on the server.
func (c *AnalyticsController) HandleExport(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", 7)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInvalidFormat, err.Error(), nil, http.StatusBadRequest))
		return
	}

	filename := filepath.Join(c.exportDir, fmt.Sprintf("telemetry_export_%s.json", time.Now().UTC().Format("20060102T150405Z")))
	count, err := c.service.ExportJSON(r.Context(), filename, days)
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error exporting data: %v", err), nil, http.StatusInternalServerError))
		return
	}

	utils.RespondWithJSON(w, http.StatusOK, map[string]any{
		"file":      filename,
		"documents": count,
	})
}

// HandleStats serves GET /data/stats.
func (c *AnalyticsController) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.GetCollectionStats(r.Context())
	if err != nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeInternalServerError, fmt.Sprintf("Error getting collection stats: %v", err), nil, http.StatusInternalServerError))
		return
	}
	if stats == nil {
		utils.RespondWithError(w, models.NewAPIError(models.ErrorCodeNotFound, "No documents found in collection", nil, http.StatusNotFound))
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, stats)
}
