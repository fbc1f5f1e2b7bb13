package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"RoomWatch.mongoDB/controllers"
	"RoomWatch.mongoDB/utils"
)

// SetupDataRoutes registers the raw-data read routes.
func SetupDataRoutes(router *mux.Router, analytics *controllers.AnalyticsController) {
	router.Handle("/data/recent", utils.JWTMiddleware(http.HandlerFunc(analytics.HandleRecentData))).Methods("GET")
	router.Handle("/data/export", utils.JWTMiddleware(http.HandlerFunc(analytics.HandleExport))).Methods("GET")
	router.Handle("/data/stats", utils.JWTMiddleware(http.HandlerFunc(analytics.HandleStats))).Methods("GET")
}

// SetupAnalyticsRoutes registers the aggregation/reporting routes.
func SetupAnalyticsRoutes(router *mux.Router, analytics *controllers.AnalyticsController) {
	router.Handle("/analytics/trends/{metric}", utils.JWTMiddleware(http.HandlerFunc(analytics.HandleTrends))).Methods("GET")
	router.Handle("/analytics/alerts", utils.JWTMiddleware(http.HandlerFunc(analytics.HandleAlertSummary))).Methods("GET")
	router.Handle("/analytics/optimal", utils.JWTMiddleware(http.HandlerFunc(analytics.HandleOptimalPeriods))).Methods("GET")
	router.Handle("/analytics/metrics", utils.JWTMiddleware(http.HandlerFunc(analytics.HandleAggregatedMetrics))).Methods("GET")
	router.Handle("/analytics/quality", utils.JWTMiddleware(http.HandlerFunc(analytics.HandleDataQuality))).Methods("GET")
}

// SetupConfigRoutes registers the threshold configuration routes.
func SetupConfigRoutes(router *mux.Router, thresholds *controllers.ThresholdController) {
	router.Handle("/config/thresholds", utils.JWTMiddleware(http.HandlerFunc(thresholds.HandleGetThresholds))).Methods("GET")
	router.Handle("/config/thresholds", utils.JWTMiddleware(http.HandlerFunc(thresholds.HandleUpdateThresholds))).Methods("PUT")
}
