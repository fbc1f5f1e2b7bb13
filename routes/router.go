// File: routes/router.go
package routes

import (
	"github.com/gorilla/mux"

	"RoomWatch.mongoDB/controllers"
)

// SetupRouter defines all API routes.
func SetupRouter(analytics *controllers.AnalyticsController, status *controllers.StatusController, thresholds *controllers.ThresholdController) *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/status", status.HandleStatus).Methods("GET")
	SetupDataRoutes(router, analytics)
	SetupAnalyticsRoutes(router, analytics)
	SetupConfigRoutes(router, thresholds)

	return router
}
