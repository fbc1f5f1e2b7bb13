// main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/cors"

	"RoomWatch.mongoDB/config"
	"RoomWatch.mongoDB/controllers"
	"RoomWatch.mongoDB/dao"
	"RoomWatch.mongoDB/routes"
	"RoomWatch.mongoDB/services"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading configuration: ", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB; a failed connection or health check is fatal -
	// the process never proceeds partially initialized.
	dbManager := dao.NewDatabaseManager(cfg.MongoURI, cfg.DatabaseName)
	if err := dbManager.Connect(ctx); err != nil {
		log.Fatal("Failed to connect to MongoDB: ", err)
	}
	defer dbManager.Close(context.Background())

	tsCollection := dao.NewTimeSeriesCollection(dbManager, cfg.CollectionName)
	if err := tsCollection.Setup(ctx); err != nil {
		log.Fatal("Failed to set up time-series collection: ", err)
	}

	if err := dbManager.CheckHealth(ctx); err != nil {
		log.Fatal("Database health check failed: ", err)
	}

	// The cache is auxiliary; run without it if Redis is down.
	if err := config.InitRedis(cfg.RedisAddr); err != nil {
		log.Println("⚠️ Running without latest-reading cache:", err)
	}

	// Configure the simulated sensor and the alert thresholds.
	simulator := services.NewSensorSimulator()
	simulator.SetLocation("MCW", "CBE", "ServerRoom")
	simulator.SetSensorID("SR001")

	alertManager := services.NewAlertManager()
	alertManager.SetThresholds(services.Thresholds{TempMin: 63, TempMax: 80, HumidityMin: 40, HumidityMax: 60})
	for _, warning := range alertManager.ValidateThresholds() {
		log.Printf("⚠️ Threshold Warning: %s", warning)
	}

	notifier := services.NewAlertNotifier(cfg.WebhookURL)
	monitor := services.NewMonitorService(tsCollection, simulator, alertManager, notifier, cfg)
	analyzer := services.NewDataAnalyzer(tsCollection)

	// Set up routes.
	analyticsController := controllers.NewAnalyticsController(analyzer, os.TempDir())
	statusController := controllers.NewStatusController(dbManager, simulator.GetSensorInfo().SensorID)
	thresholdController := controllers.NewThresholdController(alertManager)
	router := routes.SetupRouter(analyticsController, statusController, thresholdController)

	// CORS setup
	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173"},
		AllowedMethods:   []string{"GET", "PUT"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})
	handler := c.Handler(router)

	server := &http.Server{Addr: ":" + cfg.Port, Handler: handler}
	go func() {
		log.Printf("Server is running on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Error starting server: ", err)
		}
	}()

	// Ingestion loop; runs until a stop signal arrives.
	done := make(chan struct{})
	go func() {
		monitor.Run(ctx)
		close(done)
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Println("Shutdown signal received, stopping...")

	cancel()
	// Wait for the current ingestion cycle to finish before the deferred
	// close releases the store connection.
	<-done
	if err := server.Shutdown(context.Background()); err != nil {
		log.Printf("Error shutting down server: %v", err)
	}
	log.Println("Cleanup completed successfully")
}
