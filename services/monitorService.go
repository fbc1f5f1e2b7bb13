package services

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"RoomWatch.mongoDB/config"
	"RoomWatch.mongoDB/models"
)

// ReadingStore is the write surface of the time-series collection the
// orchestrator needs. dao.TimeSeriesCollection implements it.
type ReadingStore interface {
	InsertDocument(ctx context.Context, reading *models.Reading) (primitive.ObjectID, error)
	VerifyInsertion(ctx context.Context, id primitive.ObjectID) (bool, error)
	CleanupOldData(ctx context.Context, daysToKeep int) (int64, error)
}

// MonitorService orchestrates the ingestion pipeline: per tick it generates
// a reading, evaluates thresholds, inserts, and verifies - strictly
// sequentially, with no in-flight concurrency and no queueing. Maintenance
// (health-status document + retention cleanup) runs on a much coarser
// cadence over the same connection. A failure in one tick never stops the
// loop; the next tick proceeds normally.
type MonitorService struct {
	store     ReadingStore
	simulator *SensorSimulator
	alerts    *AlertManager
	notifier  *AlertNotifier

	collectionInterval  time.Duration
	maintenanceInterval time.Duration
	retentionDays       int
	lastMaintenance     time.Time
}

// NewMonitorService wires the ingestion orchestrator.
func NewMonitorService(store ReadingStore, simulator *SensorSimulator, alerts *AlertManager, notifier *AlertNotifier, cfg config.Config) *MonitorService {
	return &MonitorService{
		store:               store,
		simulator:           simulator,
		alerts:              alerts,
		notifier:            notifier,
		collectionInterval:  cfg.CollectionInterval,
		maintenanceInterval: cfg.MaintenanceInterval,
		retentionDays:       cfg.RetentionDays,
	}
}

// RunCycle executes one complete ingestion cycle: generate, evaluate,
// annotate, insert, verify, cache. A failed insert drops the reading for
// this cycle (no retry, no queue); a failed verification means the reading
// is considered lost, not resubmitted.
func (m *MonitorService) RunCycle(ctx context.Context) error {
	reading := m.simulator.GenerateReading()

	alerts := m.alerts.CheckReading(reading)
	if len(alerts) > 0 {
		reading.ApplyAlerts(alerts)
		LogAlerts(alerts)
	}

	id, err := m.store.InsertDocument(ctx, reading)
	if err != nil {
		log.Printf("❌ Failed to insert sensor data: %v", err)
		return err
	}

	ok, err := m.store.VerifyInsertion(ctx, id)
	if err != nil {
		log.Printf("❌ Error verifying insertion: %v", err)
		return err
	}
	if !ok {
		log.Printf("❌ Data insertion verification failed for %s", id.Hex())
		return nil
	}

	if reading.Metrics != nil && reading.Metrics.Temperature != nil && reading.Metrics.Humidity != nil {
		if len(alerts) > 0 {
			log.Printf("[%s] Temp: %g°F, Humidity: %g%% - ALERTS: %d",
				reading.Timestamp.Format(time.RFC3339), *reading.Metrics.Temperature, *reading.Metrics.Humidity, len(alerts))
		} else {
			log.Printf("[%s] Temp: %g°F, Humidity: %g%%",
				reading.Timestamp.Format(time.RFC3339), *reading.Metrics.Temperature, *reading.Metrics.Humidity)
		}
	}

	m.notifier.NotifyCritical(reading, alerts)
	m.cacheLatest(ctx, reading)
	return nil
}

// cacheLatest updates the latest-reading cache, best-effort.
func (m *MonitorService) cacheLatest(ctx context.Context, reading *models.Reading) {
	if !config.RedisAvailable() {
		return
	}
	payload, err := json.Marshal(reading)
	if err != nil {
		log.Printf("⚠️ Could not marshal reading for cache: %v", err)
		return
	}
	ttl := 2 * m.collectionInterval
	if err := config.CacheLatestReading(ctx, reading.Metadata.SensorID, payload, ttl); err != nil {
		log.Printf("⚠️ Could not cache latest reading: %v", err)
	}
}

// RunMaintenance inserts the health-status document and runs retention
// cleanup when the maintenance interval has elapsed.
func (m *MonitorService) RunMaintenance(ctx context.Context) {
	now := time.Now().UTC()
	if !m.lastMaintenance.IsZero() && now.Sub(m.lastMaintenance) < m.maintenanceInterval {
		return
	}

	log.Println("Running health maintenance tasks...")

	health := m.simulator.GenerateHealthStatus()
	if _, err := m.store.InsertDocument(ctx, health); err != nil {
		log.Printf("❌ Failed to insert health status: %v", err)
	}

	cleaned, err := m.store.CleanupOldData(ctx, m.retentionDays)
	if err != nil {
		log.Printf("❌ Data cleanup failed: %v", err)
	} else {
		log.Printf("Data cleanup completed: %d old documents removed", cleaned)
	}

	m.lastMaintenance = now
	log.Println("Health maintenance completed successfully")
}

// Run drives the ingestion loop until the context is cancelled. The current
// cycle always completes before Run returns, so shutdown never abandons a
// half-applied insert.
func (m *MonitorService) Run(ctx context.Context) {
	log.Println("Starting IoT time-series monitoring...")

	ticker := time.NewTicker(m.collectionInterval)
	defer ticker.Stop()

	// Detached from cancellation so a shutdown signal never aborts an
	// in-flight insert; the loop itself exits on the next select pass.
	cycleCtx := context.WithoutCancel(ctx)

	// Cycle errors are isolated per tick; the loop always resumes.
	m.RunCycle(cycleCtx)
	m.RunMaintenance(cycleCtx)

	for {
		select {
		case <-ctx.Done():
			log.Println("Monitoring stopped")
			return
		case <-ticker.C:
			m.RunCycle(cycleCtx)
			m.RunMaintenance(cycleCtx)
		}
	}
}
