package dao

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const operationTimeout = 5 * time.Second

// DatabaseManager owns the MongoDB connection, health checks, and basic
// database operations. The connection is a shared, long-lived resource;
// there is no automatic reconnect - a failed connect or health check is
// fatal to startup.
type DatabaseManager struct {
	uri    string
	dbName string
	client *mongo.Client
	db     *mongo.Database
}

// NewDatabaseManager creates a manager for the given connection string and
// database name. Connect must be called before any other operation.
func NewDatabaseManager(uri, dbName string) *DatabaseManager {
	return &DatabaseManager{uri: uri, dbName: dbName}
}

// Connect establishes the MongoDB connection with bounded timeouts and
// verifies it with a ping.
func (m *DatabaseManager) Connect(ctx context.Context) error {
	log.Println("Attempting to connect to MongoDB...")

	opts := options.Client().
		ApplyURI(m.uri).
		SetServerSelectionTimeout(operationTimeout).
		SetConnectTimeout(operationTimeout).
		SetSocketTimeout(operationTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return &ConnectionError{Err: err}
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return &ConnectionError{Err: err}
	}

	m.client = client
	m.db = client.Database(m.dbName)
	log.Println("✅ MongoDB connection successful")
	return nil
}

// CheckHealth pings the server and runs a scratch-collection round-trip
// (insert, read, delete) on a standard collection, isolated from the main
// time-series collection so it never contaminates telemetry data.
func (m *DatabaseManager) CheckHealth(ctx context.Context) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return &ConnectionError{Err: err}
	}

	health := m.db.Collection("__health")
	doc := bson.M{"test": "health_check", "timestamp": time.Now().UTC()}

	res, err := health.InsertOne(ctx, doc)
	if err != nil {
		return &ConnectionError{Err: err}
	}
	if err := health.FindOne(ctx, bson.M{"_id": res.InsertedID}).Err(); err != nil {
		return &ConnectionError{Err: err}
	}
	if _, err := health.DeleteOne(ctx, bson.M{"_id": res.InsertedID}); err != nil {
		return &ConnectionError{Err: err}
	}

	log.Println("✅ Database health check passed")
	return nil
}

// Collection returns a collection handle from the managed database.
func (m *DatabaseManager) Collection(name string) *mongo.Collection {
	return m.db.Collection(name)
}

// ListCollectionNames lists the collections in the managed database.
func (m *DatabaseManager) ListCollectionNames(ctx context.Context) ([]string, error) {
	names, err := m.db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return nil, &QueryError{Op: "listCollections", Err: err}
	}
	return names, nil
}

// CreateTimeSeriesCollection creates a time-series collection partitioned by
// timestamp and metadata at minute granularity, matching the
// one-reading-per-minute cadence.
func (m *DatabaseManager) CreateTimeSeriesCollection(ctx context.Context, name string) error {
	tsOpts := options.TimeSeries().
		SetTimeField("timestamp").
		SetMetaField("metadata").
		SetGranularity("minutes")
	return m.db.CreateCollection(ctx, name, options.CreateCollection().SetTimeSeriesOptions(tsOpts))
}

// IsConnected reports whether the server still answers a ping.
func (m *DatabaseManager) IsConnected(ctx context.Context) bool {
	if m.client == nil {
		return false
	}
	return m.client.Ping(ctx, readpref.Primary()) == nil
}

// Close releases the MongoDB connection.
func (m *DatabaseManager) Close(ctx context.Context) {
	if m.client == nil {
		return
	}
	if err := m.client.Disconnect(ctx); err != nil {
		log.Printf("Error closing MongoDB connection: %v", err)
		return
	}
	log.Println("MongoDB connection closed")
}
