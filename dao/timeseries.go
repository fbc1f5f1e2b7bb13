package dao

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"RoomWatch.mongoDB/models"
)

// namespaceExists is the server error code returned when racing another
// initializer on collection creation.
const namespaceExists = 48

// TimeSeriesCollection manages the telemetry collection: schema and index
// lifecycle, inserts with read-back verification, retention deletes, and
// aggregation pipeline execution. It performs no retries; every failure is
// surfaced to the caller as a typed error.
type TimeSeriesCollection struct {
	dbManager  *DatabaseManager
	name       string
	collection *mongo.Collection
}

// NewTimeSeriesCollection creates the wrapper; Setup must run before use.
func NewTimeSeriesCollection(dbManager *DatabaseManager, name string) *TimeSeriesCollection {
	return &TimeSeriesCollection{dbManager: dbManager, name: name}
}

// Setup idempotently ensures the time-series collection exists with the
// required index set. Safe to call repeatedly across process restarts;
// concurrent initializers racing on creation are tolerated.
func (t *TimeSeriesCollection) Setup(ctx context.Context) error {
	names, err := t.dbManager.ListCollectionNames(ctx)
	if err != nil {
		return &SchemaSetupError{Err: err}
	}

	exists := false
	for _, n := range names {
		if n == t.name {
			exists = true
			break
		}
	}

	if !exists {
		log.Println("Creating time-series collection...")
		err := t.dbManager.CreateTimeSeriesCollection(ctx, t.name)
		var cmdErr mongo.CommandError
		switch {
		case err == nil:
			log.Println("✅ Time-series collection created successfully")
		case errors.As(err, &cmdErr) && cmdErr.Code == namespaceExists:
			log.Println("Time-series collection already exists (race condition handled)")
		default:
			return &SchemaSetupError{Err: err}
		}
	} else {
		log.Println("Time-series collection already exists")
	}

	t.collection = t.dbManager.Collection(t.name)

	if err := t.createIndexes(ctx); err != nil {
		return &SchemaSetupError{Err: err}
	}
	return nil
}

// createIndexes drops incompatible alert-field indexes left behind by older
// schema versions, then creates the required set. Alert fields are never
// indexed: they are absent-or-array per document and would need multikey
// semantics the schema does not want.
func (t *TimeSeriesCollection) createIndexes(ctx context.Context) error {
	cursor, err := t.collection.Indexes().List(ctx)
	if err != nil {
		return err
	}
	var existing []struct {
		Name string `bson:"name"`
		Key  bson.D `bson:"key"`
	}
	if err := cursor.All(ctx, &existing); err != nil {
		return err
	}

	for _, idx := range existing {
		if len(idx.Key) != 1 {
			continue
		}
		field := idx.Key[0].Key
		if field == "alert_type" || field == "severity" {
			if _, err := t.collection.Indexes().DropOne(ctx, idx.Name); err != nil {
				// A concurrent initializer may have dropped it already.
				log.Printf("⚠️ Could not drop incompatible index %s: %v", idx.Name, err)
				continue
			}
			log.Printf("Dropped incompatible index: %s", idx.Name)
		}
	}

	indexes := []mongo.IndexModel{
		// Time-based index for recency sorting.
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		// Metadata indexes for filter queries.
		{Keys: bson.D{{Key: "metadata.location", Value: 1}}},
		{Keys: bson.D{{Key: "metadata.building", Value: 1}}},
		{Keys: bson.D{{Key: "metadata.room", Value: 1}}},
		// Compound index for combined recency + location queries.
		{Keys: bson.D{
			{Key: "timestamp", Value: -1},
			{Key: "metadata.location", Value: 1},
			{Key: "metadata.building", Value: 1},
		}},
	}
	if _, err := t.collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return err
	}

	log.Println("✅ Indexes created successfully")
	return nil
}

// InsertDocument inserts one reading and returns its generated id. Callers
// are expected to follow a successful insert with VerifyInsertion before
// considering the reading durably visible.
func (t *TimeSeriesCollection) InsertDocument(ctx context.Context, reading *models.Reading) (primitive.ObjectID, error) {
	res, err := t.collection.InsertOne(ctx, reading)
	if err != nil {
		return primitive.NilObjectID, &WriteError{Err: err}
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, &WriteError{Err: errors.New("unexpected inserted id type")}
	}
	return id, nil
}

// VerifyInsertion reads the document back by id. A false result with a nil
// error means the insert reported success but the read-back found nothing.
func (t *TimeSeriesCollection) VerifyInsertion(ctx context.Context, id primitive.ObjectID) (bool, error) {
	err := t.collection.FindOne(ctx, bson.M{"_id": id}).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, &QueryError{Op: "verifyInsertion", Err: err}
}

// FindByID returns the document with the given id, or nil when absent.
func (t *TimeSeriesCollection) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Reading, error) {
	var reading models.Reading
	err := t.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&reading)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, &QueryError{Op: "findByID", Err: err}
	}
	return &reading, nil
}

// Find runs a filtered query sorted by the given order, with an optional
// positive limit.
func (t *TimeSeriesCollection) Find(ctx context.Context, filter bson.M, sort bson.D, limit int64) ([]models.Reading, error) {
	opts := options.Find().SetSort(sort)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := t.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, &QueryError{Op: "find", Err: err}
	}
	var results []models.Reading
	if err := cursor.All(ctx, &results); err != nil {
		return nil, &QueryError{Op: "find", Err: err}
	}
	return results, nil
}

// CountDocuments counts documents matching the filter.
func (t *TimeSeriesCollection) CountDocuments(ctx context.Context, filter bson.M) (int64, error) {
	count, err := t.collection.CountDocuments(ctx, filter)
	if err != nil {
		return 0, &QueryError{Op: "count", Err: err}
	}
	return count, nil
}

// Aggregate executes an aggregation pipeline and returns the raw documents.
func (t *TimeSeriesCollection) Aggregate(ctx context.Context, pipeline mongo.Pipeline, results any) error {
	cursor, err := t.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return &QueryError{Op: "aggregate", Err: err}
	}
	if err := cursor.All(ctx, results); err != nil {
		return &QueryError{Op: "aggregate", Err: err}
	}
	return nil
}

// CleanupOldData deletes every document older than the retention window and
// returns the count removed. Idempotent: an immediate second run with no new
// old data deletes zero documents. Health-status documents follow the same
// age rule.
func (t *TimeSeriesCollection) CleanupOldData(ctx context.Context, daysToKeep int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -daysToKeep)
	res, err := t.collection.DeleteMany(ctx, bson.M{"timestamp": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, &QueryError{Op: "cleanup", Err: err}
	}
	log.Printf("Cleaned up %d old documents (older than %d days)", res.DeletedCount, daysToKeep)
	return res.DeletedCount, nil
}

// Stats returns the stored time range and document count, or nil when the
// collection is empty.
func (t *TimeSeriesCollection) Stats(ctx context.Context) (*models.CollectionStats, error) {
	total, err := t.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	if total == 0 {
		return nil, nil
	}

	var first, last models.Reading
	firstOpts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: 1}})
	if err := t.collection.FindOne(ctx, bson.M{}, firstOpts).Decode(&first); err != nil {
		return nil, &QueryError{Op: "stats", Err: err}
	}
	lastOpts := options.FindOne().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if err := t.collection.FindOne(ctx, bson.M{}, lastOpts).Decode(&last); err != nil {
		return nil, &QueryError{Op: "stats", Err: err}
	}

	return &models.CollectionStats{
		FirstRecord:    first.Timestamp,
		LastRecord:     last.Timestamp,
		TotalDocuments: total,
	}, nil
}
