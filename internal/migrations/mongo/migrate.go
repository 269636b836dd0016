package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tably/internal/migrations/mongo/validators"
)

var (
	// AppointmentsIndexes includes the partial unique index that guarantees
	// at most one occupying appointment per table and time even if the
	// advisory lock is bypassed.
	AppointmentsIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "venue_id", Value: 1},
				{Key: "table_id", Value: 1},
				{Key: "date", Value: 1},
				{Key: "time", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"active": true}),
		},
		{Keys: bson.D{
			{Key: "venue_id", Value: 1},
			{Key: "date", Value: 1},
			{Key: "active", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "date", Value: -1},
		}},
	}

	// Stale advisory locks expire via TTL so an abandoned request cannot
	// block a slot forever.
	AppointmentLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}

	TimeSlotsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "venue_id", Value: 1},
			{Key: "day_of_week", Value: 1},
			{Key: "active", Value: 1},
		}},
	}

	TablesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "venue_id", Value: 1},
			{Key: "active", Value: 1},
			{Key: "reservable", Value: 1},
			{Key: "max_capacity", Value: 1},
		}},
	}

	BlockedDatesIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "venue_id", Value: 1},
			{Key: "start_date", Value: 1},
			{Key: "end_date", Value: 1},
		}},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running Tably Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"appointments": {
			Indexes:   AppointmentsIndexes,
			Validator: validators.AppointmentValidator,
		},
		"appointment_locks": {
			Indexes:   AppointmentLocksIndexes,
			Validator: validators.AppointmentLockValidator,
		},
		"time_slots": {
			Indexes:   TimeSlotsIndexes,
			Validator: validators.TimeSlotValidator,
		},
		"tables": {
			Indexes:   TablesIndexes,
			Validator: validators.TableValidator,
		},
		"blocked_dates": {
			Indexes:   BlockedDatesIndexes,
			Validator: validators.BlockedDateValidator,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection().SetValidator(validator)
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
	} else {
		fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
		command := bson.D{
			{Key: "collMod", Value: name},
			{Key: "validator", Value: validator},
		}
		if err := db.RunCommand(ctx, command).Err(); err != nil {
			fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
		}
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
