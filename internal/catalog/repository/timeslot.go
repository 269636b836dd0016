// Package repository provides read-only access to the shared venue catalog:
// time slots, tables, blocked dates and venue info. The scheduling engine
// never writes these collections.
package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tably/pkg/config"
	"tably/pkg/model"
)

const TimeSlotCollection = "time_slots"

type TimeSlotRepository interface {
	// FindActiveByVenueAndWeekday returns the active operating windows for
	// one weekday (0=Sunday), ordered by start time.
	FindActiveByVenueAndWeekday(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error)
}

type mongoTimeSlotRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTimeSlotRepository(cfg *config.Config) TimeSlotRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTimeSlotRepository{
		cfg:        cfg,
		collection: db.Collection(TimeSlotCollection),
	}
}

func (r *mongoTimeSlotRepository) FindActiveByVenueAndWeekday(ctx context.Context, venueID string, weekday int) ([]*model.TimeSlot, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"venue_id":    venueID,
		"day_of_week": weekday,
		"active":      true,
	}
	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find time slots: %w", err)
	}
	defer cursor.Close(ctx)

	var slots []*model.TimeSlot
	if err = cursor.All(ctx, &slots); err != nil {
		return nil, fmt.Errorf("failed to decode time slots: %w", err)
	}

	return slots, nil
}

// withTimeout wraps the context with a timeout unless already inside a
// transaction: a SessionContext cannot be wrapped without breaking
// transaction semantics.
func withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	if remaining := time.Until(deadline); remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}
