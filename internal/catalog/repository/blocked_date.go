package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tably/pkg/config"
	"tably/pkg/model"
)

const BlockedDateCollection = "blocked_dates"

type BlockedDateRepository interface {
	// FindCovering returns the closure ranges that include date, if any.
	FindCovering(ctx context.Context, venueID string, date string) ([]*model.BlockedDate, error)
}

type mongoBlockedDateRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoBlockedDateRepository(cfg *config.Config) BlockedDateRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlockedDateRepository{
		cfg:        cfg,
		collection: db.Collection(BlockedDateCollection),
	}
}

func (r *mongoBlockedDateRepository) FindCovering(ctx context.Context, venueID string, date string) ([]*model.BlockedDate, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	// ISO dates compare correctly as strings, both ends inclusive.
	filter := bson.M{
		"venue_id":   venueID,
		"start_date": bson.M{"$lte": date},
		"end_date":   bson.M{"$gte": date},
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find blocked dates: %w", err)
	}
	defer cursor.Close(ctx)

	var blocked []*model.BlockedDate
	if err = cursor.All(ctx, &blocked); err != nil {
		return nil, fmt.Errorf("failed to decode blocked dates: %w", err)
	}

	return blocked, nil
}
