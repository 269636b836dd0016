package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tably/pkg/config"
	"tably/pkg/model"
)

const TableCollection = "tables"

type TableRepository interface {
	// FindCandidates returns the active, reservable tables whose capacity
	// range covers partySize, smallest and cheapest first. The ordering is
	// the assignment preference, not a correctness constraint.
	FindCandidates(ctx context.Context, venueID string, partySize int) ([]*model.Table, error)
}

type mongoTableRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewMongoTableRepository(cfg *config.Config) TableRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoTableRepository{
		cfg:        cfg,
		collection: db.Collection(TableCollection),
	}
}

func (r *mongoTableRepository) FindCandidates(ctx context.Context, venueID string, partySize int) ([]*model.Table, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"venue_id":     venueID,
		"active":       true,
		"reservable":   true,
		"min_capacity": bson.M{"$lte": partySize},
		"max_capacity": bson.M{"$gte": partySize},
	}
	opts := options.Find().SetSort(bson.D{
		{Key: "max_capacity", Value: 1},
		{Key: "premium_surcharge", Value: 1},
		{Key: "position", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find candidate tables: %w", err)
	}
	defer cursor.Close(ctx)

	var tables []*model.Table
	if err = cursor.All(ctx, &tables); err != nil {
		return nil, fmt.Errorf("failed to decode tables: %w", err)
	}

	return tables, nil
}
