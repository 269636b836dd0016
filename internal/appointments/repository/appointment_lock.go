package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tably/pkg/config"
	"tably/pkg/model"
)

const LockCollectionName = "appointment_locks"

// AppointmentLockRepository provides operations for advisory locks. Stale
// locks are reaped by a TTL index on expires_at.
type AppointmentLockRepository interface {
	Create(ctx context.Context, lock *model.AppointmentLock) (*model.AppointmentLock, error)
	Delete(ctx context.Context, lockID string) error
}

type mongoAppointmentLockRepository struct {
	collection *mongo.Collection
}

func NewAppointmentLockRepository(cfg *config.Config) AppointmentLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentLockRepository{
		collection: db.Collection(LockCollectionName),
	}
}

// SlotLockID builds the lock key for one venue/date/time.
func SlotLockID(venueID, date string, minutes int) string {
	return fmt.Sprintf("slot_lock_%s_%s_%d", venueID, date, minutes)
}

// Create returns a duplicate key error if the lock is already held.
func (r *mongoAppointmentLockRepository) Create(ctx context.Context, lock *model.AppointmentLock) (*model.AppointmentLock, error) {
	lock.CreatedAt = time.Now()

	_, err := r.collection.InsertOne(ctx, lock)
	if err != nil {
		return nil, err
	}

	return lock, nil
}

// Delete removes an advisory lock
func (r *mongoAppointmentLockRepository) Delete(ctx context.Context, lockID string) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID})
	return err
}
