package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	appointmentserrors "tably/internal/appointments/errors"
	"tably/pkg/config"
	mongotx "tably/pkg/db/mongo"
	"tably/pkg/model"
)

const CollectionName = "appointments"

type AppointmentRepository interface {
	Create(ctx context.Context, appointment *model.Appointment) error
	FindByID(ctx context.Context, id string) (*model.Appointment, error)
	FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Appointment, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	FindByVenueAndDate(ctx context.Context, venueID, date string) ([]*model.Appointment, error)
	FindActiveByVenueAndDate(ctx context.Context, venueID, date string) ([]*model.Appointment, error)
	FindActiveByVenueDateTime(ctx context.Context, venueID, date, clock string) ([]*model.Appointment, error)
	UpdateStatus(ctx context.Context, id, status, reason string) (*model.Appointment, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

type mongoAppointmentRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

func NewMongoAppointmentRepository(cfg *config.Config) AppointmentRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoAppointmentRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(CollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
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

func (r *mongoAppointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	appointment.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	appointment.Active = model.IsActiveStatus(appointment.Status)

	result, err := r.collection.InsertOne(ctx, appointment)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return appointmentserrors.ErrSlotTaken
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		appointment.ID = oid.Hex()
	}
	return nil
}

func (r *mongoAppointmentRepository) FindByID(ctx context.Context, id string) (*model.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrInvalidID, id)
	}

	var appointment model.Appointment
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&appointment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appointmentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find appointment: %w", err)
	}

	return &appointment, nil
}

func (r *mongoAppointmentRepository) FindByUser(ctx context.Context, userID string, limit int, offset int64) ([]*model.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments by user: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}

	return appointments, nil
}

func (r *mongoAppointmentRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, bson.M{"user_id": userID})
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments by user: %w", err)
	}
	return count, nil
}

func (r *mongoAppointmentRepository) FindByVenueAndDate(ctx context.Context, venueID, date string) ([]*model.Appointment, error) {
	return r.findByVenueAndDate(ctx, bson.M{"venue_id": venueID, "date": date})
}

// FindActiveByVenueAndDate returns the appointments that occupy tables on
// one day. Cancelled, completed and no-show records are excluded.
func (r *mongoAppointmentRepository) FindActiveByVenueAndDate(ctx context.Context, venueID, date string) ([]*model.Appointment, error) {
	return r.findByVenueAndDate(ctx, bson.M{"venue_id": venueID, "date": date, "active": true})
}

func (r *mongoAppointmentRepository) FindActiveByVenueDateTime(ctx context.Context, venueID, date, clock string) ([]*model.Appointment, error) {
	return r.findByVenueAndDate(ctx, bson.M{"venue_id": venueID, "date": date, "time": clock, "active": true})
}

func (r *mongoAppointmentRepository) findByVenueAndDate(ctx context.Context, filter bson.M) ([]*model.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find appointments: %w", err)
	}
	defer cursor.Close(ctx)

	var appointments []*model.Appointment
	if err = cursor.All(ctx, &appointments); err != nil {
		return nil, fmt.Errorf("failed to decode appointments: %w", err)
	}

	return appointments, nil
}

// UpdateStatus moves an appointment to status, stamps the matching lifecycle
// timestamp and keeps the active flag in sync so the partial unique index
// releases the table when the record stops occupying it.
func (r *mongoAppointmentRepository) UpdateStatus(ctx context.Context, id, status, reason string) (*model.Appointment, error) {
	ctx, cancel := withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", appointmentserrors.ErrInvalidID, id)
	}

	now := time.Now().UTC().Truncate(time.Millisecond)
	set := bson.M{
		"status": status,
		"active": model.IsActiveStatus(status),
	}
	switch status {
	case model.StatusConfirmed:
		set["confirmed_at"] = now
	case model.StatusSeated:
		set["seated_at"] = now
	case model.StatusCompleted:
		set["completed_at"] = now
	case model.StatusCancelled, model.StatusNoShow:
		set["cancelled_at"] = now
		if reason != "" {
			set["cancellation_reason"] = reason
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Appointment
	err = r.collection.FindOneAndUpdate(ctx, bson.M{"_id": objectID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, appointmentserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update appointment status: %w", err)
	}

	return &updated, nil
}

func (r *mongoAppointmentRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
