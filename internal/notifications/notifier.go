// Package notifications publishes reservation lifecycle events for
// downstream consumers (guest messaging, analytics). Delivery is best
// effort; a failed publish never fails the reservation.
package notifications

import (
	"context"
	"errors"

	catalogerrors "tably/internal/catalog/errors"
	catalogrepo "tably/internal/catalog/repository"
	"tably/pkg/config"
	"tably/pkg/kafka"
	"tably/pkg/logger"
	"tably/pkg/model"
)

const (
	EventConfirmed = "reservation.confirmed"
	EventCancelled = "reservation.cancelled"

	eventSource = "tably-reservations"
)

type Notifier interface {
	AppointmentConfirmed(ctx context.Context, appointment *model.Appointment)
	AppointmentCancelled(ctx context.Context, appointment *model.Appointment)

	// Close flushes and closes the underlying transport. Publishes issued
	// after Close are dropped.
	Close() error
}

// ReservationEvent is the wire payload. Venue details are denormalized so
// consumers can message guests without a catalog lookup.
type ReservationEvent struct {
	Appointment *model.Appointment `json:"appointment"`
	Venue       *model.Venue       `json:"venue,omitempty"`
}

type kafkaNotifier struct {
	producer *kafka.Producer
	venues   catalogrepo.VenueRepository
	log      *logger.Logger
}

func NewKafkaNotifier(cfg *config.Config, venues catalogrepo.VenueRepository) (Notifier, error) {
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, cfg.NotificationTopic)
	if err != nil {
		return nil, err
	}
	return &kafkaNotifier{
		producer: producer,
		venues:   venues,
		log:      cfg.Log,
	}, nil
}

func (n *kafkaNotifier) AppointmentConfirmed(ctx context.Context, appointment *model.Appointment) {
	n.publish(ctx, EventConfirmed, appointment)
}

func (n *kafkaNotifier) AppointmentCancelled(ctx context.Context, appointment *model.Appointment) {
	n.publish(ctx, EventCancelled, appointment)
}

func (n *kafkaNotifier) Close() error {
	return n.producer.Close()
}

func (n *kafkaNotifier) publish(ctx context.Context, eventType string, appointment *model.Appointment) {
	event := ReservationEvent{Appointment: appointment}

	venue, err := n.venues.FindByID(ctx, appointment.VenueID)
	if err != nil {
		if !errors.Is(err, catalogerrors.ErrNotFound) && !errors.Is(err, catalogerrors.ErrInvalidID) {
			n.log.Warn("Failed to load venue for reservation event",
				"venue_id", appointment.VenueID,
				"error", err,
			)
		}
	} else {
		event.Venue = venue
	}

	msg, err := kafka.NewEvent(appointment.VenueID, eventType, eventSource, event)
	if err != nil {
		n.log.Error("Failed to encode reservation event",
			"event_type", eventType,
			"appointment_id", appointment.ID,
			"error", err,
		)
		return
	}

	if err := n.producer.Publish(ctx, msg); err != nil {
		n.log.Error("Failed to publish reservation event",
			"event_type", eventType,
			"appointment_id", appointment.ID,
			"error", err,
		)
		return
	}

	n.log.Info("Published reservation event",
		"event_type", eventType,
		"appointment_id", appointment.ID,
		"venue_id", appointment.VenueID,
	)
}

type nopNotifier struct{}

// NewNop returns a notifier that drops every event. Used when no Kafka
// brokers are configured.
func NewNop() Notifier {
	return nopNotifier{}
}

func (nopNotifier) AppointmentConfirmed(context.Context, *model.Appointment) {}
func (nopNotifier) AppointmentCancelled(context.Context, *model.Appointment) {}

func (nopNotifier) Close() error { return nil }
