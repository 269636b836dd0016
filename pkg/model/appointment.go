package model

import "time"

// Appointment statuses. Transitions are one-directional; terminal statuses
// are never left.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusSeated    = "seated"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
	StatusNoShow    = "no_show"
)

// Appointment is one reservation binding a venue, a table, a date/time and a
// party. Records are never hard-deleted; cancellation is a status change.
type Appointment struct {
	ID               string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VenueID          string `json:"venue_id" bson:"venue_id" validate:"required,mongodb"`
	TableID          string `json:"table_id,omitempty" bson:"table_id,omitempty" validate:"omitempty,mongodb"`
	UserID           string `json:"user_id" bson:"user_id" validate:"required"`
	Date             string `json:"date" bson:"date" validate:"required,isodate"`
	Time             string `json:"time" bson:"time" validate:"required,clock"`
	DurationMinutes  int    `json:"duration_minutes" bson:"duration_minutes" validate:"omitempty,min=15,max=720"`
	PartySize        int    `json:"party_size" bson:"party_size" validate:"required,min=1,max=100"`
	GuestName        string `json:"guest_name" bson:"guest_name" validate:"required,min=2,max=100"`
	GuestPhone       string `json:"guest_phone" bson:"guest_phone" validate:"omitempty,e164"`
	GuestEmail       string `json:"guest_email,omitempty" bson:"guest_email,omitempty" validate:"omitempty,email"`
	SpecialRequests  string `json:"special_requests,omitempty" bson:"special_requests,omitempty" validate:"omitempty,max=500"`
	Status           string `json:"status" bson:"status" validate:"required,oneof=pending confirmed seated completed cancelled no_show"`
	ConfirmationCode string `json:"confirmation_code,omitempty" bson:"confirmation_code,omitempty"`

	// Active mirrors the status so the storage layer can keep a partial
	// unique index on (venue, table, date, time) over occupying records.
	Active bool `json:"-" bson:"active"`

	CreatedAt          time.Time  `json:"created_at" bson:"created_at"`
	ConfirmedAt        *time.Time `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty"`
	SeatedAt           *time.Time `json:"seated_at,omitempty" bson:"seated_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CancelledAt        *time.Time `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
	CancellationReason string     `json:"cancellation_reason,omitempty" bson:"cancellation_reason,omitempty"`
}

// activeStatuses are the statuses that occupy a table.
var activeStatuses = map[string]bool{
	StatusPending:   true,
	StatusConfirmed: true,
	StatusSeated:    true,
}

// allowedTransitions encodes the one-directional status lifecycle.
var allowedTransitions = map[string][]string{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusSeated, StatusCancelled, StatusNoShow},
	StatusSeated:    {StatusCompleted, StatusCancelled},
}

// IsActiveStatus reports whether status counts toward table occupancy and
// slot capacity.
func IsActiveStatus(status string) bool {
	return activeStatuses[status]
}

func (a *Appointment) IsActive() bool {
	return IsActiveStatus(a.Status)
}

// IsTerminal reports whether the appointment reached a final status.
func (a *Appointment) IsTerminal() bool {
	switch a.Status {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo reports whether the lifecycle permits moving to next.
func (a *Appointment) CanTransitionTo(next string) bool {
	for _, s := range allowedTransitions[a.Status] {
		if s == next {
			return true
		}
	}
	return false
}
