package model

import "tably/pkg/timeutil"

// TimeSlot is a recurring weekly operating window for a venue. Candidate
// reservation times are enumerated from StartTime (inclusive) to EndTime
// (exclusive) in StepMinutes increments. Catalog data; read-only here.
type TimeSlot struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VenueID   string `json:"venue_id" bson:"venue_id" validate:"required,mongodb"`
	DayOfWeek int    `json:"day_of_week" bson:"day_of_week" validate:"min=0,max=6"`
	StartTime string `json:"start_time" bson:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" bson:"end_time" validate:"required,clock"`

	// StepMinutes is the granularity of bookable start times within the window.
	StepMinutes int `json:"step_minutes" bson:"step_minutes" validate:"required,min=5,max=240"`

	// MaxReservations caps the number of active appointments sharing one
	// slot-aligned start time.
	MaxReservations int `json:"max_reservations" bson:"max_reservations" validate:"required,min=1"`

	// MaxGuests, when set, caps the cumulative party size at one start time.
	MaxGuests *int `json:"max_guests,omitempty" bson:"max_guests,omitempty" validate:"omitempty,min=1"`

	Active bool `json:"active" bson:"active"`
}

// Contains reports whether a minute offset lies within [start, end).
func (s *TimeSlot) Contains(minutes int) bool {
	start, end := s.Bounds()
	return minutes >= start && minutes < end
}

// Bounds returns the window as minute offsets.
func (s *TimeSlot) Bounds() (start, end int) {
	return timeutil.MinutesOfDay(s.StartTime), timeutil.MinutesOfDay(s.EndTime)
}
