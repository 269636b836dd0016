package model

import "tably/pkg/timeutil"

// BlockedDate is a closure range during which a venue accepts no
// reservations. Both ends are inclusive. Catalog data; read-only here.
type BlockedDate struct {
	ID        string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VenueID   string `json:"venue_id" bson:"venue_id" validate:"required,mongodb"`
	StartDate string `json:"start_date" bson:"start_date" validate:"required,isodate"`
	EndDate   string `json:"end_date" bson:"end_date" validate:"required,isodate,gtefield=StartDate"`
	Reason    string `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
}

// Covers reports whether the closure includes the given ISO date.
func (b *BlockedDate) Covers(date string) bool {
	return timeutil.DateInRange(date, b.StartDate, b.EndDate)
}
