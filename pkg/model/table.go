package model

// Table is a bookable resource with a capacity range. Catalog data;
// read-only here.
type Table struct {
	ID          string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	VenueID     string `json:"venue_id" bson:"venue_id" validate:"required,mongodb"`
	Label       string `json:"label" bson:"label" validate:"required,min=1,max=50"`
	MinCapacity int    `json:"min_capacity" bson:"min_capacity" validate:"required,min=1"`
	MaxCapacity int    `json:"max_capacity" bson:"max_capacity" validate:"required,gtefield=MinCapacity"`
	Reservable  bool   `json:"reservable" bson:"reservable"`
	Active      bool   `json:"active" bson:"active"`

	// PremiumSurcharge orders equally sized tables: cheapest first.
	PremiumSurcharge float64 `json:"premium_surcharge" bson:"premium_surcharge" validate:"min=0"`

	// Position is the final tie-break between otherwise equal tables.
	Position int `json:"position" bson:"position"`
}

// Fits reports whether a party size falls in the table's capacity range.
func (t *Table) Fits(partySize int) bool {
	return partySize >= t.MinCapacity && partySize <= t.MaxCapacity
}
