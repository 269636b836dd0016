package model

// Venue is referenced, not owned, by the scheduling engine. Only the fields
// needed for notification payloads are read here.
type Venue struct {
	ID       string `json:"id,omitempty" bson:"_id,omitempty"`
	Name     string `json:"name" bson:"name"`
	Address  string `json:"address,omitempty" bson:"address,omitempty"`
	Phone    string `json:"phone,omitempty" bson:"phone,omitempty"`
	Timezone string `json:"timezone,omitempty" bson:"timezone,omitempty"`
}
