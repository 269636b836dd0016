package model

import "time"

// AppointmentLock is an advisory lock serializing the check-then-insert
// window for one venue/date/time. The _id doubles as the lock key, so a
// duplicate-key error on insert means another request holds the slot.
type AppointmentLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
