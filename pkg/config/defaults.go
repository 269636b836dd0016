package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "tably"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRateLimitRequests = 30
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// DefaultDefaultDurationMinutes is applied when a creation request
	// carries no explicit duration.
	DefaultDefaultDurationMinutes = 120

	// DefaultSlotLockTTL bounds how long an abandoned advisory lock can
	// block a venue/date/time slot.
	DefaultSlotLockTTL = 10 * time.Second

	DefaultNotificationTopic   = "reservation-events"
	DefaultNotificationTimeout = 5 * time.Second

	DefaultPaginationLimit = 100
)
