package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "seatplan"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "INFO"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 10

	DefaultBookingEventsTopic    = "bookings.events"
	DefaultBookingEventsDLQTopic = "bookings.events.dlq"
	DefaultConsumerGroup         = "seatplan-refresh"

	// Long-poll wait for the changes endpoint and the window over which
	// rapid-fire change events collapse into one refresh signal.
	DefaultChangePollTimeout  = 25 * time.Second
	DefaultCoalesceWindow     = 250 * time.Millisecond
	DefaultServiceDayStart    = "09:00"
	DefaultServiceDayEnd      = "19:00"
	DefaultBookingDurationMin = 90
)
