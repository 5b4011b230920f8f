package domain

import "time"

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetStorageBucket() string

	GetMetagenBaseURL() string
	GetMetagenUsername() string
	GetMetagenPassword() string
	GetMetagenTimeout() time.Duration
	IsMetagenEnabled() bool
}

// Scheduler dispatches processing runs for document records. Enqueue is safe
// to call multiple times for the same record; the job's own status guard
// keeps redelivery from double-submitting.
type Scheduler interface {
	Enqueue(recordID string)
	EnqueueAfter(recordID string, attempt int, delay time.Duration)
}

// RetryPolicy decides whether and when a failed processing run is attempted
// again. Attempt numbers start at 1.
type RetryPolicy interface {
	MaxAttempts() int
	Delay(attempt int) time.Duration
}
