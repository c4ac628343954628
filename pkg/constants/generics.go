package constants

import "time"

// RFC 3339 date-time format string.
// Use this format for all date-time serialization and communication with external systems.
const RFC3339DateTimeFormat = "2006-01-02T15:04:05Z07:00"

// Default rate limiting configuration
const (
	// DefaultRateLimitRequests is the default number of requests allowed per time window
	DefaultRateLimitRequests = 100
	// DefaultRateLimitWindowMinutes is the default time window for rate limiting
	DefaultRateLimitWindowMinutes = 1
	// SignupRateLimitRequests caps signups per client within SignupRateLimitWindow
	SignupRateLimitRequests = 30
	SignupRateLimitWindow   = time.Minute
)

// Waitlist defaults
const (
	DefaultProductName       = "BodyForgr"
	DefaultEarlyAdopterLimit = 100
	DefaultReceiptTTL        = 15 * time.Minute
	DefaultStatsSchedule     = "@every 1m"
)

// Notifier defaults
const (
	DefaultNotifierWorkers     = 2
	DefaultNotifierQueueSize   = 256
	DefaultNotifierSendTimeout = 15 * time.Second
	DefaultMailFrom            = "noreply@bodyforgr.com"
	DefaultSMTPPort            = 587
)

// DefaultRateLimitWindow returns the default rate limit window duration
func DefaultRateLimitWindow() time.Duration {
	return time.Duration(DefaultRateLimitWindowMinutes) * time.Minute
}
