package config

import (
	"time"

	"github.com/akeren/waitlist-api/pkg/constants"
	"github.com/akeren/waitlist-api/pkg/utils"
)

type WaitlistConfig struct {
	ProductName       string
	EarlyAdopterLimit int
	ReceiptSecret     string
	ReceiptTTL        time.Duration
	StatsSchedule     string

	SignupRateLimitRequests int
	SignupRateLimitWindow   time.Duration

	NotifierWorkers     int
	NotifierQueueSize   int
	NotifierSendTimeout time.Duration
}

func NewWaitlistConfig() *WaitlistConfig {
	return &WaitlistConfig{
		ProductName:             utils.GetEnvTrimmedOrDefault("WAITLIST_PRODUCT_NAME", constants.DefaultProductName),
		EarlyAdopterLimit:       utils.GetEnvPositiveInt("WAITLIST_EARLY_ADOPTER_LIMIT", constants.DefaultEarlyAdopterLimit),
		ReceiptSecret:           utils.GetEnvTrimmed("WAITLIST_RECEIPT_SECRET"),
		ReceiptTTL:              utils.GetEnvPositiveDuration("WAITLIST_RECEIPT_TTL", constants.DefaultReceiptTTL),
		StatsSchedule:           utils.GetEnvTrimmedOrDefault("WAITLIST_STATS_SCHEDULE", constants.DefaultStatsSchedule),
		SignupRateLimitRequests: utils.GetEnvPositiveInt("SIGNUP_RATE_LIMIT_REQUESTS", constants.SignupRateLimitRequests),
		SignupRateLimitWindow:   utils.GetEnvPositiveDuration("SIGNUP_RATE_LIMIT_WINDOW", constants.SignupRateLimitWindow),
		NotifierWorkers:         utils.GetEnvPositiveInt("NOTIFIER_WORKERS", constants.DefaultNotifierWorkers),
		NotifierQueueSize:       utils.GetEnvPositiveInt("NOTIFIER_QUEUE_SIZE", constants.DefaultNotifierQueueSize),
		NotifierSendTimeout:     utils.GetEnvPositiveDuration("NOTIFIER_SEND_TIMEOUT", constants.DefaultNotifierSendTimeout),
	}
}
