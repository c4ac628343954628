package domain

import (
	"context"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/config"
	"github.com/akeren/waitlist-api/internal/log"
	"github.com/akeren/waitlist-api/pkg/worker"
	"github.com/stretchr/testify/assert"
)

func TestWaitlistOptions_NilDependenciesStayNil(t *testing.T) {
	opts := WaitlistOptions(&config.ApplicationConfig{Logger: log.NewDiscardLogger()})

	assert.Nil(t, opts.Workers)
	assert.Nil(t, opts.Cache)
	assert.Zero(t, opts.EarlyAdopterLimit)
}

func TestWaitlistOptions_MapsConfiguration(t *testing.T) {
	pool := worker.NewPool(worker.Config{Workers: 1}, nil)
	t.Cleanup(func() { _ = pool.Shutdown(context.Background()) })

	opts := WaitlistOptions(&config.ApplicationConfig{
		Logger:  log.NewDiscardLogger(),
		Workers: pool,
		Waitlist: &config.WaitlistConfig{
			ProductName:             "BodyForgr",
			EarlyAdopterLimit:       50,
			ReceiptTTL:              time.Hour,
			NotifierSendTimeout:     3 * time.Second,
			SignupRateLimitRequests: 5,
			SignupRateLimitWindow:   time.Second,
		},
	})

	assert.Same(t, pool, opts.Workers)
	assert.Equal(t, 50, opts.EarlyAdopterLimit)
	assert.Equal(t, time.Hour, opts.ReceiptTTL)
	assert.Equal(t, 3*time.Second, opts.EmailSendTimeout)
	assert.Equal(t, 5, opts.SignupRateLimitRequests)
}
