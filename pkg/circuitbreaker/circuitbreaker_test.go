package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

var errSend = errors.New("smtp: 421 service not available")

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}

	var transitions []string
	cb := newCircuitBreaker(&Config{
		Name:             "mailer",
		FailureThreshold: 2,
		RecoveryTimeout:  time.Minute,
		OnStateChange: func(name string, from, to CircuitState) {
			transitions = append(transitions, name+":"+from.String()+"->"+to.String())
		},
	}, clock.Now)

	assert.ErrorIs(t, cb.Call(func() error { return errSend }), errSend)
	assert.Equal(t, Closed, cb.State())

	assert.ErrorIs(t, cb.Call(func() error { return errSend }), errSend)
	assert.Equal(t, Open, cb.State())

	called := false
	err := cb.Call(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called)

	assert.Equal(t, []string{"mailer:closed->open"}, transitions)
}

func TestCircuitBreaker_RecoversThroughHalfOpen(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cb := newCircuitBreaker(&Config{FailureThreshold: 1, RecoveryTimeout: time.Minute, SuccessThreshold: 1}, clock.Now)

	_ = cb.Call(func() error { return errSend })
	assert.Equal(t, Open, cb.State())

	clock.now = clock.now.Add(time.Minute)
	assert.NoError(t, cb.Call(func() error { return nil }))
	assert.Equal(t, Closed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	cb := newCircuitBreaker(&Config{FailureThreshold: 1, RecoveryTimeout: time.Minute}, clock.Now)

	_ = cb.Call(func() error { return errSend })
	clock.now = clock.now.Add(2 * time.Minute)

	_ = cb.Call(func() error { return errSend })
	m := cb.Metrics()
	assert.Equal(t, Open, m.State)
	assert.Equal(t, clock.now.Add(time.Minute), m.NextAttempt)
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(&Config{FailureThreshold: 1})
	_ = cb.Call(func() error { return errSend })

	cb.Reset()

	assert.Equal(t, Closed, cb.State())
	assert.Zero(t, cb.Metrics().FailureCount)
}
