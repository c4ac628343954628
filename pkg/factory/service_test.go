package factory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/akeren/waitlist-api/pkg/ratelimit"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
)

type pingOnlyCache struct{}

func (pingOnlyCache) Ping(context.Context) error { return nil }

type unreachableRedisCache struct{}

func (unreachableRedisCache) Ping(context.Context) error { return errors.New("connection refused") }
func (unreachableRedisCache) GetClient() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
}

func TestDefaultRateLimiterFactory_FallsBackToInMemory(t *testing.T) {
	cases := map[string]Cache{
		"nil cache":         nil,
		"no redis client":   pingOnlyCache{},
		"unreachable redis": unreachableRedisCache{},
	}

	for name, cache := range cases {
		t.Run(name, func(t *testing.T) {
			f := NewDefaultRateLimiterFactory(30, time.Minute, cache, nil)

			assert.False(t, f.Distributed())
			_, ok := f.CreateRateLimiter().(*ratelimit.InMemoryRateLimiter)
			assert.True(t, ok)
		})
	}
}
