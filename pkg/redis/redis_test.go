package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisCache_RequiresHost(t *testing.T) {
	_, err := NewRedisCache(&Config{})
	require.Error(t, err)

	_, err = NewRedisCache(nil)
	require.Error(t, err)
}

func TestNewRedisCache_FailsFastWhenUnreachable(t *testing.T) {
	_, err := NewRedisCache(&Config{Host: "127.0.0.1", Port: "1", DialTimeout: 200 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}

func TestRedisCache_ExposesClient(t *testing.T) {
	client := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { _ = client.Close() })

	cache := NewRedisCacheFromClient(client)
	assert.Same(t, client, cache.GetClient())

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	assert.Error(t, cache.Ping(ctx))
}
