package myredis

import (
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisUniversalClient(t *testing.T) {
	t.Run("valid URL returns client", func(t *testing.T) {
		client, err := NewRedisUniversalClient("redis://localhost:6379/2")
		require.NoError(t, err)
		require.NotNil(t, client)
		defer client.Close()
	})

	t.Run("invalid URL returns error", func(t *testing.T) {
		client, err := NewRedisUniversalClient("://invalid")
		require.Error(t, err)
		assert.Nil(t, client)
	})

	t.Run("options are applied", func(t *testing.T) {
		opts, err := redis.ParseURL("redis://localhost:6379/2")
		require.NoError(t, err)
		WithTimeouts(time.Second, 2*time.Second)(opts)
		got := universalOptions(opts)
		assert.Equal(t, []string{"localhost:6379"}, got.Addrs)
		assert.Equal(t, 2, got.DB)
		assert.Equal(t, time.Second, got.DialTimeout)
		assert.Equal(t, 2*time.Second, got.ReadTimeout)
		assert.Equal(t, 2*time.Second, got.WriteTimeout)
	})
}
