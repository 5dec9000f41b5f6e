package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	cfgpkg "github.com/bitforce/ambassador/pkg/config"
)

func TestNewClient_Unconfigured(t *testing.T) {
	lc := fxtest.NewLifecycle(t)
	require.Nil(t, NewClient(lc, &cfgpkg.Config{}, zap.NewNop().Sugar()))
	require.Nil(t, provideCache(nil))
}

func TestRedis_UnreachableReturnsError(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer client.Close()
	c := NewRedisCache(client, "t:")

	ctx := context.Background()
	_, ok, err := c.Get(ctx, "k")
	require.Error(t, err)
	require.False(t, ok)
	require.Error(t, c.Set(ctx, "k", "v", time.Second))
}
