package cache

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/fx"
	"go.uber.org/zap"

	cfgpkg "github.com/bitforce/ambassador/pkg/config"
)

// Cache is a string key/value store with expiry. A miss returns ok=false and a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type Redis struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

func (r *Redis) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// NewClient connects to Redis when redis.addr is configured. It returns nil
// (no cache) when unconfigured or unreachable at startup.
func NewClient(lc fx.Lifecycle, cfg *cfgpkg.Config, log *zap.SugaredLogger) *redis.Client {
	if cfg.Redis.Addr == "" {
		log.Infow("redis not configured, caching disabled")
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		MaxRetries:   2,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Warnw("redis connection failed, caching disabled", "addr", cfg.Redis.Addr, "err", err)
		_ = client.Close()
		return nil
	}
	log.Infow("connected to redis", "addr", cfg.Redis.Addr)
	lc.Append(fx.Hook{OnStop: func(context.Context) error { return client.Close() }})
	return client
}

// provideCache wraps the client; nil client means no cache.
func provideCache(client *redis.Client) Cache {
	if client == nil {
		return nil
	}
	return NewRedisCache(client, "bitforce:")
}

var Module = fx.Options(
	fx.Provide(NewClient, provideCache),
)
