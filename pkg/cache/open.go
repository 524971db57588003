package cache

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/a9s/pkg/config"
	"github.com/matzehuels/a9s/pkg/errors"
)

// Open creates the cache named by cfg.Cache.Backend, wrapped with Observed.
// The Redis backend shares the connection settings of the Redis store. An
// unreachable Redis degrades to a NullCache with a warning, since the
// cache only ever saves work.
func Open(ctx context.Context, cfg config.Config, logger *log.Logger) (Cache, error) {
	if logger == nil {
		logger = log.Default()
	}

	var c Cache
	switch cfg.Cache.Backend {
	case config.BackendNone:
		c = NewNullCache()
	case "", config.BackendFile:
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := config.CacheDir()
			if err != nil {
				logger.Warn("cache disabled", "err", err)
				return Observed(NewNullCache()), nil
			}
			dir = d
		}
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open cache dir %s", dir)
		}
		c = fc
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:        cfg.Store.RedisAddr,
			Password:    cfg.Store.RedisPassword,
			DB:          cfg.Store.RedisDB,
			DialTimeout: cfg.Store.ConnectTimeout.Duration,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			logger.Warn("redis cache unreachable, caching disabled", "addr", cfg.Store.RedisAddr, "err", err)
			c = NewNullCache()
		} else {
			c = NewRedisCache(client, "a9s:cache:")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", cfg.Cache.Backend)
	}
	logger.Debug("cache ready", "backend", cfg.Cache.Backend)
	return Observed(c), nil
}
