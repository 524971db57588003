package annotation

import (
	"context"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/a9s/pkg/cache"
	"github.com/matzehuels/a9s/pkg/config"
	"github.com/matzehuels/a9s/pkg/errors"
)

// Open creates the store named by cfg.Backend and wraps it with
// instrumentation. Network backends are pinged, and the connection is
// retried cfg.ConnectRetries times with exponential backoff.
func Open(ctx context.Context, cfg config.Store, logger *log.Logger) (Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	var (
		s   Store
		err error
	)
	switch cfg.Backend {
	case "", config.BackendMemory:
		s = NewMemoryStore()
	case config.BackendFile:
		s, err = openFile(cfg)
	case config.BackendRedis:
		s, err = openRedis(ctx, cfg, logger)
	case config.BackendMongo:
		s, err = openMongo(ctx, cfg, logger)
	default:
		return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown store backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	backend := cfg.Backend
	if backend == "" {
		backend = config.BackendMemory
	}
	logger.Debug("annotation store ready", "backend", backend)
	return Instrument(backend, s), nil
}

func openFile(cfg config.Store) (Store, error) {
	dir := cfg.Path
	if dir == "" {
		data, err := config.DataDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "resolve data dir")
		}
		dir = filepath.Join(data, "annotations")
	}
	return NewFileStore(dir)
}

func openRedis(ctx context.Context, cfg config.Store, logger *log.Logger) (Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.RedisAddr,
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: cfg.ConnectTimeout.Duration,
	})
	err := connect(ctx, cfg, logger, "redis", func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	if err != nil {
		_ = client.Close()
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect redis at %s", cfg.RedisAddr)
	}
	return NewRedisStore(client, ""), nil
}

func openMongo(ctx context.Context, cfg config.Store, logger *log.Logger) (Store, error) {
	var store *MongoStore
	err := connect(ctx, cfg, logger, "mongo", func(ctx context.Context) error {
		s, err := ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
		store = s
		return err
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect mongo database %s", cfg.MongoDatabase)
	}
	return store, nil
}

// connect runs dial with a per-attempt timeout, retrying every failure.
func connect(ctx context.Context, cfg config.Store, logger *log.Logger, backend string, dial func(context.Context) error) error {
	timeout := cfg.ConnectTimeout.Duration
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	b := cache.DefaultBackoff
	b.Attempts = cfg.ConnectRetries + 1
	return b.Do(ctx, func(attempt int) error {
		dctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := dial(dctx); err != nil {
			logger.Warn("store connection failed", "backend", backend, "attempt", attempt, "err", err)
			return cache.Retryable(err)
		}
		return nil
	})
}
