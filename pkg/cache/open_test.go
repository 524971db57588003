package cache

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/a9s/pkg/config"
	"github.com/matzehuels/a9s/pkg/errors"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()

	cfg := config.Default()
	cfg.Cache.Dir = t.TempDir()
	c, err := Open(ctx, cfg, nil)
	if err != nil {
		t.Fatalf("Open(file): %v", err)
	}
	if err := c.Set(ctx, "render:k", []byte("v"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if data, ok, _ := c.Get(ctx, "render:k"); !ok || string(data) != "v" {
		t.Errorf("Get = %q, %v", data, ok)
	}

	cfg.Cache.Backend = config.BackendNone
	c, _ = Open(ctx, cfg, nil)
	_ = c.Set(ctx, "render:k", []byte("v"), 0)
	if _, ok, _ := c.Get(ctx, "render:k"); ok {
		t.Error("none backend returned a hit")
	}

	cfg.Cache.Backend = "memcached"
	if _, err := Open(ctx, cfg, nil); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("Open(memcached) err = %v", err)
	}
}

func TestOpenRedisUnreachableDegrades(t *testing.T) {
	cfg := config.Default()
	cfg.Cache.Backend = config.BackendRedis
	cfg.Store.RedisAddr = "127.0.0.1:1"
	cfg.Store.ConnectTimeout = config.Duration{Duration: 100 * time.Millisecond}

	c, err := Open(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok, err := c.Get(context.Background(), "render:x"); ok || err != nil {
		t.Errorf("Get = %v, %v; want a quiet miss", ok, err)
	}
}
