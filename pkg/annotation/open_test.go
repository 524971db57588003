package annotation

import (
	"context"
	"slices"
	"testing"

	"github.com/matzehuels/a9s/pkg/config"
	"github.com/matzehuels/a9s/pkg/errors"
	"github.com/matzehuels/a9s/pkg/geom"
	"github.com/matzehuels/a9s/pkg/observability"
)

func TestOpenMemoryInstrumented(t *testing.T) {
	hooks := &recordingStoreHooks{}
	observability.SetStoreHooks(hooks)
	t.Cleanup(observability.Reset)

	ctx := context.Background()
	s, err := Open(ctx, config.Store{Backend: config.BackendMemory}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	a := New("a.png", fragment(geom.Rect{W: 1, H: 1}))
	_ = s.Put(ctx, a)
	_, _ = s.Get(ctx, a.ID)
	_, _ = s.List(ctx, "")
	_ = s.Delete(ctx, a.ID)

	want := []string{"memory.put", "memory.get", "memory.list", "memory.delete"}
	if !slices.Equal(hooks.ops, want) {
		t.Errorf("ops = %v, want %v", hooks.ops, want)
	}
}

func TestOpenFile(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(context.Background(), config.Store{Backend: config.BackendFile, Path: dir}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testStore(t, s)
}

func TestOpenFileDefaultDir(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	s, err := Open(context.Background(), config.Store{Backend: config.BackendFile}, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	_ = s.Close()
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), config.Store{Backend: "sqlite"}, nil)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestOpenRedisUnreachable(t *testing.T) {
	cfg := config.Default().Store
	cfg.Backend = config.BackendRedis
	cfg.RedisAddr = "127.0.0.1:1"
	cfg.ConnectRetries = 0

	_, err := Open(context.Background(), cfg, nil)
	if !errors.Is(err, errors.ErrCodeStore) {
		t.Errorf("err = %v, want STORE_ERROR", err)
	}
}
