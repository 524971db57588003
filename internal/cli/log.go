package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/a9s/pkg/observability"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g.
// "Rendered 12 annotations (4ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// =============================================================================
// Observability Hooks
// =============================================================================

// logHooks reports tool, store and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

// installHooks routes every observability hook to logger.
func installHooks(logger *log.Logger) {
	h := logHooks{logger: logger.WithPrefix("hooks")}
	observability.SetToolHooks(h)
	observability.SetStoreHooks(h)
	observability.SetCacheHooks(h)
}

func (h logHooks) OnDrawStart(tool string) { h.logger.Debug("draw start", "tool", tool) }

func (h logHooks) OnDrawComplete(tool, shape string) {
	h.logger.Debug("draw complete", "tool", tool, "shape", shape)
}

func (h logHooks) OnDrawCancel(tool string) { h.logger.Debug("draw cancel", "tool", tool) }

func (h logHooks) OnGrab(shape, control string) {
	h.logger.Debug("grab", "shape", shape, "control", control)
}

func (h logHooks) OnRelease(shape string) { h.logger.Debug("release", "shape", shape) }

func (h logHooks) OnStoreOp(_ context.Context, backend, op string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("store op failed", "backend", backend, "op", op, "dur", d, "err", err)
		return
	}
	h.logger.Debug("store op", "backend", backend, "op", op, "dur", d)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}
