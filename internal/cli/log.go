package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dotplot/pkg/observability"
)

// newLogger creates a logger with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered sales.csv (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// logHooks reports pipeline and cache events at debug level.
type logHooks struct {
	logger *log.Logger
}

var (
	_ observability.RenderHooks = (*logHooks)(nil)
	_ observability.CacheHooks  = (*logHooks)(nil)
)

func (h *logHooks) OnRenderStarted(_ context.Context, id string) {
	h.logger.Debug("update started", "id", short(id))
}

func (h *logHooks) OnStageComplete(_ context.Context, id, stage string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("stage failed", "id", short(id), "stage", stage, "duration", d, "err", err)
		return
	}
	h.logger.Debug("stage complete", "id", short(id), "stage", stage, "duration", d)
}

func (h *logHooks) OnRenderFinished(_ context.Context, id string, points int, d time.Duration) {
	h.logger.Debug("update finished", "id", short(id), "points", points, "duration", d)
}

func (h *logHooks) OnRenderFailed(_ context.Context, id string, err error) {
	h.logger.Debug("update failed", "id", short(id), "err", err)
}

func (h *logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("cache hit", "format", keyType)
}

func (h *logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("cache miss", "format", keyType)
}

func (h *logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("cache write", "format", keyType, "bytes", size)
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
