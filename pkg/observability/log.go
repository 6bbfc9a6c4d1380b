package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
// The CLI registers it when --verbose is set.
type LogHooks struct {
	Logger *log.Logger
}

func (h LogHooks) OnLayoutStart(_ context.Context, metric string, n int) {
	h.Logger.Debug("layout start", "metric", metric, "entities", n)
}

func (h LogHooks) OnLayoutComplete(_ context.Context, metric string, cached bool, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("layout failed", "metric", metric, "err", err)
		return
	}
	h.Logger.Debug("layout done", "metric", metric, "cached", cached, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnRenderStart(_ context.Context, format string) {
	h.Logger.Debug("render start", "format", format)
}

func (h LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Debug("render failed", "format", format, "err", err)
		return
	}
	h.Logger.Debug("render done", "format", format, "bytes", size, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

var (
	_ PipelineHooks = LogHooks{}
	_ CacheHooks    = LogHooks{}
)
