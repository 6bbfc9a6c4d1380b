// Package observability provides hooks for metrics, tracing and logging.
//
// Libraries emit events through the registered hooks; main decides what
// receives them. The defaults do nothing, so instrumentation costs nothing
// until something is registered:
//
//	func main() {
//	    rec := observability.NewRecorder()
//	    observability.SetPipelineHooks(rec)
//	    observability.SetCacheHooks(rec)
//	    observability.SetServerHooks(rec)
//	    // ... run application
//	}
//
// Libraries call hooks around the work they do:
//
//	observability.Pipeline().OnLayoutStart(ctx, metric, len(entities))
//	// ... compute ...
//	observability.Pipeline().OnLayoutComplete(ctx, metric, cached, time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives events from layout computation and rendering.
type PipelineHooks interface {
	OnLayoutStart(ctx context.Context, metric string, entityCount int)
	OnLayoutComplete(ctx context.Context, metric string, cached bool, duration time.Duration, err error)
	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is "layout" or
// "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// ServerHooks receives events from the HTTP server. route is the chi route
// pattern, not the raw path.
type ServerHooks interface {
	OnRequest(ctx context.Context, method, route string)
	OnResponse(ctx context.Context, method, route string, status int, duration time.Duration)
	OnSessionCreated(ctx context.Context, id string)
	OnSessionExpired(ctx context.Context, id string)
}

// NoopPipelineHooks ignores every event.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                           {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, bool, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, string)                                {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, string, int, time.Duration, error)  {}

// NoopCacheHooks ignores every event.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopServerHooks ignores every event.
type NoopServerHooks struct{}

func (NoopServerHooks) OnRequest(context.Context, string, string)                      {}
func (NoopServerHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopServerHooks) OnSessionCreated(context.Context, string)                       {}
func (NoopServerHooks) OnSessionExpired(context.Context, string)                       {}

var (
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	serverHooks   ServerHooks   = NoopServerHooks{}
	hooksMu       sync.RWMutex
)

// SetPipelineHooks registers pipeline hooks. nil is ignored.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// SetCacheHooks registers cache hooks. nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetServerHooks registers server hooks. nil is ignored.
func SetServerHooks(h ServerHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		serverHooks = h
	}
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Server returns the registered server hooks.
func Server() ServerHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return serverHooks
}

// Reset restores the no-op defaults.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pipelineHooks = NoopPipelineHooks{}
	cacheHooks = NoopCacheHooks{}
	serverHooks = NoopServerHooks{}
}
