package observability

import (
	"context"
	"sync"
	"time"
)

// Recorder counts events in memory. It implements every hook interface and
// backs the server's /stats endpoint.
type Recorder struct {
	mu       sync.Mutex
	counts   map[string]int64
	statuses map[int]int64
	layout   time.Duration
}

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{counts: make(map[string]int64), statuses: make(map[int]int64)}
}

// Stats is a point-in-time copy of a Recorder.
type Stats struct {
	Counts           map[string]int64 `json:"counts"`
	Statuses         map[int]int64    `json:"statuses"`
	LayoutTimeMillis float64          `json:"layout_time_ms"`
}

// Stats copies the current counters.
func (r *Recorder) Stats() Stats {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := Stats{
		Counts:           make(map[string]int64, len(r.counts)),
		Statuses:         make(map[int]int64, len(r.statuses)),
		LayoutTimeMillis: float64(r.layout) / float64(time.Millisecond),
	}
	for k, v := range r.counts {
		s.Counts[k] = v
	}
	for k, v := range r.statuses {
		s.Statuses[k] = v
	}
	return s
}

// Count returns a single counter.
func (r *Recorder) Count(name string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counts[name]
}

func (r *Recorder) inc(names ...string) {
	r.mu.Lock()
	for _, n := range names {
		r.counts[n]++
	}
	r.mu.Unlock()
}

func (r *Recorder) OnLayoutStart(context.Context, string, int) { r.inc("layout.start") }

func (r *Recorder) OnLayoutComplete(_ context.Context, metric string, cached bool, d time.Duration, err error) {
	switch {
	case err != nil:
		r.inc("layout.error")
	case cached:
		r.inc("layout.cached", "layout."+metric)
	default:
		r.inc("layout.computed", "layout."+metric)
	}
	r.mu.Lock()
	r.layout += d
	r.mu.Unlock()
}

func (r *Recorder) OnRenderStart(_ context.Context, format string) { r.inc("render." + format) }

func (r *Recorder) OnRenderComplete(_ context.Context, _ string, _ int, _ time.Duration, err error) {
	if err != nil {
		r.inc("render.error")
	}
}

func (r *Recorder) OnCacheHit(_ context.Context, keyType string)  { r.inc("cache.hit." + keyType) }
func (r *Recorder) OnCacheMiss(_ context.Context, keyType string) { r.inc("cache.miss." + keyType) }
func (r *Recorder) OnCacheSet(_ context.Context, keyType string, _ int) {
	r.inc("cache.set." + keyType)
}

func (r *Recorder) OnRequest(context.Context, string, string) { r.inc("http.request") }

func (r *Recorder) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	r.mu.Lock()
	r.statuses[status]++
	r.mu.Unlock()
}

func (r *Recorder) OnSessionCreated(context.Context, string) { r.inc("session.created") }
func (r *Recorder) OnSessionExpired(context.Context, string) { r.inc("session.expired") }

var (
	_ PipelineHooks = (*Recorder)(nil)
	_ CacheHooks    = (*Recorder)(nil)
	_ ServerHooks   = (*Recorder)(nil)
)
