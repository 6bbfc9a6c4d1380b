package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblerow/pkg/cache"
	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/errors"
	"github.com/matzehuels/bubblerow/pkg/lineup"
	"github.com/matzehuels/bubblerow/pkg/observability"
)

// Runner executes pipeline stages with caching. It holds no per-request
// state, so one Runner may serve many goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the per-kind cache TTLs when positive.
	TTL time.Duration
}

// NewRunner fills nil arguments with a null cache, the default keyer and
// the default logger.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// LayoutResult is a computed or cached layout together with the entities
// it was computed from.
type LayoutResult struct {
	Layout   lineup.Layout
	Metric   entity.Metric
	Entities []entity.Entity

	DatasetHash string
	LayoutHash  string
	CacheHit    bool
}

// Snapshot exports the layout for JSON output.
func (r *LayoutResult) Snapshot() lineup.Snapshot {
	return lineup.Export(r.Layout, r.Entities, r.Metric)
}

// Names returns the id to name lookup for frames.
func (r *LayoutResult) Names() map[int]string { return lineup.Names(r.Entities) }

// Captions returns the line drawn under each label: the daily turnover when
// the row is sorted by turnover, nil otherwise.
func (r *LayoutResult) Captions() map[int]string {
	if r.Metric != entity.Turnover {
		return nil
	}
	out := make(map[int]string, len(r.Entities))
	for _, e := range r.Entities {
		out[e.ID] = strconv.FormatFloat(e.DailyTurnover(), 'f', 2, 64) + " per day"
	}
	return out
}

// Frame computes the frame at scroll coordinate coord.
func (r *LayoutResult) Frame(coord, spacing float64) lineup.Frame {
	return lineup.NewFrame(r.Layout, coord, spacing, r.Names())
}

// FrameAt computes the frame at floating index f.
func (r *LayoutResult) FrameAt(f, spacing float64) lineup.Frame {
	return lineup.NewFrameAt(r.Layout, f, spacing, r.Names())
}

// Recenter moves the centred position onto id, or to position 0 when id
// is nil or absent.
func (r *LayoutResult) Recenter(id *int) {
	if id == nil {
		r.Layout.CenteredPosition, r.Layout.CenteredFound = 0, false
		return
	}
	r.Layout.CenteredPosition, r.Layout.CenteredFound = r.Layout.Index.Recenter(*id, 0)
}

// Layout computes the layout of entities, consulting the cache unless
// opts.Refresh is set.
func (r *Runner) Layout(ctx context.Context, entities []entity.Entity, opts Options) (*LayoutResult, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	m := opts.ParsedMetric()

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, string(m), len(entities))
	start := time.Now()

	res, err := r.layout(ctx, entities, m, &opts)
	if err != nil {
		hooks.OnLayoutComplete(ctx, string(m), false, time.Since(start), err)
		return nil, err
	}
	res.Recenter(opts.PreviousCentered)

	hooks.OnLayoutComplete(ctx, string(m), res.CacheHit, time.Since(start), nil)
	r.Logger.Debug("layout ready",
		"metric", m,
		"entities", len(entities),
		"cached", res.CacheHit,
		"centered", res.Layout.CenteredPosition)
	return res, nil
}

func (r *Runner) layout(ctx context.Context, entities []entity.Entity, m entity.Metric, opts *Options) (*LayoutResult, error) {
	datasetHash, err := cache.HashJSON(entities)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "hash dataset")
	}
	key := r.Keyer.LayoutKey(datasetHash, opts.LayoutKeyOpts())
	res := &LayoutResult{Metric: m, Entities: entities, DatasetHash: datasetHash}

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if l, err := decodeLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				res.Layout = l
				res.LayoutHash = cache.Hash(data)
				res.CacheHit = true
				return res, nil
			}
			r.Logger.Debug("discarding unreadable cached layout", "key", key)
		} else if err != nil {
			r.Logger.Warn("layout cache unavailable", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	res.Layout = lineup.ComputeLayout(entities, m, opts.lineupOptions()...)

	data, err := json.Marshal(lineup.Export(res.Layout, entities, m))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode layout")
	}
	res.LayoutHash = cache.Hash(data)
	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLLayout)); err != nil {
		r.Logger.Warn("failed to cache layout", "err", err)
	} else {
		observability.Cache().OnCacheSet(ctx, "layout", len(data))
	}
	return res, nil
}

func decodeLayout(data []byte) (lineup.Layout, error) {
	snap, err := lineup.ReadSnapshot(bytes.NewReader(data))
	if err != nil {
		return lineup.Layout{}, err
	}
	return lineup.Parse(snap)
}

// Render produces the artifact for fr. The boolean reports a cache hit.
func (r *Runner) Render(ctx context.Context, res *LayoutResult, fr lineup.Frame, opts RenderOptions) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	key := r.Keyer.ArtifactKey(res.LayoutHash, cache.ArtifactKeyOpts{
		Format:   opts.Format,
		Index:    fr.Index,
		Spacing:  fr.Spacing,
		Width:    opts.Width,
		Height:   opts.Height,
		Unit:     opts.Unit,
		Labels:   opts.Labels,
		MaxScale: opts.MaxScale,
		Zoom:     opts.Zoom,
	})
	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return data, true, nil
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Format)
	start := time.Now()

	data, err := opts.render(fr, res.Captions())
	hooks.OnRenderComplete(ctx, opts.Format, len(data), time.Since(start), err)
	if err != nil {
		return nil, false, fmt.Errorf("render %s: %w", opts.Format, err)
	}

	if err := r.Cache.Set(ctx, key, data, r.ttl(cache.TTLArtifact)); err == nil {
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return data, false, nil
}

// FrameOptions chooses the frame position. Index wins over Coordinate;
// with neither, the frame is taken at the centred position.
type FrameOptions struct {
	Index      *float64
	Coordinate *float64
	Spacing    float64
}

// Frame computes the frame chosen by opts.
func (r *Runner) Frame(res *LayoutResult, opts FrameOptions) (lineup.Frame, error) {
	if opts.Spacing == 0 {
		opts.Spacing = DefaultSpacing
	}
	if err := errors.ValidateSpacing(opts.Spacing); err != nil {
		return lineup.Frame{}, err
	}
	switch {
	case opts.Index != nil:
		return res.FrameAt(*opts.Index, opts.Spacing), nil
	case opts.Coordinate != nil:
		return res.Frame(*opts.Coordinate, opts.Spacing), nil
	default:
		return res.FrameAt(float64(res.Layout.CenteredPosition), opts.Spacing), nil
	}
}

// Execute loads entities, computes the layout, takes a frame and renders
// it.
func (r *Runner) Execute(ctx context.Context, opts Options, fopts FrameOptions, ropts RenderOptions) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	if err := ropts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	entities, err := Load(opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result := &Result{Stats: Stats{EntityCount: len(entities)}}

	layoutStart := time.Now()
	res, err := r.Layout(ctx, entities, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = res
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.LayoutHit = res.CacheHit

	r.Logger.Info("computed layout",
		"entities", len(entities),
		"metric", res.Metric,
		"cached", res.CacheHit,
		"duration", result.Stats.LayoutTime)

	fr, err := r.Frame(res, fopts)
	if err != nil {
		return nil, fmt.Errorf("frame: %w", err)
	}
	result.Frame = fr

	renderStart := time.Now()
	data, hit, err := r.Render(ctx, res, fr, ropts)
	if err != nil {
		return nil, err
	}
	result.Artifact = data
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.RenderHit = hit

	r.Logger.Info("rendered frame",
		"format", ropts.Format,
		"index", fr.Index,
		"bytes", len(data),
		"duration", result.Stats.RenderTime)
	return result, nil
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
