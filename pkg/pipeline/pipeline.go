// Package pipeline runs the load → layout → frame → render sequence that the
// CLI and the HTTP server share.
//
// The layout engine in [lineup] is pure and never caches. This package is
// the caller-side memoization layer: a [Runner] keys computed layouts on a
// content hash of the entity set plus the layout options and stores them
// in a [cache.Cache]. The previously centred entity is deliberately left
// out of the key; re-centring is a cheap lookup applied after every cache
// hit.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Layout(ctx, entities, pipeline.Options{Metric: "turnover"})
//	if err != nil {
//	    return err
//	}
//	fr := res.Frame(coord, spacing)
//	svg, _, err := runner.Render(ctx, res, fr, pipeline.RenderOptions{Format: "svg"})
//
// [Runner.Execute] runs every stage in one call.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/bubblerow/pkg/cache"
	"github.com/matzehuels/bubblerow/pkg/core/packing"
	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/errors"
	"github.com/matzehuels/bubblerow/pkg/lineup"
	"github.com/matzehuels/bubblerow/pkg/sink"
)

// Defaults shared by the CLI, the server and the config package.
const (
	DefaultMetric   = entity.Persons
	DefaultSpacing  = 96.0
	DefaultGapRatio = packing.DefaultGapRatio
	DefaultFormat   = sink.FormatSVG
)

// Options configures layout computation. It doubles as the JSON body of
// the server's POST /layout.
type Options struct {
	Metric           string  `json:"metric,omitempty"`
	PreviousCentered *int    `json:"previous_centered_id,omitempty"`
	Reference        *int    `json:"reference_id,omitempty"`
	GapRatio         float64 `json:"gap_ratio,omitempty"`
	FixedGap         float64 `json:"fixed_gap,omitempty"`
	Refresh          bool    `json:"refresh,omitempty"`

	// Data source; see [Load].
	DataPath string          `json:"-"`
	Entities []entity.Entity `json:"entities,omitempty"`

	Logger *log.Logger `json:"-"`

	metric    entity.Metric
	validated bool
}

// ValidateAndSetDefaults parses the metric and checks numeric options. It
// is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Metric == "" {
		o.Metric = string(DefaultMetric)
	}
	m, err := entity.ParseMetric(o.Metric)
	if err != nil {
		return err
	}
	o.metric = m
	o.Metric = string(m)

	if o.GapRatio == 0 {
		o.GapRatio = DefaultGapRatio
	}
	if err := errors.ValidateGapRatio(o.GapRatio); err != nil {
		return err
	}
	if err := errors.ValidateFixedGap(o.FixedGap); err != nil {
		return err
	}
	if o.DataPath != "" {
		if err := errors.ValidatePath(o.DataPath); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// ParsedMetric returns the metric after validation.
func (o *Options) ParsedMetric() entity.Metric { return o.metric }

// LayoutKeyOpts returns the cache key inputs. The centred entity is not
// part of the key.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Metric:    o.Metric,
		Reference: o.Reference,
		GapRatio:  o.GapRatio,
		FixedGap:  o.FixedGap,
	}
}

func (o *Options) lineupOptions() []lineup.Option {
	opts := []lineup.Option{lineup.WithGapRatio(o.GapRatio)}
	if o.FixedGap > 0 {
		opts = append(opts, lineup.WithFixedGap(o.FixedGap))
	}
	if o.Reference != nil {
		opts = append(opts, lineup.WithReference(*o.Reference))
	}
	return opts
}

// RenderOptions configures frame rendering.
type RenderOptions struct {
	Format string  `json:"format,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Unit   float64 `json:"unit,omitempty"`
	Labels bool    `json:"labels,omitempty"`

	// MaxScale caps drawn bubbles, 0 using [sink.MaxDrawScale]. Zoom is the
	// PNG raster factor, 0 keeping the converter default of 2.
	MaxScale float64 `json:"max_scale,omitempty"`
	Zoom     float64 `json:"zoom,omitempty"`
}

// ValidateAndSetDefaults fills in the format and checks it is supported.
func (o *RenderOptions) ValidateAndSetDefaults() error {
	if o.Format == "" {
		o.Format = DefaultFormat
	}
	if o.Zoom < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "zoom must not be negative (got %g)", o.Zoom)
	}
	return ValidateFormat(o.Format)
}

// ValidateFormat checks that format is one of [sink.Formats].
func ValidateFormat(format string) error {
	for _, f := range sink.Formats {
		if f == format {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: svg, json, png, pdf)", format)
}

func (o *RenderOptions) svgOptions(captions map[int]string) []sink.SVGOption {
	opts := []sink.SVGOption{
		sink.WithSize(o.Width, o.Height),
		sink.WithUnit(o.Unit),
		sink.WithMaxDrawScale(o.MaxScale),
	}
	if o.Labels {
		opts = append(opts, sink.WithLabels())
		if len(captions) > 0 {
			opts = append(opts, sink.WithCaptions(captions))
		}
	}
	return opts
}

// render draws fr in o.Format. PNG goes through [sink.RenderPNG] so the
// zoom reaches the rasterizer.
func (o *RenderOptions) render(fr lineup.Frame, captions map[int]string) ([]byte, error) {
	svgOpts := o.svgOptions(captions)
	if o.Format == sink.FormatPNG {
		return sink.RenderPNG(fr, sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(o.Zoom))
	}
	return sink.Render(o.Format, fr, svgOpts...)
}

// Result is the output of [Runner.Execute].
type Result struct {
	Layout   *LayoutResult
	Frame    lineup.Frame
	Artifact []byte
	Stats    Stats
}

// Stats records timings and cache hits per stage.
type Stats struct {
	EntityCount int
	LayoutTime  time.Duration
	RenderTime  time.Duration
	LayoutHit   bool
	RenderHit   bool
}
