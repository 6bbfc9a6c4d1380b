package packing

import (
	"math"

	"github.com/matzehuels/bubblerow/pkg/entity"
)

// DefaultGapRatio is the clearance between neighbours as a fraction of the
// smaller radius.
const DefaultGapRatio = 0.1

// Entry is the layout of one entity.
type Entry struct {
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`

	// Bookkeeping for reorder animation; not part of the geometry.
	Position         int `json:"position"`
	OriginalPosition int `json:"original_position"`
}

// Table maps entity ids to their layout entries. A Table is read-only once
// built; a metric change produces a new Table.
type Table map[int]Entry

// Option configures [Build].
type Option func(*config)

type config struct {
	gapRatio     float64
	fixedGap     float64
	referenceID  int
	hasReference bool
}

// WithGapRatio sets the proportional clearance factor k in
// g = min(ra, rb) * k. Negative values are treated as 0.
func WithGapRatio(k float64) Option {
	return func(c *config) { c.gapRatio = max(k, 0) }
}

// WithFixedGap uses an absolute clearance g in scale units instead of the
// proportional one. Values <= 0 restore the proportional gap.
func WithFixedGap(g float64) Option {
	return func(c *config) { c.fixedGap = g }
}

// WithReference normalizes scales so that the entity with the given id has
// scale 1. It has no effect when that entity is absent or has scale 0.
func WithReference(id int) Option {
	return func(c *config) {
		c.referenceID = id
		c.hasReference = true
	}
}

func newConfig(opts []Option) config {
	c := config{gapRatio: DefaultGapRatio}
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) gap(ra, rb float64) float64 {
	if c.fixedGap > 0 {
		return c.fixedGap
	}
	return min(ra, rb) * c.gapRatio
}

// ScaleOf returns the raw scale for a metric value.
func ScaleOf(value float64) float64 {
	if !(value > 0) {
		return 0
	}
	return math.Sqrt(value)
}

// Delta returns the centre-to-centre distance between two baseline-aligned
// circles of diameters a and b with proportional clearance k.
func Delta(a, b, k float64) float64 {
	ra, rb := a/2, b/2
	return distance(ra, rb, min(ra, rb)*max(k, 0))
}

// DeltaWithGap is [Delta] with an absolute clearance g.
func DeltaWithGap(a, b, g float64) float64 {
	return distance(a/2, b/2, max(g, 0))
}

func distance(ra, rb, g float64) float64 {
	// A point has no height to rest against its neighbour's flank, so it
	// sits beside it instead: half the neighbour plus the clearance.
	if ra == 0 || rb == 0 {
		return ra + rb + g
	}
	h := ra + g + rb
	v := ra - rb
	return math.Sqrt(max(h*h-v*v, 0))
}

// Build lays out the sorted ids. entities supplies the values and the
// original input order; ids not present in entities are skipped.
func Build(sorted []int, entities []entity.Entity, acc entity.Accessor, opts ...Option) Table {
	cfg := newConfig(opts)
	if len(sorted) == 0 || len(entities) == 0 {
		return Table{}
	}

	type source struct {
		scale    float64
		original int
	}
	byID := make(map[int]source, len(entities))
	for i, e := range entities {
		byID[e.ID] = source{scale: ScaleOf(acc.ValueOf(e)), original: i}
	}

	norm := 1.0
	if cfg.hasReference {
		if ref, ok := byID[cfg.referenceID]; ok && ref.scale > 0 {
			norm = ref.scale
		}
	}

	table := make(Table, len(sorted))
	var (
		offset   float64
		prev     float64
		position int
	)
	for _, id := range sorted {
		src, ok := byID[id]
		if !ok {
			continue
		}
		scale := src.scale / norm
		if position > 0 {
			ra, rb := prev/2, scale/2
			offset += distance(ra, rb, cfg.gap(ra, rb))
		}
		table[id] = Entry{
			Scale:            scale,
			Offset:           offset,
			Position:         position,
			OriginalPosition: src.original,
		}
		prev = scale
		position++
	}
	return table
}

// Scales returns the scales of sorted in order. Unknown ids yield 0.
func (t Table) Scales(sorted []int) []float64 {
	out := make([]float64, len(sorted))
	for i, id := range sorted {
		out[i] = t[id].Scale
	}
	return out
}

// Offsets returns the packing offsets of sorted in order. Unknown ids yield 0.
func (t Table) Offsets(sorted []int) []float64 {
	out := make([]float64, len(sorted))
	for i, id := range sorted {
		out[i] = t[id].Offset
	}
	return out
}

// Extent returns the distance between the leftmost and rightmost edges of
// the packed row, in scale units.
func (t Table) Extent(sorted []int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	first, last := t[sorted[0]], t[sorted[len(sorted)-1]]
	return last.Offset - first.Offset + first.Scale/2 + last.Scale/2
}
