package lineup

import (
	"github.com/matzehuels/bubblerow/pkg/core/order"
	"github.com/matzehuels/bubblerow/pkg/core/packing"
	"github.com/matzehuels/bubblerow/pkg/core/scroll"
	"github.com/matzehuels/bubblerow/pkg/entity"
)

// Layout is the result of a metric change: the sorted order, the per-entity
// geometry and the position the viewport should be centred on.
type Layout struct {
	SortedIDs []int
	Table     packing.Table
	Index     *order.Index

	// CenteredPosition is where the previously centred entity sits now, or
	// the clamped fallback position when it is unknown.
	CenteredPosition int
	CenteredFound    bool
}

// Option configures [ComputeLayout].
type Option func(*config)

type config struct {
	previous    int
	hasPrevious bool
	fallback    int
	packing     []packing.Option
}

// WithPreviousCentered carries the centred entity across a metric change.
func WithPreviousCentered(id int) Option {
	return func(c *config) {
		c.previous = id
		c.hasPrevious = true
	}
}

// WithFallbackPosition sets the position used when no previous entity was
// given or it is absent from the new set. The default is 0.
func WithFallbackPosition(pos int) Option {
	return func(c *config) { c.fallback = pos }
}

// WithReference normalizes scales to the given entity.
func WithReference(id int) Option {
	return func(c *config) { c.packing = append(c.packing, packing.WithReference(id)) }
}

// WithGapRatio sets the proportional packing clearance.
func WithGapRatio(k float64) Option {
	return func(c *config) { c.packing = append(c.packing, packing.WithGapRatio(k)) }
}

// WithFixedGap sets an absolute packing clearance in scale units.
func WithFixedGap(g float64) Option {
	return func(c *config) { c.packing = append(c.packing, packing.WithFixedGap(g)) }
}

// ComputeLayout sorts entities by acc, builds the packing table and
// re-centres the previously centred entity. An empty entity set yields an
// empty layout.
func ComputeLayout(entities []entity.Entity, acc entity.Accessor, opts ...Option) Layout {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	sorted := order.Sort(entities, acc)
	idx := order.NewIndex(sorted, entities)

	l := Layout{
		SortedIDs: sorted,
		Table:     packing.Build(sorted, entities, acc, cfg.packing...),
		Index:     idx,
	}

	if !cfg.hasPrevious {
		if l.Len() > 0 {
			l.CenteredPosition = min(max(cfg.fallback, 0), l.Len()-1)
		}
		return l
	}
	l.CenteredPosition, l.CenteredFound = idx.Recenter(cfg.previous, cfg.fallback)
	return l
}

// Len returns the number of laid-out entities.
func (l Layout) Len() int { return len(l.SortedIDs) }

// CenteredID returns the id at the centred position.
func (l Layout) CenteredID() (int, bool) {
	if l.Index == nil {
		return 0, false
	}
	return l.Index.IDAt(l.CenteredPosition)
}

// Transforms is [TransformsFor] on this layout.
func (l Layout) Transforms(f float64) map[int]scroll.Transform {
	return scroll.Transforms(f, l.SortedIDs, l.Table)
}

// Selected returns the entity logically selected at floating index f.
func (l Layout) Selected(f float64) (int, bool) {
	return scroll.Selected(f, l.SortedIDs)
}

// SortingOffsets returns, per id, the horizontal shift that moves an item
// from its input slot to its sorted slot when slots are spacing apart.
func (l Layout) SortingOffsets(spacing float64) map[int]float64 {
	out := make(map[int]float64, len(l.SortedIDs))
	if l.Index == nil {
		return out
	}
	for _, id := range l.SortedIDs {
		if d, ok := l.Index.Displacement(id); ok {
			out[id] = float64(d) * spacing
		}
	}
	return out
}

// FloatingIndexFromScroll maps a scroll coordinate to a floating index.
func FloatingIndexFromScroll(coordinate, spacing float64, n int) float64 {
	return scroll.FloatingIndex(coordinate, spacing, n)
}

// TransformsFor computes the relative transform of every entity at f.
func TransformsFor(f float64, sorted []int, table packing.Table) map[int]scroll.Transform {
	return scroll.Transforms(f, sorted, table)
}

// ScrollTargetFor returns the scroll coordinate that centres position pos.
func ScrollTargetFor(pos int, spacing float64) float64 {
	return scroll.ScrollTarget(pos, spacing)
}
