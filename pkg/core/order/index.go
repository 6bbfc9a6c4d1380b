package order

import (
	"slices"

	"github.com/matzehuels/bubblerow/pkg/entity"
)

// Index is an immutable bidirectional mapping for one sorted sequence.
// The zero value is an empty index.
type Index struct {
	sorted   []int
	position map[int]int
	original map[int]int
}

// NewIndex builds the lookups for sorted. entities supplies the original
// input order; ids in sorted that are missing from entities have no
// original position.
func NewIndex(sorted []int, entities []entity.Entity) *Index {
	idx := &Index{
		sorted:   slices.Clone(sorted),
		position: make(map[int]int, len(sorted)),
		original: make(map[int]int, len(entities)),
	}
	for i, id := range sorted {
		idx.position[id] = i
	}
	for i, e := range entities {
		idx.original[e.ID] = i
	}
	return idx
}

// Build sorts entities by acc and indexes the result.
func Build(entities []entity.Entity, acc entity.Accessor) *Index {
	return NewIndex(Sort(entities, acc), entities)
}

// Len returns the number of sorted positions.
func (x *Index) Len() int { return len(x.sorted) }

// IDs returns a copy of the sorted id sequence.
func (x *Index) IDs() []int { return slices.Clone(x.sorted) }

// PositionOf returns the 0-based sorted position of id.
func (x *Index) PositionOf(id int) (int, bool) {
	p, ok := x.position[id]
	return p, ok
}

// IDAt returns the id at sorted position pos.
func (x *Index) IDAt(pos int) (int, bool) {
	if pos < 0 || pos >= len(x.sorted) {
		return 0, false
	}
	return x.sorted[pos], true
}

// OriginalPositionOf returns the position of id in the input sequence.
func (x *Index) OriginalPositionOf(id int) (int, bool) {
	p, ok := x.original[id]
	return p, ok
}

// Displacement returns how many slots id moved between input order and
// sorted order. Positive values moved right.
func (x *Index) Displacement(id int) (int, bool) {
	s, ok := x.position[id]
	if !ok {
		return 0, false
	}
	o, ok := x.original[id]
	if !ok {
		return 0, false
	}
	return s - o, true
}

// Recenter re-expresses the centred entity in this index. It returns the
// new position of centeredID. When centeredID is unknown here, fallback is
// clamped into range and returned with ok=false; an empty index yields 0.
func (x *Index) Recenter(centeredID int, fallback int) (pos int, ok bool) {
	if p, found := x.position[centeredID]; found {
		return p, true
	}
	if len(x.sorted) == 0 {
		return 0, false
	}
	return min(max(fallback, 0), len(x.sorted)-1), false
}
