package lineup

import (
	"encoding/json"
	"io"

	"github.com/matzehuels/bubblerow/pkg/core/order"
	"github.com/matzehuels/bubblerow/pkg/core/packing"
	"github.com/matzehuels/bubblerow/pkg/core/scroll"
	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/errors"
)

// Snapshot is the serializable form of a [Layout]. Items appear in sorted
// order.
type Snapshot struct {
	Metric           string         `json:"metric"`
	CenteredPosition int            `json:"centered_position"`
	CenteredID       *int           `json:"centered_id,omitempty"`
	Extent           float64        `json:"extent"`
	Items            []SnapshotItem `json:"items"`
}

// SnapshotItem is one entity's place in a [Snapshot].
type SnapshotItem struct {
	ID               int     `json:"id"`
	Name             string  `json:"name"`
	Value            float64 `json:"value"`
	Scale            float64 `json:"scale"`
	Offset           float64 `json:"offset"`
	Position         int     `json:"position"`
	OriginalPosition int     `json:"original_position"`
}

// Export converts l into a snapshot. entities supplies names and raw metric
// values; m must be the metric l was computed with.
func Export(l Layout, entities []entity.Entity, m entity.Metric) Snapshot {
	byID := entity.ByID(entities)
	s := Snapshot{
		Metric:           string(m),
		CenteredPosition: l.CenteredPosition,
		Extent:           l.Table.Extent(l.SortedIDs),
		Items:            make([]SnapshotItem, 0, len(l.SortedIDs)),
	}
	if id, ok := l.CenteredID(); ok {
		s.CenteredID = &id
	}
	for _, id := range l.SortedIDs {
		e := l.Table[id]
		ent := byID[id]
		s.Items = append(s.Items, SnapshotItem{
			ID:               id,
			Name:             ent.Name,
			Value:            m.ValueOf(ent),
			Scale:            e.Scale,
			Offset:           e.Offset,
			Position:         e.Position,
			OriginalPosition: e.OriginalPosition,
		})
	}
	return s
}

// Parse rebuilds a Layout from a snapshot. Items must be in sorted order
// with consistent positions.
func Parse(s Snapshot) (Layout, error) {
	n := len(s.Items)
	sorted := make([]int, n)
	table := make(packing.Table, n)
	stubs := make([]entity.Entity, n)
	seen := make(map[int]bool, n)

	for i, it := range s.Items {
		if it.Position != i {
			return Layout{}, errors.New(errors.ErrCodeInvalidInput,
				"snapshot item %d has position %d", it.ID, it.Position)
		}
		if it.OriginalPosition < 0 || it.OriginalPosition >= n || seen[it.OriginalPosition] {
			return Layout{}, errors.New(errors.ErrCodeInvalidInput,
				"snapshot item %d has invalid original position %d", it.ID, it.OriginalPosition)
		}
		seen[it.OriginalPosition] = true
		sorted[i] = it.ID
		stubs[it.OriginalPosition] = entity.Entity{ID: it.ID, Name: it.Name}
		table[it.ID] = packing.Entry{
			Scale:            it.Scale,
			Offset:           it.Offset,
			Position:         it.Position,
			OriginalPosition: it.OriginalPosition,
		}
	}

	l := Layout{
		SortedIDs:     sorted,
		Table:         table,
		Index:         order.NewIndex(sorted, stubs),
		CenteredFound: s.CenteredID != nil,
	}
	if n > 0 {
		l.CenteredPosition = min(max(s.CenteredPosition, 0), n-1)
	}
	return l, nil
}

// WriteJSON writes the snapshot as indented JSON.
func (s Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// ReadSnapshot decodes a JSON snapshot.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode snapshot")
	}
	return s, nil
}

// Frame captures the rendering state at one floating index.
type Frame struct {
	Index      float64     `json:"index"`
	Coordinate float64     `json:"coordinate"`
	Spacing    float64     `json:"spacing"`
	SelectedID *int        `json:"selected_id,omitempty"`
	Items      []FrameItem `json:"items"`
}

// FrameItem is one entity's relative transform in a [Frame].
type FrameItem struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Position  int     `json:"position"`
	Scale     float64 `json:"scale"`
	Offset    float64 `json:"offset"`
	Selection float64 `json:"selection"`
}

// NewFrame computes the frame for scroll coordinate coord. names may be nil.
func NewFrame(l Layout, coord, spacing float64, names map[int]string) Frame {
	f := FloatingIndexFromScroll(coord, spacing, l.Len())
	return frameAt(l, f, coord, spacing, names)
}

// NewFrameAt computes the frame for floating index f directly.
func NewFrameAt(l Layout, f, spacing float64, names map[int]string) Frame {
	f = min(max(f, 0), max(float64(l.Len()-1), 0))
	return frameAt(l, f, f*spacing, spacing, names)
}

func frameAt(l Layout, f, coord, spacing float64, names map[int]string) Frame {
	fr := Frame{
		Index:      f,
		Coordinate: coord,
		Spacing:    spacing,
		Items:      make([]FrameItem, 0, l.Len()),
	}
	if id, ok := l.Selected(f); ok {
		fr.SelectedID = &id
	}
	ts := l.Transforms(f)
	for pos, id := range l.SortedIDs {
		t := ts[id]
		fr.Items = append(fr.Items, FrameItem{
			ID:        id,
			Name:      names[id],
			Position:  pos,
			Scale:     t.Scale,
			Offset:    t.Offset,
			Selection: scroll.SelectionFactor(f, pos),
		})
	}
	return fr
}

// Names returns an id to name lookup for entities.
func Names(entities []entity.Entity) map[int]string {
	out := make(map[int]string, len(entities))
	for _, e := range entities {
		out[e.ID] = e.Name
	}
	return out
}
