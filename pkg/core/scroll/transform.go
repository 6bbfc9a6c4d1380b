package scroll

import "github.com/matzehuels/bubblerow/pkg/core/packing"

// Transform is one entity's scale and offset relative to the interpolated
// reference point. It is produced per frame and never stored.
type Transform struct {
	Scale  float64 `json:"scale"`
	Offset float64 `json:"offset"`
}

// Reference is the interpolated virtual entity at a floating index.
type Reference struct {
	Scale  float64
	Offset float64
}

// ReferenceAt interpolates the reference point for f. sorted and table must
// describe the same layout. A zero reference scale (all neighbours are
// points) is replaced by 1 so transforms stay finite.
func ReferenceAt(f float64, sorted []int, table packing.Table) Reference {
	if len(sorted) == 0 {
		return Reference{Scale: 1}
	}
	l, r, t := Split(f, len(sorted))
	le, re := table[sorted[l]], table[sorted[r]]

	ref := Reference{
		Scale:  lerp(le.Scale, re.Scale, t),
		Offset: lerp(le.Offset, re.Offset, t),
	}
	if !(ref.Scale > 0) {
		ref.Scale = 1
	}
	return ref
}

// Transforms computes the relative transform of every entity in sorted.
func Transforms(f float64, sorted []int, table packing.Table) map[int]Transform {
	return TransformsInto(make(map[int]Transform, len(sorted)), f, sorted, table)
}

// TransformsInto is [Transforms] writing into dst, which is returned. It
// performs a single pass without sorting so it can run every frame; reuse
// dst across frames to avoid allocation. Stale keys in dst are not removed.
func TransformsInto(dst map[int]Transform, f float64, sorted []int, table packing.Table) map[int]Transform {
	if dst == nil {
		dst = make(map[int]Transform, len(sorted))
	}
	ref := ReferenceAt(f, sorted, table)
	for _, id := range sorted {
		e := table[id]
		dst[id] = Transform{
			Scale:  e.Scale / ref.Scale,
			Offset: (e.Offset - ref.Offset) / ref.Scale,
		}
	}
	return dst
}

// Selected returns the id whose sorted position is strictly less than half
// a position away from f. Exactly halfway between two items nothing is
// selected.
func Selected(f float64, sorted []int) (int, bool) {
	if len(sorted) == 0 {
		return 0, false
	}
	pos := Nearest(f, len(sorted))
	if SelectionFactor(f, pos) > 0.5 {
		return sorted[pos], true
	}
	return 0, false
}
