package lineup

import (
	"bytes"
	"math"
	"slices"
	"testing"

	"github.com/matzehuels/bubblerow/pkg/entity"
	"github.com/matzehuels/bubblerow/pkg/errors"
)

const tol = 1e-9

// trio sorts differently under every metric:
// persons A<B<C, turnover C<B<A, turnover-per-person C<B<A.
func trio() []entity.Entity {
	return []entity.Entity{
		{ID: 1, Name: "A", Persons: 1, Turnover: 100},
		{ID: 2, Name: "B", Persons: 4, Turnover: 40},
		{ID: 3, Name: "C", Persons: 9, Turnover: 9},
	}
}

func TestComputeLayoutPreservesCentredEntity(t *testing.T) {
	in := trio()
	l := ComputeLayout(in, entity.Persons)
	if !slices.Equal(l.SortedIDs, []int{1, 2, 3}) {
		t.Fatalf("persons order = %v", l.SortedIDs)
	}

	for _, m := range []entity.Metric{entity.Turnover, entity.TurnoverPerPerson, entity.Persons} {
		for _, id := range []int{1, 2, 3} {
			next := ComputeLayout(in, m, WithPreviousCentered(id))
			if !next.CenteredFound {
				t.Fatalf("%s: id %d not found", m, id)
			}
			got, ok := next.CenteredID()
			if !ok || got != id {
				t.Errorf("%s: centred id = %d, want %d", m, got, id)
			}
		}
	}

	next := ComputeLayout(in, entity.Turnover, WithPreviousCentered(1))
	if next.CenteredPosition != 2 {
		t.Errorf("A under turnover at %d, want 2", next.CenteredPosition)
	}
}

func TestComputeLayoutFallback(t *testing.T) {
	in := trio()
	tests := []struct {
		name      string
		opts      []Option
		wantPos   int
		wantFound bool
	}{
		{"default", nil, 0, false},
		{"fallback clamped high", []Option{WithFallbackPosition(10)}, 2, false},
		{"fallback clamped low", []Option{WithFallbackPosition(-3)}, 0, false},
		{"unknown previous", []Option{WithPreviousCentered(99), WithFallbackPosition(1)}, 1, false},
		{"known previous wins", []Option{WithPreviousCentered(3), WithFallbackPosition(0)}, 2, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := ComputeLayout(in, entity.Persons, tt.opts...)
			if l.CenteredPosition != tt.wantPos || l.CenteredFound != tt.wantFound {
				t.Errorf("got (%d, %v), want (%d, %v)",
					l.CenteredPosition, l.CenteredFound, tt.wantPos, tt.wantFound)
			}
		})
	}
}

func TestComputeLayoutEmpty(t *testing.T) {
	l := ComputeLayout(nil, entity.Persons, WithPreviousCentered(4), WithFallbackPosition(3))
	if l.Len() != 0 || l.CenteredPosition != 0 || l.CenteredFound {
		t.Errorf("empty layout = %+v", l)
	}
	if _, ok := l.CenteredID(); ok {
		t.Error("empty layout has a centred id")
	}
	if got := l.Transforms(0); len(got) != 0 {
		t.Errorf("Transforms on empty layout = %v", got)
	}
	if got := FloatingIndexFromScroll(500, 96, 0); got != 0 {
		t.Errorf("FloatingIndexFromScroll on empty = %v", got)
	}
}

func TestComputeLayoutOptions(t *testing.T) {
	in := trio()
	raw := ComputeLayout(in, entity.Persons)
	ref := ComputeLayout(in, entity.Persons, WithReference(3))
	if got := ref.Table[3].Scale; math.Abs(got-1) > tol {
		t.Errorf("reference scale = %v, want 1", got)
	}
	if got, want := ref.Table[1].Scale, raw.Table[1].Scale/raw.Table[3].Scale; math.Abs(got-want) > tol {
		t.Errorf("normalized scale = %v, want %v", got, want)
	}

	tight := ComputeLayout(in, entity.Persons, WithGapRatio(0))
	if !(tight.Table[3].Offset < raw.Table[3].Offset) {
		t.Errorf("zero gap offset %v not below default %v", tight.Table[3].Offset, raw.Table[3].Offset)
	}
	wide := ComputeLayout(in, entity.Persons, WithFixedGap(10))
	if !(wide.Table[3].Offset > raw.Table[3].Offset) {
		t.Errorf("fixed gap offset %v not above default %v", wide.Table[3].Offset, raw.Table[3].Offset)
	}
}

func TestScrollRoundTrip(t *testing.T) {
	l := ComputeLayout(entity.Sample(), entity.Turnover)
	const spacing = 96.0
	for pos := range l.Len() {
		f := FloatingIndexFromScroll(ScrollTargetFor(pos, spacing), spacing, l.Len())
		if f != float64(pos) {
			t.Errorf("pos %d round-trips to %v", pos, f)
		}
		id, ok := l.Selected(f)
		if !ok || id != l.SortedIDs[pos] {
			t.Errorf("pos %d selects %d, want %d", pos, id, l.SortedIDs[pos])
		}
		tr := TransformsFor(f, l.SortedIDs, l.Table)[id]
		if math.Abs(tr.Scale-1) > tol || math.Abs(tr.Offset) > tol {
			t.Errorf("pos %d transform = %+v", pos, tr)
		}
	}
}

func TestSortingOffsets(t *testing.T) {
	in := trio()
	if got := ComputeLayout(in, entity.Persons).SortingOffsets(96); got[1] != 0 || got[2] != 0 || got[3] != 0 {
		t.Errorf("input order already sorted, got %v", got)
	}
	got := ComputeLayout(in, entity.Turnover).SortingOffsets(96)
	want := map[int]float64{1: 192, 2: 0, 3: -192}
	for id, w := range want {
		if got[id] != w {
			t.Errorf("offset of %d = %v, want %v", id, got[id], w)
		}
	}
}

func TestExportParse(t *testing.T) {
	in := entity.Sample()
	l := ComputeLayout(in, entity.TurnoverPerPerson, WithPreviousCentered(13))
	snap := Export(l, in, entity.TurnoverPerPerson)

	if snap.Metric != "turnover-per-person" || len(snap.Items) != len(in) {
		t.Fatalf("snapshot header = %q, %d items", snap.Metric, len(snap.Items))
	}
	if snap.CenteredID == nil || *snap.CenteredID != 13 {
		t.Errorf("centred id = %v, want 13", snap.CenteredID)
	}

	var buf bytes.Buffer
	if err := snap.WriteJSON(&buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	decoded, err := ReadSnapshot(&buf)
	if err != nil {
		t.Fatalf("ReadSnapshot: %v", err)
	}
	back, err := Parse(decoded)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if !slices.Equal(back.SortedIDs, l.SortedIDs) || back.CenteredPosition != l.CenteredPosition {
		t.Fatalf("parsed layout order or centre differs")
	}
	for _, f := range []float64{0, 3.25, 9.5, 18} {
		a, b := l.Transforms(f), back.Transforms(f)
		for id := range a {
			if math.Abs(a[id].Scale-b[id].Scale) > tol || math.Abs(a[id].Offset-b[id].Offset) > tol {
				t.Errorf("f=%v id=%d: %+v vs %+v", f, id, a[id], b[id])
			}
		}
	}
	for _, id := range l.SortedIDs {
		d1, _ := l.Index.Displacement(id)
		d2, _ := back.Index.Displacement(id)
		if d1 != d2 {
			t.Errorf("displacement of %d: %d vs %d", id, d1, d2)
		}
	}
}

func TestParseRejectsInconsistentSnapshot(t *testing.T) {
	tests := []struct {
		name  string
		items []SnapshotItem
	}{
		{"position out of order", []SnapshotItem{{ID: 1, Position: 1}}},
		{"original out of range", []SnapshotItem{{ID: 1, Position: 0, OriginalPosition: 4}}},
		{"original repeated", []SnapshotItem{{ID: 1, Position: 0}, {ID: 2, Position: 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(Snapshot{Items: tt.items})
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Parse error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestReadSnapshotInvalid(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewBufferString("{"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("error = %v, want INVALID_FORMAT", err)
	}
}

func TestNewFrame(t *testing.T) {
	in := trio()
	l := ComputeLayout(in, entity.Persons)

	fr := NewFrame(l, 96, 96, Names(in))
	if fr.Index != 1 || fr.SelectedID == nil || *fr.SelectedID != 2 {
		t.Fatalf("frame index %v selected %v", fr.Index, fr.SelectedID)
	}
	wantSel := []float64{0, 1, 0}
	for i, it := range fr.Items {
		if it.Selection != wantSel[i] {
			t.Errorf("item %d selection = %v, want %v", i, it.Selection, wantSel[i])
		}
	}
	if fr.Items[1].Name != "B" || fr.Items[1].Scale != 1 {
		t.Errorf("centre item = %+v", fr.Items[1])
	}

	half := NewFrameAt(l, 0.5, 96, nil)
	if half.SelectedID != nil {
		t.Errorf("halfway frame selected %d", *half.SelectedID)
	}
	if half.Coordinate != 48 {
		t.Errorf("halfway coordinate = %v, want 48", half.Coordinate)
	}
}
