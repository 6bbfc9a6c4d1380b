package scroll

import (
	"testing"
	"time"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func newTestTracker(n int) *Tracker {
	return NewTracker(Config{Spacing: 100, QuietPeriod: 100 * time.Millisecond, DriveTimeout: 500 * time.Millisecond}, n)
}

func TestTrackerLiveThenSettle(t *testing.T) {
	tr := newTestTracker(5)
	if tr.State() != Idle {
		t.Fatalf("initial state = %v", tr.State())
	}

	ev := tr.Observe(130, at(0))
	if tr.State() != Live || ev.Index != 1.3 {
		t.Fatalf("after observe: state=%v index=%v", tr.State(), ev.Index)
	}

	// still within the quiet period
	if ev := tr.Tick(at(50)); ev.Snap || tr.State() != Live {
		t.Fatalf("settled too early: %+v %v", ev, tr.State())
	}

	ev = tr.Tick(at(120))
	if !ev.Snap || ev.Target != 100 || tr.State() != Settling {
		t.Fatalf("Tick after quiet period = %+v state=%v", ev, tr.State())
	}

	// collaborator animates toward the target
	tr.Observe(110, at(130))
	if tr.State() != Settling {
		t.Fatalf("state = %v, want settling", tr.State())
	}
	ev = tr.Observe(100, at(140))
	if !ev.Settled || ev.Position != 1 || tr.State() != Idle || tr.Position() != 1 {
		t.Fatalf("final observe = %+v state=%v position=%d", ev, tr.State(), tr.Position())
	}
}

func TestTrackerSettleInPlace(t *testing.T) {
	tr := newTestTracker(5)
	tr.Observe(300, at(0))
	ev := tr.Tick(at(200))
	if !ev.Settled || ev.Snap || ev.Position != 3 || tr.State() != Idle {
		t.Errorf("Tick on an integer coordinate = %+v state=%v", ev, tr.State())
	}
}

func TestTrackerSettleSnapsWithinEpsilon(t *testing.T) {
	tests := []struct {
		name  string
		coord float64
	}{
		{"just below", 199.7},
		{"just above", 200.4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTracker(5)
			tr.Observe(tt.coord, at(0))
			ev := tr.Tick(at(200))
			if !ev.Settled || ev.Position != 2 || ev.Index != 2 {
				t.Fatalf("Tick = %+v", ev)
			}
			if tr.State() != Idle || tr.Index() != 2 || tr.Coordinate() != 200 {
				t.Errorf("at rest: state %v index %v coord %v", tr.State(), tr.Index(), tr.Coordinate())
			}
		})
	}
}

func TestTrackerSettlingSnapsWithinEpsilon(t *testing.T) {
	tr := newTestTracker(5)
	tr.Observe(130, at(0))
	tr.Tick(at(120))
	ev := tr.Observe(100.3, at(140))
	if !ev.Settled || ev.Index != 1 || tr.Index() != 1 || tr.Coordinate() != 100 {
		t.Errorf("settle near target = %+v index %v coord %v", ev, tr.Index(), tr.Coordinate())
	}
}

func TestTrackerLiveKeepsExtendingQuietPeriod(t *testing.T) {
	tr := newTestTracker(5)
	tr.Observe(10, at(0))
	tr.Observe(20, at(80))
	if ev := tr.Tick(at(150)); ev.Snap {
		t.Error("movement at 80ms should delay settling past 150ms")
	}
	if ev := tr.Tick(at(181)); !ev.Snap {
		t.Error("should settle 100ms after last movement")
	}
}

func TestTrackerProgrammaticDrive(t *testing.T) {
	tr := newTestTracker(5)

	ev := tr.Drive(3, at(0))
	if !ev.Snap || ev.Target != 300 || !tr.Suppressed() {
		t.Fatalf("Drive = %+v suppressed=%v", ev, tr.Suppressed())
	}

	// intermediate coordinates never settle or leave programmatic mode
	for i, c := range []float64{80, 190, 260, 299.9} {
		ev := tr.Observe(c, at(10*(i+1)))
		if ev.Settled || tr.State() != Programmatic {
			t.Fatalf("observe %v: %+v state=%v", c, ev, tr.State())
		}
	}

	// a second read within epsilon means the drive has stabilized
	ev = tr.Observe(300, at(60))
	if !ev.Settled || ev.Position != 3 || tr.State() != Idle {
		t.Fatalf("stabilized observe = %+v state=%v", ev, tr.State())
	}
}

func TestTrackerDriveTimeout(t *testing.T) {
	tr := newTestTracker(5)
	tr.Drive(4, at(0))
	tr.Observe(150, at(10))

	tr.Tick(at(499))
	if tr.State() != Programmatic {
		t.Fatalf("timeout fired early: %v", tr.State())
	}
	tr.Tick(at(500))
	if tr.State() != Live {
		t.Fatalf("state after timeout = %v, want live", tr.State())
	}
	ev := tr.Tick(at(600))
	if !ev.Snap || ev.Target != 200 {
		t.Errorf("resumed live session should settle to nearest: %+v", ev)
	}
}

func TestTrackerDriveSupersede(t *testing.T) {
	tr := newTestTracker(5)
	tr.Drive(1, at(0))
	ev := tr.Drive(4, at(10))
	if ev.Target != 400 {
		t.Errorf("second drive target = %v", ev.Target)
	}
	tr.Observe(400, at(20))
	ev = tr.Observe(400, at(30))
	if !ev.Settled || ev.Position != 4 {
		t.Errorf("superseded drive settled at %+v", ev)
	}
}

func TestTrackerInputCancelsDrive(t *testing.T) {
	tr := newTestTracker(5)
	tr.Drive(4, at(0))
	tr.Input(at(5))
	if tr.Suppressed() || tr.State() != Live {
		t.Errorf("Input should cancel the drive, state=%v", tr.State())
	}
}

func TestTrackerDriveClampsAndEmpty(t *testing.T) {
	tr := newTestTracker(3)
	if ev := tr.Drive(10, at(0)); ev.Target != 200 {
		t.Errorf("Drive(10) target = %v, want 200", ev.Target)
	}

	empty := newTestTracker(0)
	if ev := empty.Drive(1, at(0)); ev.Snap {
		t.Error("Drive on empty tracker should be a no-op")
	}
}

func TestTrackerScroll(t *testing.T) {
	tr := newTestTracker(3)
	ev := tr.Scroll(-50, at(0))
	if ev.Index != 0 || tr.Coordinate() != 0 {
		t.Errorf("scroll below zero: %+v coord=%v", ev, tr.Coordinate())
	}
	tr.Scroll(1000, at(10))
	if tr.Coordinate() != 200 || tr.Index() != 2 {
		t.Errorf("scroll past end: coord=%v index=%v", tr.Coordinate(), tr.Index())
	}
	tr.Scroll(-25, at(20))
	if tr.Index() != 1.75 {
		t.Errorf("index = %v, want 1.75", tr.Index())
	}
}

func TestTrackerResize(t *testing.T) {
	tr := newTestTracker(10)
	tr.Drive(8, at(0))
	tr.Observe(800, at(1))
	tr.Observe(800, at(2))
	if tr.Position() != 8 {
		t.Fatalf("position = %d", tr.Position())
	}

	tr.Resize(4)
	if tr.Position() != 3 || tr.Index() != 3 || tr.Len() != 4 {
		t.Errorf("after Resize: position=%d index=%v len=%d", tr.Position(), tr.Index(), tr.Len())
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{Idle: "idle", Live: "live", Settling: "settling", Programmatic: "programmatic", State(9): "unknown"} {
		if got := s.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", s, got, want)
		}
	}
}

func TestTrackerJump(t *testing.T) {
	tr := newTestTracker(5)
	tr.Drive(4, at(0))

	ev := tr.Jump(2, at(10))
	if !ev.Settled || ev.Position != 2 || !ev.Snap || ev.Target != 200 {
		t.Errorf("Jump event = %+v", ev)
	}
	if tr.State() != Idle || tr.Index() != 2 || tr.Coordinate() != 200 || tr.Position() != 2 {
		t.Errorf("after Jump: state %v index %v coord %v pos %d", tr.State(), tr.Index(), tr.Coordinate(), tr.Position())
	}

	if ev := tr.Jump(99, at(20)); ev.Position != 4 {
		t.Errorf("Jump clamps to %d, want 4", ev.Position)
	}

	empty := newTestTracker(0)
	if ev := empty.Jump(3, at(0)); !ev.Settled || ev.Position != 0 {
		t.Errorf("empty Jump = %+v", ev)
	}
}
