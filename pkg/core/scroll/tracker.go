package scroll

import (
	"math"
	"time"
)

// State is the phase of a scroll session.
type State int

const (
	// Idle: no scroll activity; the index rests on an integer position.
	Idle State = iota
	// Live: the coordinate is changing under user input or momentum.
	Live
	// Settling: input went quiet and the coordinate is being snapped to the
	// nearest integer position.
	Settling
	// Programmatic: a select command is driving the coordinate; live
	// selection updates are suppressed until it stabilizes.
	Programmatic
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Live:
		return "live"
	case Settling:
		return "settling"
	case Programmatic:
		return "programmatic"
	}
	return "unknown"
}

// Defaults for [Config].
const (
	DefaultQuietPeriod  = 100 * time.Millisecond
	DefaultDriveTimeout = 750 * time.Millisecond
	DefaultEpsilon      = 0.5
)

// Config tunes a [Tracker]. Zero durations and epsilon take the defaults.
type Config struct {
	Spacing      float64       // scroll units per sorted position
	QuietPeriod  time.Duration // no-change time before settling
	DriveTimeout time.Duration // upper bound on programmatic suppression
	Epsilon      float64       // coordinates closer than this are equal
}

func (c Config) withDefaults() Config {
	if c.QuietPeriod <= 0 {
		c.QuietPeriod = DefaultQuietPeriod
	}
	if c.DriveTimeout <= 0 {
		c.DriveTimeout = DefaultDriveTimeout
	}
	if c.Epsilon <= 0 {
		c.Epsilon = DefaultEpsilon
	}
	return c
}

// Event reports the outcome of feeding the tracker.
type Event struct {
	// Index is the current floating index; renderers always follow it.
	Index float64

	// Snap asks the scroll collaborator to move the coordinate to Target.
	Snap   bool
	Target float64

	// Settled is set when the session came to rest at Position.
	Settled  bool
	Position int
}

// Tracker is the per-session scroll state machine. It is not safe for
// concurrent use; each scroll session owns one.
type Tracker struct {
	cfg   Config
	n     int
	state State

	coord    float64
	index    float64
	position int

	target     float64
	targetPos  int
	lastChange time.Time
	driveStart time.Time
}

// NewTracker returns an idle tracker for n items resting at position 0.
func NewTracker(cfg Config, n int) *Tracker {
	return &Tracker{cfg: cfg.withDefaults(), n: max(n, 0)}
}

// State returns the current phase.
func (t *Tracker) State() State { return t.state }

// Index returns the current floating index.
func (t *Tracker) Index() float64 { return t.index }

// Coordinate returns the last observed scroll coordinate.
func (t *Tracker) Coordinate() float64 { return t.coord }

// Position returns the last settled integer position.
func (t *Tracker) Position() int { return t.position }

// Len returns the number of items being scrolled.
func (t *Tracker) Len() int { return t.n }

// Spacing returns the configured item spacing.
func (t *Tracker) Spacing() float64 { return t.cfg.Spacing }

// TargetPosition returns the position of the last drive, settle or jump.
func (t *Tracker) TargetPosition() int { return t.targetPos }

// Suppressed reports whether a programmatic drive is muting live
// selection updates.
func (t *Tracker) Suppressed() bool { return t.state == Programmatic }

// MaxCoordinate is the coordinate of the last item.
func (t *Tracker) MaxCoordinate() float64 {
	return ScrollTarget(max(t.n-1, 0), t.cfg.Spacing)
}

// Resize changes the item count, e.g. after the entity set is replaced.
// The settled position and index are clamped into the new range.
func (t *Tracker) Resize(n int) {
	t.n = max(n, 0)
	t.position = min(t.position, max(t.n-1, 0))
	t.targetPos = min(t.targetPos, max(t.n-1, 0))
	t.index = FloatingIndex(t.coord, t.cfg.Spacing, t.n)
}

// Observe feeds a new scroll coordinate.
func (t *Tracker) Observe(coord float64, now time.Time) Event {
	prev := t.coord
	moved := math.Abs(coord-prev) > 0
	t.coord = coord
	t.index = FloatingIndex(coord, t.cfg.Spacing, t.n)
	ev := Event{Index: t.index}

	switch t.state {
	case Idle:
		if moved {
			t.state = Live
			t.lastChange = now
		}
	case Live:
		if moved {
			t.lastChange = now
		}
	case Settling:
		if t.near(coord, t.target) {
			t.settle(&ev)
		}
	case Programmatic:
		if t.near(coord, t.target) && t.near(coord, prev) {
			t.settle(&ev)
		}
	}
	return ev
}

// Tick advances time without a new coordinate. Scroll collaborators call
// it from their own timer; it starts settling after the quiet period and
// lifts programmatic suppression after the drive timeout.
func (t *Tracker) Tick(now time.Time) Event {
	ev := Event{Index: t.index}

	switch t.state {
	case Live:
		if now.Sub(t.lastChange) < t.cfg.QuietPeriod {
			break
		}
		t.targetPos = Nearest(t.index, t.n)
		t.target = ScrollTarget(t.targetPos, t.cfg.Spacing)
		if t.near(t.coord, t.target) {
			t.settle(&ev)
			break
		}
		t.state = Settling
		ev.Snap, ev.Target = true, t.target
	case Programmatic:
		if now.Sub(t.driveStart) >= t.cfg.DriveTimeout {
			t.state = Live
			t.lastChange = now
		}
	}
	return ev
}

// Drive starts a programmatic scroll to pos, superseding any drive or
// settle in flight. The returned event carries the coordinate to scroll to.
func (t *Tracker) Drive(pos int, now time.Time) Event {
	if t.n == 0 {
		return Event{}
	}
	t.targetPos = min(max(pos, 0), t.n-1)
	t.target = ScrollTarget(t.targetPos, t.cfg.Spacing)
	t.state = Programmatic
	t.driveStart = now
	return Event{Index: t.index, Snap: true, Target: t.target}
}

// Jump moves straight to pos and comes to rest there. It is used after a
// metric change, when the centred entity is re-expressed at its new
// position without animating.
func (t *Tracker) Jump(pos int, now time.Time) Event {
	if t.n == 0 {
		t.state, t.coord, t.index, t.position = Idle, 0, 0, 0
		return Event{Settled: true}
	}
	t.targetPos = min(max(pos, 0), t.n-1)
	t.target = ScrollTarget(t.targetPos, t.cfg.Spacing)
	t.coord = t.target
	t.index = float64(t.targetPos)
	t.lastChange = now
	ev := Event{Index: t.index, Snap: true, Target: t.target}
	t.settle(&ev)
	return ev
}

// Input records a user gesture (wheel, key, touch). It cancels a drive or
// settle in flight and returns the session to Live.
func (t *Tracker) Input(now time.Time) {
	t.state = Live
	t.lastChange = now
}

// Scroll applies a relative gesture: it records the input and observes
// the coordinate moved by delta, clamped to the scrollable range.
func (t *Tracker) Scroll(delta float64, now time.Time) Event {
	t.Input(now)
	coord := math.Min(math.Max(t.coord+delta, 0), t.MaxCoordinate())
	return t.Observe(coord, now)
}

// settle comes to rest on the target. A coordinate within Epsilon of it is
// snapped so the index at rest is the integer position.
func (t *Tracker) settle(ev *Event) {
	t.state = Idle
	t.coord, t.index = t.target, float64(t.targetPos)
	t.position = t.targetPos
	ev.Index = t.index
	ev.Settled = true
	ev.Position = t.targetPos
}

func (t *Tracker) near(a, b float64) bool {
	return math.Abs(a-b) < t.cfg.Epsilon
}
