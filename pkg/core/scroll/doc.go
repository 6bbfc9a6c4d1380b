// Package scroll turns a continuous scroll coordinate into a fractional
// position in the sorted sequence and into per-entity transforms relative
// to that position.
//
// # Floating Index
//
// A floating index f lies in [0, n-1]. Its integer part L is the left
// neighbour, R = min(L+1, n-1) the right neighbour and t = f - L the weight
// toward R. [FloatingIndex] derives f from a scroll coordinate and the item
// spacing; [ScrollTarget] goes the other way for programmatic scrolling.
//
// # Relative Transforms
//
// [Transforms] interpolates a virtual reference between L and R
//
//	scaleRef  = lerp(scale[L],  scale[R],  t)
//	offsetRef = lerp(offset[L], offset[R], t)
//
// and expresses every entity relative to it:
//
//	Scale  = scale[i] / scaleRef
//	Offset = (offset[i] - offsetRef) / scaleRef
//
// A renderer multiplies Scale by its reference diameter and Offset by its
// reference spacing. The reference point moves continuously, so nothing
// snaps while scrolling; only at integer f does the entity at f get exactly
// Scale 1 and Offset 0.
//
// # Tracker
//
// [Tracker] is the per-session state machine that sits between a scroll
// input device and the transforms: Idle, Live, Settling and Programmatic.
// It is driven entirely by its caller (Observe, Tick, Drive, Input) and
// never starts timers or goroutines of its own.
package scroll
