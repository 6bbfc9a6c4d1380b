// Package lineup is the public face of the layout engine. It wires the
// sorter, packing builder, index mapper and interpolator into the four
// operations collaborators call:
//
//   - [ComputeLayout] on every metric change
//   - [FloatingIndexFromScroll] on every scroll tick
//   - [TransformsFor] on every scroll tick, feeding the renderer
//   - [ScrollTargetFor] when a programmatic selection drives the scroll
//
// ComputeLayout is pure: nothing is cached inside the engine. Callers that
// want memoization key it on the entity set and metric (see the pipeline
// package).
//
// # Metric Changes
//
// Pass the id that was centred before the change with [WithPreviousCentered].
// The returned [Layout.CenteredPosition] is that entity's position in the new
// order, so the same entity stays in the middle and only its neighbours
// change:
//
//	l := lineup.ComputeLayout(entities, entity.Persons)
//	// ... user scrolls, entity 7 is centred ...
//	l = lineup.ComputeLayout(entities, entity.Turnover, lineup.WithPreviousCentered(7))
//	target := lineup.ScrollTargetFor(l.CenteredPosition, spacing)
//
// # Serialization
//
// [Export] converts a Layout into a [Snapshot] for JSON output, caching and
// HTTP responses; [Parse] converts it back. [NewFrame] captures the
// transforms of one scroll position.
package lineup
