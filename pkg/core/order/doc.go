// Package order sorts entities by a metric and maps between entity ids and
// their positions in the sorted sequence.
//
// # Sorting
//
// [Sort] returns entity ids ascending by metric value. The sort is stable:
// entities with equal values keep their input order, so repeated calls with
// the same metric always produce the same sequence and positions round-trip.
//
// # Index Mapping
//
// An [Index] is built once per sorted sequence and never patched. It answers
// three questions in O(1):
//
//   - where does id X sit in the sorted order ([Index.PositionOf])
//   - which id sits at sorted position P ([Index.IDAt])
//   - where did id X sit in the input ([Index.OriginalPositionOf])
//
// When the metric changes, callers carry the centred entity across with
// [Index.Recenter], which keeps the same entity in the middle while its
// neighbours change.
package order
