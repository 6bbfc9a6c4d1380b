// Package entity defines the records that bubblerow lays out and the
// metrics used to size and sort them.
//
// An [Entity] is an immutable record owned by the data source: a stable
// integer id, a display name and the raw numeric fields. A [Metric] selects
// which scalar to extract from each entity. Two metrics read raw fields
// ([Persons], [Turnover]); [TurnoverPerPerson] is derived as
// turnover / persons and is defined as 0 when persons is 0.
//
// # Accessors
//
// The layout engine does not depend on [Metric] directly. It consumes any
// [Accessor], which lets callers plug in ad-hoc scalars:
//
//	acc := entity.AccessorFunc(func(e entity.Entity) float64 { return -e.Persons })
//	sorted := order.Sort(entities, acc)
//
// # Datasets
//
// [Load] reads entities from JSON, TOML or YAML files and validates them
// (unique ids, non-blank names, finite numbers). [Sample] returns a built-in
// dataset ranging from a single person to the whole world.
package entity
