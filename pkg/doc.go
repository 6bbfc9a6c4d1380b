// Package pkg provides the core libraries for Bubblerow, a scrollable row
// of bubbles that compares entities by a chosen metric.
//
// # Overview
//
// Bubblerow sorts entities (people, companies, countries) by a metric such
// as population or daily turnover and draws them as a horizontal row of
// circles. Scrolling moves a floating index along the row; the entity at
// the index is always drawn at the same size and its neighbours are scaled
// relative to it. The pkg directory is organized into four areas:
//
//  1. [entity] - The entities, their metrics and dataset files
//  2. [core] - The layout engine (ordering, packing, scroll mapping)
//  3. [lineup] - The public layout API built on the core packages
//  4. [pipeline] - Orchestration (load → layout → frame → render)
//
// # Architecture
//
// The typical data flow through Bubblerow:
//
//	Dataset file or built-in sample
//	         ↓
//	    [entity] package (decode + validate)
//	         ↓
//	    [core/order] package (stable sort by metric)
//	         ↓
//	    [core/packing] package (offsets + scales in reference units)
//	         ↓
//	    [core/scroll] package (floating index → relative transforms)
//	         ↓
//	    [sink] package (SVG/PDF/PNG/JSON output)
//
// # Quick Start
//
// Lay out the sample and render the frame around the second entity:
//
//	import (
//	    "github.com/matzehuels/bubblerow/pkg/entity"
//	    "github.com/matzehuels/bubblerow/pkg/lineup"
//	    "github.com/matzehuels/bubblerow/pkg/sink"
//	)
//
//	entities := entity.Sample()
//
//	// 1. Compute the layout
//	l := lineup.ComputeLayout(entities, entity.Persons)
//
//	// 2. Capture a frame at a scroll coordinate
//	coord := lineup.ScrollTargetFor(1, 96)
//	fr := lineup.NewFrame(l, coord, 96, lineup.Names(entities))
//
//	// 3. Render to SVG
//	svg := sink.RenderSVG(fr, sink.WithLabels())
//
// # Main Packages
//
// ## Core Domain Logic
//
// [entity] - Entities with a stable id and the measures metrics read from.
// Datasets load from JSON or YAML; [entity.Sample] is the built-in set.
//
// [core/order] - Stable ascending sort by metric and the id ↔ position
// index.
//
// [core/packing] - Builds the packing table: for every entity its offset
// along the row and its scale, both in units of a reference entity.
//
// [core/scroll] - Maps scroll coordinates to a floating index, interpolates
// transforms between integer positions, and tracks when scrolling settles.
//
// [lineup] - ComputeLayout, FloatingIndexFromScroll, TransformsFor and
// ScrollTargetFor, plus the serializable Snapshot and Frame types.
//
// ## Output
//
// [sink] - Renders a frame as SVG or JSON, and converts SVG to PNG or PDF.
//
// ## Infrastructure
//
// [pipeline] - Cached layout and render steps shared by the CLI and the
// HTTP server.
//
// [cache] - Content-addressed cache with file, memory, Redis and MongoDB
// backends.
//
// [session] - Scroll sessions for the server and the resume file for the
// terminal browser.
//
// [server] - HTTP API serving layouts, frames and scroll sessions.
//
// [config] - TOML configuration with defaults.
//
// [errors] - Error codes, user messages and validation helpers.
//
// [observability] - Hooks for pipeline, cache and server events.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/scroll/...        # Specific package
//	go test -run Example ./pkg/...       # Examples only
//
// Redis and MongoDB cache tests run only when BUBBLEROW_TEST_REDIS and
// BUBBLEROW_TEST_MONGO are set.
//
// [entity]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/entity
// [entity.Sample]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/entity#Sample
// [core]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/core
// [core/order]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/core/order
// [core/packing]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/core/packing
// [core/scroll]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/core/scroll
// [lineup]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/lineup
// [sink]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/sink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/server
// [config]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/bubblerow/pkg/observability
package pkg
