// Package cli implements the bubblerow command-line interface.
//
// This package provides commands for computing bubble layouts, rendering
// single frames, browsing a lineup interactively in the terminal, serving
// scroll sessions over HTTP, and managing the layout cache. The CLI is built
// using cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Sort and pack a dataset, print the lineup as a table or JSON
//   - frame: Render the row at one scroll position (SVG, PNG, PDF, JSON)
//   - browse: Scroll through the row in the terminal
//   - serve: Run the HTTP API for scroll sessions
//   - cache: Manage the layout cache
//   - config: Show the effective configuration
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// routes pipeline and cache hooks through the logger.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Computed layout of 19 entities (3ms)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
