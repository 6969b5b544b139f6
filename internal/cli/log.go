// Package cli implements the etchgrid command-line interface.
//
// Commands are methods on [CLI] so they share one logger and the loaded
// configuration. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
//   - draw: paint in the terminal with the mouse or the keyboard
//   - serve: paint in the browser
//   - run: replay a drawing script and export the result
//   - export: render a saved sketch as PNG, SVG or ANSI
//   - sketches: list and delete saved sketches
//   - cache, config: housekeeping
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces every grid mutation.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took once it finishes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered sketch.png (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
