// Package progress renders engine progress events in the terminal.
package progress

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"

	"webready/internal/engine"
)

// Reporter provides progress feedback during an analysis run.
type Reporter interface {
	Sink() engine.Sink
	Finish()
}

// NewReporter returns a TerminalReporter if running in an interactive
// terminal, or a CIReporter if the CI environment variable is set.
func NewReporter() Reporter {
	if os.Getenv("CI") != "" || os.Getenv("GITHUB_ACTIONS") != "" {
		return &CIReporter{}
	}
	return &TerminalReporter{}
}

// TerminalReporter displays a progress bar in the terminal.
type TerminalReporter struct {
	bar *progressbar.ProgressBar
}

// Sink returns a callback the engine drives with its progress events.
func (r *TerminalReporter) Sink() engine.Sink {
	r.bar = progressbar.NewOptions(100,
		progressbar.OptionSetDescription("Analyzing"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionClearOnFinish(),
	)
	return func(ev engine.Event) {
		if ev.Message != "" {
			r.bar.Describe(ev.Message)
		}
		_ = r.bar.Set(int(ev.Percent))
	}
}

func (r *TerminalReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}

// CIReporter prints line-by-line progress suitable for CI logs.
type CIReporter struct {
	last float64
}

func (r *CIReporter) Sink() engine.Sink {
	return func(ev engine.Event) {
		// The per-file events are too chatty for CI logs; print
		// whole-percent steps only.
		if ev.Percent-r.last < 1 && ev.Status == engine.StatusRunning {
			return
		}
		r.last = ev.Percent
		fmt.Fprintf(os.Stderr, "[%3.0f%%] %s\n", ev.Percent, ev.Message)
	}
}

func (r *CIReporter) Finish() {}
