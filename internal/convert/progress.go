// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"fmt"
	"io"
)

// Phase labels the stage a converter is in when it reports progress.
type Phase string

const (
	// PhaseAnalysis covers reading pages and collecting their text.
	PhaseAnalysis Phase = "analysis"
	// PhaseConversion covers rendering the collected text as Markdown.
	PhaseConversion Phase = "conversion"
)

// Progress is a single progress report from a converter.
type Progress struct {
	Phase       Phase
	CurrentPage int
	TotalPages  int
	// Percentage is the overall completion in the range [0, 100].
	Percentage float64
}

// ProgressHandler observes converter progress. Converters call it
// synchronously from the goroutine running Convert.
type ProgressHandler interface {
	HandleProgress(Progress)
}

// ProgressFunc adapts an ordinary function to a ProgressHandler.
type ProgressFunc func(Progress)

// HandleProgress calls f(p).
func (f ProgressFunc) HandleProgress(p Progress) { f(p) }

// report sends p to h when h is set.
func report(h ProgressHandler, p Progress) {
	if h != nil {
		h.HandleProgress(p)
	}
}

// ConsoleProgress renders progress as a single carriage-return-updated line.
type ConsoleProgress struct {
	w    io.Writer
	open bool
}

// NewConsoleProgress returns a ConsoleProgress writing to w.
func NewConsoleProgress(w io.Writer) *ConsoleProgress {
	return &ConsoleProgress{w: w}
}

// HandleProgress redraws the progress line and ends it once the converter
// reports completion.
func (c *ConsoleProgress) HandleProgress(p Progress) {
	fmt.Fprintf(c.w, "\rPhase: %s, Page %d/%d, Progress: %.1f%%", p.Phase, p.CurrentPage, p.TotalPages, p.Percentage)
	c.open = true
	if p.Percentage >= 100 {
		fmt.Fprintln(c.w)
		c.open = false
	}
}

// Close ends a progress line left open by a converter that stopped reporting
// before reaching 100%.
func (c *ConsoleProgress) Close() {
	if c.open {
		fmt.Fprintln(c.w)
		c.open = false
	}
}
