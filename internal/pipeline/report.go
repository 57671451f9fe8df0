// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/pdf2yaml/pkg/types"
)

// nextStepLines guide the author after a template is written.
var nextStepLines = []string{
	"1. Open the YAML file and review the generated template",
	"2. Extract relevant information from the markdown section",
	"3. Fill in the TODO sections with actual content",
	"4. Remove the markdown section once extraction is complete",
}

// reporter prints status lines. Styles come from a renderer bound to the
// writer, so output to a file or pipe stays plain text.
type reporter struct {
	w       io.Writer
	success lipgloss.Style
	heading lipgloss.Style
	dim     lipgloss.Style
}

func newReporter(w io.Writer) *reporter {
	r := lipgloss.NewRenderer(w)
	return &reporter{
		w:       w,
		success: r.NewStyle().Foreground(lipgloss.Color("42")),
		heading: r.NewStyle().Bold(true),
		dim:     r.NewStyle().Foreground(lipgloss.Color("240")),
	}
}

func (r *reporter) converting(path string) {
	fmt.Fprintln(r.w, r.dim.Render(fmt.Sprintf("Converting %s to Markdown...", path)))
}

func (r *reporter) saved(label, path string) {
	fmt.Fprintf(r.w, "\n%s\n", r.success.Render(label+": "+path))
}

func (r *reporter) nextSteps() {
	fmt.Fprintf(r.w, "\n%s\n", r.heading.Render("Next steps:"))
	for _, l := range nextStepLines {
		fmt.Fprintln(r.w, l)
	}
}

// ReportError prints err to w in the form matching its kind. Only the label
// is styled, so multi-line causes such as container stderr print verbatim.
func ReportError(w io.Writer, err error) {
	style := lipgloss.NewRenderer(w).NewStyle().Foreground(lipgloss.Color("196"))

	lead, label := "", "Error:"
	switch types.KindOf(err) {
	case types.KindConversion:
		lead, label = "\n", "Error converting PDF:"
	case types.KindIO:
		lead, label = "\n", "Error writing output:"
	}
	fmt.Fprintf(w, "%s%s %s\n", lead, style.Render(label), err.Error())
}
