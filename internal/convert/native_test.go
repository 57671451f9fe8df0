// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectProgress(events *[]Progress) ProgressHandler {
	return ProgressFunc(func(p Progress) { *events = append(*events, p) })
}

func TestNativeRender(t *testing.T) {
	pages := []page{
		{Number: 1, Lines: []line{
			textLine(800, 9, "Internal Draft"),
			textLine(700, 10, "First page body."),
		}},
		{Number: 2, Lines: []line{
			textLine(800, 9, "Internal Draft"),
			textLine(700, 10, "Second page body."),
		}},
	}

	tests := []struct {
		name          string
		removeHeaders bool
		want          string
	}{
		{
			name:          "headers removed",
			removeHeaders: true,
			want:          "First page body.\n\nSecond page body.",
		},
		{
			name: "headers kept",
			want: "Internal Draft\n\nFirst page body.\n\nInternal Draft\n\nSecond page body.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []Progress
			c := NewNativeConverter(Options{RemoveHeaders: tt.removeHeaders, Progress: collectProgress(&events)})

			got, err := c.render(context.Background(), pages)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			require.Len(t, events, 2)
			assert.Equal(t, Progress{Phase: PhaseConversion, CurrentPage: 1, TotalPages: 2, Percentage: 75}, events[0])
			assert.Equal(t, Progress{Phase: PhaseConversion, CurrentPage: 2, TotalPages: 2, Percentage: 100}, events[1])
		})
	}
}

func TestNativeRender_ZeroPagesCompletes(t *testing.T) {
	var events []Progress
	c := NewNativeConverter(Options{Progress: collectProgress(&events)})

	got, err := c.render(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, []Progress{{Phase: PhaseConversion, Percentage: 100}}, events)
}

func TestNativeRender_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewNativeConverter(Options{})
	_, err := c.render(ctx, []page{{Number: 1, Lines: []line{textLine(1, 10, "x")}}})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNativeConvert_Errors(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "fake.pdf")
	require.NoError(t, os.WriteFile(fake, []byte("this is not a pdf"), 0o644))

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "missing.pdf")},
		{"invalid PDF content", fake},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []Progress
			c := NewNativeConverter(Options{Progress: collectProgress(&events)})

			_, err := c.Convert(context.Background(), tt.path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.path)
			assert.Empty(t, events)
		})
	}
}

// The fixtures under testdata are uncompressed two-column layouts: a 9pt
// running header and footer, an 18pt title, a 13pt subtitle, grids, a list
// item, and wrapped paragraphs. positioned_td.pdf places text with Td, TD,
// and T* in a font without widths; positioned_tm.pdf uses Tm and TJ in a
// font with widths.

const tdFirstPage = "# Overview\n\n" +
	"### Table\n\n| Name | Value |\n| --- | --- |\n| alpha | 1 |\n\n" +
	"Plain paragraph text here. It wraps onto a second line.\n\n" +
	"A new paragraph starts here."

func TestNativeConvert_RelativePositioning(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			name: "defaults",
			opts: Options{RemoveHeaders: true, SkipEmptyTables: true},
			want: tdFirstPage + "\n\n## Details\n\n- first item\n\nClosing note.",
		},
		{
			name: "empty tables kept",
			opts: Options{RemoveHeaders: true, TableHeader: "#### Grid"},
			want: strings.ReplaceAll(tdFirstPage, "### Table", "#### Grid") +
				"\n\n## Details\n\n- first item\n\n" +
				"#### Grid\n\n| Owner | Date |\n| --- | --- |\n| - | - |\n\nClosing note.",
		},
		{
			name: "headers kept",
			opts: Options{SkipEmptyTables: true},
			want: "Internal Draft\n\n" + tdFirstPage + "\n\nPage 1 of 2\n\n" +
				"Internal Draft\n\n## Details\n\n- first item\n\nClosing note.\n\nPage 2 of 2",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var events []Progress
			tt.opts.Progress = collectProgress(&events)

			got, err := NewNativeConverter(tt.opts).Convert(context.Background(), filepath.Join("testdata", "positioned_td.pdf"))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			assert.Equal(t, []Progress{
				{Phase: PhaseAnalysis, CurrentPage: 1, TotalPages: 2, Percentage: 25},
				{Phase: PhaseAnalysis, CurrentPage: 2, TotalPages: 2, Percentage: 50},
				{Phase: PhaseConversion, CurrentPage: 1, TotalPages: 2, Percentage: 75},
				{Phase: PhaseConversion, CurrentPage: 2, TotalPages: 2, Percentage: 100},
			}, events)
		})
	}
}

func TestNativeConvert_MatrixPositioning(t *testing.T) {
	got, err := NewNativeConverter(Options{RemoveHeaders: true, SkipEmptyTables: true}).
		Convert(context.Background(), filepath.Join("testdata", "positioned_tm.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "# Overview\n\n"+
		"### Table\n\n| Name | Value |\n| --- | --- |\n| alpha | 1 |\n\n"+
		"Plain paragraph text. Second line.", got)
}

func TestPageLines_FontSizes(t *testing.T) {
	f, r, err := pdf.Open(filepath.Join("testdata", "positioned_td.pdf"))
	require.NoError(t, err)
	defer f.Close()

	lines := pageLines(r.Page(1))
	require.Len(t, lines, 9)

	assert.Equal(t, []string{"Internal Draft"}, lines[0].Cells)
	assert.InDelta(t, 770, lines[0].Y, 0.01)
	assert.InDelta(t, 9, lines[0].Size, 0.01)
	assert.InDelta(t, 18, lines[1].Size, 0.01)
	assert.Equal(t, []string{"Name", "Value"}, lines[2].Cells)
	assert.Equal(t, []string{"Page 1 of 2"}, lines[8].Cells)
}
