// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// NativeConverter extracts the embedded text layer of a PDF with
// github.com/ledongthuc/pdf and lays it out as Markdown. Scanned
// (image-only) pages produce no text.
type NativeConverter struct {
	opts Options
}

// NewNativeConverter returns a NativeConverter using opts.
func NewNativeConverter(opts Options) *NativeConverter {
	return &NativeConverter{opts: opts}
}

// Convert reads every page of the PDF at pdfPath and returns its Markdown.
// Progress is reported once per page in the analysis phase and again in the
// conversion phase.
func (c *NativeConverter) Convert(ctx context.Context, pdfPath string) (md string, err error) {
	// The PDF reader panics on some malformed files.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parsing PDF %s: %v", pdfPath, r)
		}
	}()

	f, r, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	total := r.NumPage()
	pages := make([]page, 0, total)
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		pg := page{Number: i}
		p := r.Page(i)
		if !p.V.IsNull() {
			pg.Lines = pageLines(p)
		}
		pages = append(pages, pg)

		report(c.opts.Progress, Progress{
			Phase:       PhaseAnalysis,
			CurrentPage: i,
			TotalPages:  total,
			Percentage:  float64(i) / float64(total) * 50,
		})
	}

	return c.render(ctx, pages)
}

// render lays out the analysed pages as Markdown.
func (c *NativeConverter) render(ctx context.Context, pages []page) (string, error) {
	total := len(pages)
	if total == 0 {
		report(c.opts.Progress, Progress{Phase: PhaseConversion, Percentage: 100})
		return "", nil
	}

	if c.opts.RemoveHeaders {
		pages = stripRepeated(pages)
	}
	body := bodyFontSize(pages)

	parts := make([]string, 0, total)
	for i, pg := range pages {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if text := renderPage(pg, body, c.opts); text != "" {
			parts = append(parts, text)
		}
		report(c.opts.Progress, Progress{
			Phase:       PhaseConversion,
			CurrentPage: i + 1,
			TotalPages:  total,
			Percentage:  50 + float64(i+1)/float64(total)*50,
		})
	}

	return strings.Join(parts, "\n\n"), nil
}

// pageLines lays out the text of one page as lines, top to bottom. Glyph
// positions, sizes, and widths come from the page's text state, so text
// placed with Td, TD, T*, or Tm is handled alike.
func pageLines(p pdf.Page) []line {
	content := p.Content()
	glyphs := make([]fragment, 0, len(content.Text))
	for _, t := range content.Text {
		glyphs = append(glyphs, fragment{X: t.X, Y: t.Y, W: t.W, Size: t.FontSize, S: t.S})
	}
	return groupRows(mergeGlyphs(glyphs))
}
