// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/pdiddy/pdf2yaml/internal/container"
)

const imageMarkitdown = "markitdown:latest"

// MarkitdownConverter converts PDFs by piping them through the markitdown
// container image. markitdown has no header or table switches, so the
// RemoveHeaders, SkipEmptyTables, and TableHeader options are ignored.
type MarkitdownConverter struct {
	runtime  container.Runtime
	progress ProgressHandler
}

// NewMarkitdownConverter creates a converter that uses rt to run the
// markitdown image. It fails when the image is not present locally.
func NewMarkitdownConverter(ctx context.Context, rt container.Runtime, opts Options) (*MarkitdownConverter, error) {
	if err := rt.ImageExists(ctx, imageMarkitdown); err != nil {
		return nil, fmt.Errorf("markitdown image not available in %s: %w", rt.Name(), err)
	}
	return &MarkitdownConverter{runtime: rt, progress: opts.Progress}, nil
}

// Convert pipes the PDF at pdfPath through the markitdown container and
// returns the resulting Markdown text. The container reports no page
// progress; a single completion event is sent when it exits.
func (m *MarkitdownConverter) Convert(ctx context.Context, pdfPath string) (string, error) {
	f, err := os.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("opening PDF %s: %w", pdfPath, err)
	}
	defer f.Close()

	var out bytes.Buffer
	if err := m.runtime.Run(ctx, imageMarkitdown, f, &out); err != nil {
		return "", fmt.Errorf("converting %s with markitdown: %w", pdfPath, err)
	}

	if out.Len() == 0 {
		return "", fmt.Errorf("markitdown produced empty output for %s", pdfPath)
	}

	report(m.progress, Progress{Phase: PhaseConversion, CurrentPage: 1, TotalPages: 1, Percentage: 100})
	return out.String(), nil
}
