// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a PDF into Markdown through a pluggable backend.
// The native backend reads the PDF text layer in-process; the markitdown
// backend runs the markitdown container image.
package convert

import (
	"context"
	"fmt"

	"github.com/pdiddy/pdf2yaml/internal/container"
	"github.com/pdiddy/pdf2yaml/pkg/types"
)

// Converter transforms a PDF file into Markdown text.
type Converter interface {
	// Convert reads the PDF at pdfPath and returns the Markdown content.
	Convert(ctx context.Context, pdfPath string) (string, error)
}

// Options configures a converter. They are fixed when the converter is built.
type Options struct {
	// RemoveHeaders drops page headers and footers that repeat across pages.
	RemoveHeaders bool

	// SkipEmptyTables drops tables whose data rows carry no content.
	SkipEmptyTables bool

	// TableHeader is written above every table. Defaults to "### Table".
	TableHeader string

	// Progress receives progress reports. May be nil.
	Progress ProgressHandler
}

func (o Options) tableHeader() string {
	if o.TableHeader == "" {
		return types.DefaultTableHeader
	}
	return o.TableHeader
}

// detectRuntime is swapped out in tests.
var detectRuntime = container.DetectRuntime

// New builds the converter for backend. An empty backend selects the native
// converter.
func New(ctx context.Context, backend types.ConversionBackend, opts Options) (Converter, error) {
	switch backend {
	case types.BackendNative, "":
		return NewNativeConverter(opts), nil
	case types.BackendMarkitdown:
		rt, err := detectRuntime(ctx)
		if err != nil {
			return nil, err
		}
		return NewMarkitdownConverter(ctx, rt, opts)
	default:
		return nil, fmt.Errorf("unknown conversion backend %q (want %s or %s)",
			backend, types.BackendNative, types.BackendMarkitdown)
	}
}
