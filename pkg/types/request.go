// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the data shared between the pdf2yaml stages: the
// conversion request, configuration, and the error kinds surfaced to the CLI.
package types

// DefaultTableHeader is the heading placed above every extracted table.
const DefaultTableHeader = "### Table"

// Mode selects what the pipeline writes.
type Mode string

const (
	// ModeTemplate wraps the Markdown in the PRD YAML scaffold.
	ModeTemplate Mode = "yaml"
	// ModeMarkdown writes the converted Markdown unchanged.
	ModeMarkdown Mode = "markdown"
)

// Extension returns the output file extension used when no explicit output
// path is given.
func (m Mode) Extension() string {
	if m == ModeMarkdown {
		return ".md"
	}
	return ".yaml"
}

// Request describes a single conversion run. It is built once from CLI flags
// and configuration and is not modified afterwards.
type Request struct {
	// InputPath is the PDF to convert.
	InputPath string `json:"input_path" yaml:"input_path"`

	// OutputPath overrides the derived output location. Empty means derive
	// it from InputPath and Mode. May be an s3://bucket/key URL.
	OutputPath string `json:"output_path,omitempty" yaml:"output_path,omitempty"`

	// Mode selects Markdown-only or YAML template output.
	Mode Mode `json:"mode" yaml:"mode"`

	// RemoveHeaders strips repeated page headers and footers.
	RemoveHeaders bool `json:"remove_headers" yaml:"remove_headers"`

	// SkipEmptyTables drops tables without any data cells.
	SkipEmptyTables bool `json:"skip_empty_tables" yaml:"skip_empty_tables"`

	// TableHeader is the Markdown heading placed above tables.
	TableHeader string `json:"table_header" yaml:"table_header"`

	// Backend names the conversion engine (see ConversionBackend).
	Backend ConversionBackend `json:"backend" yaml:"backend"`
}

// MarkdownOnly reports whether the request skips the YAML scaffold.
func (r Request) MarkdownOnly() bool {
	return r.Mode == ModeMarkdown
}
