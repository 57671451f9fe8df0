// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs one PDF conversion end to end: validate the input,
// resolve the output path, convert, wrap in the PRD template, and write.
// Every failure is returned as a *types.Error carrying its kind.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pdiddy/pdf2yaml/internal/convert"
	"github.com/pdiddy/pdf2yaml/internal/history"
	"github.com/pdiddy/pdf2yaml/internal/output"
	"github.com/pdiddy/pdf2yaml/internal/template"
	"github.com/pdiddy/pdf2yaml/pkg/types"
)

// ConverterFactory builds the converter for a backend.
type ConverterFactory func(ctx context.Context, backend types.ConversionBackend, opts convert.Options) (convert.Converter, error)

// Recorder stores run records. *history.Store implements it.
type Recorder interface {
	Add(ctx context.Context, rec history.Record) (history.Record, error)
}

// Pipeline holds the collaborators of a conversion run. The zero value is
// not usable; build one with New.
type Pipeline struct {
	NewConverter ConverterFactory
	Sink         output.Sink
	// Recorder is optional; when set every run is recorded.
	Recorder Recorder

	// Out receives progress and status lines; Err receives diagnostics.
	Out io.Writer
	Err io.Writer

	now func() time.Time
}

// New returns a Pipeline using the real converters and sink, printing to
// stdout and stderr.
func New(sink output.Sink) *Pipeline {
	return &Pipeline{
		NewConverter: convert.New,
		Sink:         sink,
		Out:          os.Stdout,
		Err:          os.Stderr,
		now:          time.Now,
	}
}

// Result describes a successful run.
type Result struct {
	OutputPath string
	Bytes      int
}

// Run executes req. It writes nothing when validation fails.
func (p *Pipeline) Run(ctx context.Context, req types.Request) (Result, error) {
	now := p.now
	if now == nil {
		now = time.Now
	}
	started := now()

	res, err := p.run(ctx, req)

	if p.Recorder != nil {
		p.record(ctx, req, res, err, started, now())
	}
	return res, err
}

func (p *Pipeline) run(ctx context.Context, req types.Request) (Result, error) {
	if err := validate(req.InputPath); err != nil {
		return Result{}, err
	}

	res := Result{OutputPath: output.ResolvePath(req.InputPath, req.OutputPath, req.Mode)}
	rep := newReporter(p.Out)

	markdown, err := p.convert(ctx, req, rep)
	if err != nil {
		return res, err
	}

	content := markdown
	if !req.MarkdownOnly() {
		content, err = template.Render(markdown)
		if err != nil {
			return res, types.Errorf(types.KindConversion, req.InputPath, "assembling template: %w", err)
		}
	}

	if err := p.Sink.Write(ctx, res.OutputPath, content); err != nil {
		return res, &types.Error{Kind: types.KindIO, Path: res.OutputPath, Err: err}
	}
	res.Bytes = len(content)

	if req.MarkdownOnly() {
		rep.saved("Markdown saved to", res.OutputPath)
	} else {
		rep.saved("YAML PRD template saved to", res.OutputPath)
		rep.nextSteps()
	}
	return res, nil
}

// validate checks that path exists and names a PDF.
func validate(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return types.Errorf(types.KindValidation, path, "File '%s' %w", path, types.ErrNotFound)
		}
		return types.Errorf(types.KindValidation, path, "File '%s' cannot be read: %w", path, err)
	}
	// A name that is only an extension, like ".pdf", has no suffix.
	base, ext := filepath.Base(path), filepath.Ext(path)
	if base == ext || !strings.EqualFold(ext, ".pdf") {
		return types.Errorf(types.KindValidation, path, "File '%s' is %w", path, types.ErrNotPDF)
	}
	return nil
}

func (p *Pipeline) convert(ctx context.Context, req types.Request, rep *reporter) (string, error) {
	progress := convert.NewConsoleProgress(p.Out)
	conv, err := p.NewConverter(ctx, req.Backend, convert.Options{
		RemoveHeaders:   req.RemoveHeaders,
		SkipEmptyTables: req.SkipEmptyTables,
		TableHeader:     req.TableHeader,
		Progress:        progress,
	})
	if err != nil {
		return "", &types.Error{Kind: types.KindConversion, Path: req.InputPath, Err: err}
	}

	rep.converting(req.InputPath)
	markdown, err := conv.Convert(ctx, req.InputPath)
	progress.Close()
	if err != nil {
		return "", &types.Error{Kind: types.KindConversion, Path: req.InputPath, Err: err}
	}
	return markdown, nil
}

func (p *Pipeline) record(ctx context.Context, req types.Request, res Result, runErr error, started, finished time.Time) {
	rec := history.Record{
		StartedAt:  started,
		FinishedAt: finished,
		InputPath:  req.InputPath,
		OutputPath: res.OutputPath,
		Mode:       req.Mode,
		Backend:    req.Backend,
		Bytes:      res.Bytes,
		Status:     history.StatusSucceeded,
	}
	if runErr != nil {
		rec.Status = history.StatusFailed
		rec.ErrorKind = types.KindOf(runErr)
		rec.Error = runErr.Error()
	}
	if _, err := p.Recorder.Add(ctx, rec); err != nil && p.Err != nil {
		fmt.Fprintf(p.Err, "warning: %v\n", err)
	}
}
