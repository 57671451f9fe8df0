// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output resolves where a conversion is written and writes it,
// either to the local filesystem or to an S3-compatible bucket.
package output

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdf2yaml/pkg/types"
)

const s3Scheme = "s3://"

// Sink writes converted content to a destination.
type Sink interface {
	// Write stores content at dest, replacing anything already there.
	Write(ctx context.Context, dest string, content string) error
}

// ResolvePath returns override when it is set, and otherwise the input path
// with its extension replaced by the mode's extension.
func ResolvePath(inputPath, override string, mode types.Mode) string {
	if override != "" {
		return override
	}
	return strings.TrimSuffix(inputPath, filepath.Ext(inputPath)) + mode.Extension()
}

// IsS3 reports whether dest names an S3 object.
func IsS3(dest string) bool {
	return strings.HasPrefix(dest, s3Scheme)
}

// LocalSink writes files on the local filesystem.
type LocalSink struct{}

// Write creates or truncates dest and writes content as UTF-8 text. The
// parent directory must exist. The write is not atomic.
func (LocalSink) Write(_ context.Context, dest string, content string) error {
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

// Router sends s3:// destinations to an S3 sink, built on first use, and
// everything else to the local filesystem.
type Router struct {
	Local Sink
	// NewS3 builds the S3 sink. A nil NewS3 rejects s3:// destinations.
	NewS3 func(ctx context.Context) (Sink, error)

	s3 Sink
}

// Write dispatches to the sink matching dest.
func (r *Router) Write(ctx context.Context, dest string, content string) error {
	if !IsS3(dest) {
		local := r.Local
		if local == nil {
			local = LocalSink{}
		}
		return local.Write(ctx, dest, content)
	}

	if r.s3 == nil {
		if r.NewS3 == nil {
			return fmt.Errorf("writing %s: S3 output is not configured", dest)
		}
		s, err := r.NewS3(ctx)
		if err != nil {
			return fmt.Errorf("writing %s: %w", dest, err)
		}
		r.s3 = s
	}
	return r.s3.Write(ctx, dest, content)
}
