// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdf2yaml/pkg/types"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		override string
		mode     types.Mode
		want     string
	}{
		{"template default", "prd.pdf", "", types.ModeTemplate, "prd.yaml"},
		{"markdown only", "prd.pdf", "", types.ModeMarkdown, "prd.md"},
		{"upper-case extension", "docs/Brief.PDF", "", types.ModeTemplate, "docs/Brief.yaml"},
		{"dotted directory", "v1.2/prd.pdf", "", types.ModeMarkdown, "v1.2/prd.md"},
		{"only last extension replaced", "prd.v2.pdf", "", types.ModeTemplate, "prd.v2.yaml"},
		{"override wins", "prd.pdf", "out/custom.txt", types.ModeMarkdown, "out/custom.txt"},
		{"s3 override", "prd.pdf", "s3://bucket/prd.yaml", types.ModeTemplate, "s3://bucket/prd.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.input, tt.override, tt.mode))
		})
	}
}

func TestLocalSink(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.yaml")
	require.NoError(t, os.WriteFile(dest, []byte("old content that is longer"), 0o644))

	require.NoError(t, LocalSink{}.Write(context.Background(), dest, "new ✓"))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new ✓", string(data))
}

func TestLocalSink_MissingDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "missing", "out.md")
	err := LocalSink{}.Write(context.Background(), dest, "x")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

// recordingSink remembers what was written to it.
type recordingSink struct {
	writes map[string]string
	err    error
}

func (r *recordingSink) Write(_ context.Context, dest, content string) error {
	if r.err != nil {
		return r.err
	}
	if r.writes == nil {
		r.writes = map[string]string{}
	}
	r.writes[dest] = content
	return nil
}

func TestRouter(t *testing.T) {
	local := &recordingSink{}
	remote := &recordingSink{}
	built := 0
	r := &Router{
		Local: local,
		NewS3: func(context.Context) (Sink, error) {
			built++
			return remote, nil
		},
	}

	ctx := context.Background()
	require.NoError(t, r.Write(ctx, "a.yaml", "A"))
	require.NoError(t, r.Write(ctx, "s3://bucket/b.yaml", "B"))
	require.NoError(t, r.Write(ctx, "s3://bucket/c.md", "C"))

	assert.Equal(t, map[string]string{"a.yaml": "A"}, local.writes)
	assert.Equal(t, map[string]string{"s3://bucket/b.yaml": "B", "s3://bucket/c.md": "C"}, remote.writes)
	assert.Equal(t, 1, built, "S3 sink should be built once")
}

func TestRouter_S3Errors(t *testing.T) {
	ctx := context.Background()

	err := (&Router{}).Write(ctx, "s3://bucket/key.yaml", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")

	r := &Router{NewS3: func(context.Context) (Sink, error) { return nil, errors.New("no region") }}
	err = r.Write(ctx, "s3://bucket/key.yaml", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no region")
}

func TestRouter_DefaultLocal(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "out.md")
	require.NoError(t, (&Router{}).Write(context.Background(), dest, "# md"))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "# md", string(data))
}
