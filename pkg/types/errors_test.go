// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorKind
	}{
		{"nil", nil, ""},
		{"plain error", errors.New("boom"), ""},
		{"validation", &Error{Kind: KindValidation, Err: ErrNotPDF}, KindValidation},
		{"wrapped io", fmt.Errorf("outer: %w", &Error{Kind: KindIO, Err: errors.New("disk full")}), KindIO},
		{"conversion via Errorf", Errorf(KindConversion, "a.pdf", "engine: %w", errors.New("bad xref")), KindConversion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	err := Errorf(KindValidation, "notes.txt", "File '%s' is %w", "notes.txt", ErrNotPDF)

	assert.ErrorIs(t, err, ErrNotPDF)
	assert.Equal(t, "File 'notes.txt' is not a PDF", err.Error())
	assert.Equal(t, "notes.txt", err.Path)
}

func TestErrorWithoutCause(t *testing.T) {
	err := &Error{Kind: KindIO, Path: "out.yaml"}
	assert.Equal(t, "io error: out.yaml", err.Error())
	assert.NoError(t, err.Unwrap())
}

func TestModeExtension(t *testing.T) {
	assert.Equal(t, ".md", ModeMarkdown.Extension())
	assert.Equal(t, ".yaml", ModeTemplate.Extension())
	assert.Equal(t, ".yaml", Mode("").Extension())

	assert.True(t, Request{Mode: ModeMarkdown}.MarkdownOnly())
	assert.False(t, Request{Mode: ModeTemplate}.MarkdownOnly())
}
