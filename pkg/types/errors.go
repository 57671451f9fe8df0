// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a pipeline failure. The set is closed.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindConversion ErrorKind = "conversion"
	KindIO         ErrorKind = "io"
)

var (
	// ErrNotFound reports that the input file does not exist.
	ErrNotFound = errors.New("not found")
	// ErrNotPDF reports that the input file lacks a .pdf extension.
	ErrNotPDF = errors.New("not a PDF")
)

// Error is the error returned by the pipeline. Kind tells callers which stage
// failed without inspecting the message.
type Error struct {
	Kind ErrorKind
	// Path is the file the failing stage was working on.
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Path)
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an Error of the given kind with a formatted, wrapped cause.
func Errorf(kind ErrorKind, path, format string, args ...any) *Error {
	return &Error{Kind: kind, Path: path, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the first *Error in err's chain, or the empty
// kind if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
