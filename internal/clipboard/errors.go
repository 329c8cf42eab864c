package clipboard

import (
	"errors"
	"fmt"
)

type Op string

const (
	OpOpen  Op = "open"
	OpWrite Op = "write"
)

var (
	// ErrEmptyAfterClean is returned by Write when nothing is left once
	// NUL and CR bytes are stripped.
	ErrEmptyAfterClean = errors.New("clipboard: text is empty after cleaning")

	// ErrUnsupported is returned when the platform has no usable
	// clipboard backend.
	ErrUnsupported = errors.New("clipboard: unsupported on this platform")
)

type ClipboardError struct {
	Op  Op
	Err error
}

func (e *ClipboardError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("clipboard %s failed", e.Op)
	}
	return fmt.Sprintf("clipboard %s failed: %v", e.Op, e.Err)
}

func (e *ClipboardError) Unwrap() error { return e.Err }
