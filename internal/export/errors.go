package export

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFormat is returned for a format outside txt, srt, pdf, docx.
	ErrInvalidFormat = errors.New("invalid export format")

	// ErrRenderFailure matches any *RenderError.
	ErrRenderFailure = errors.New("export render failed")
)

// RenderError reports a PDF or DOCX backend failure. No partial output
// accompanies it.
type RenderError struct {
	Format Format
	Err    error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s: %v", e.Format, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

func (e *RenderError) Is(target error) bool { return target == ErrRenderFailure }
