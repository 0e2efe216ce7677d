// Package export produces downloadable PDF and Markdown artifacts from a CV document.
package export

import "errors"

var (
	// ErrTimeout is returned when an export does not finish within its deadline.
	ErrTimeout = errors.New("export timed out")
	// ErrCanceled is returned when the caller abandons an export.
	ErrCanceled = errors.New("export canceled")
	// ErrUnsupportedFormat is returned for formats other than pdf and markdown.
	ErrUnsupportedFormat = errors.New("unsupported export format")
	// ErrNoRenderer is returned for PDF exports when no PDF renderer is configured.
	ErrNoRenderer = errors.New("no PDF renderer configured")
	// ErrInvalidTransition is returned when a job is asked to move to a state it cannot reach.
	ErrInvalidTransition = errors.New("invalid export state transition")
)
