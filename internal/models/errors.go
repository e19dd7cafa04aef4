package models

import "errors"

// Business failures are distinct from plain IO errors, which stay as
// wrapped os/net errors.
var (
	// ErrInvalidInput indicates a bad or empty identifier (e.g. a client
	// name that normalizes to the empty string).
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingField indicates a malformed row missing an expected column.
	ErrMissingField = errors.New("missing field")

	// ErrRenderFailed indicates the PDF renderer failed; the caller must
	// treat the output path as not produced.
	ErrRenderFailed = errors.New("render failed")

	// ErrConfig indicates a required environment or config value is absent.
	ErrConfig = errors.New("missing configuration")
)
