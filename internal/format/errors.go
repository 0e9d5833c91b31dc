package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a structure.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrSignatureMismatch indicates the arena header had an unexpected magic.
	ErrSignatureMismatch = errors.New("format: signature mismatch")
)
