package render

import "errors"

// Sentinel kinds for rendering errors.
var (
	ErrUnknownView       = errors.New("unknown view")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)
