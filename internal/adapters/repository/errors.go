package repository

import "errors"

// Sentinel kinds for repository reads.
var (
	ErrNotLoaded = errors.New("datasets not loaded")
	ErrNoViews   = errors.New("no view set published")
)
