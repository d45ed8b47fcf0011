package queue

import "errors"

// Sentinel kinds for rejected submissions.
var (
	ErrQueueFull   = errors.New("parameter queue full")
	ErrQueueClosed = errors.New("parameter queue closed")
)
