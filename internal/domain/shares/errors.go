package shares

import "errors"

// Sentinel error kinds for share computation.
var (
	ErrColumnMismatch = errors.New("sibling and output columns differ")
	ErrUnknownColumn  = errors.New("unknown sibling column")
)
