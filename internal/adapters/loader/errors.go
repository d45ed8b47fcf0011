package loader

import "errors"

// ErrDataUnavailable is returned when a source cannot be read or parsed.
var ErrDataUnavailable = errors.New("data unavailable")
