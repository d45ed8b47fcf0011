package metric

import "errors"

// ErrUnknownMetric is returned when a metric id is not in the catalog.
var ErrUnknownMetric = errors.New("unknown metric")
