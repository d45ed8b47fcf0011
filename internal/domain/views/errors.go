package views

import (
	"errors"

	"github.com/okian/carbonview/internal/domain/metric"
)

// Sentinel error kinds returned by Recompute.
var (
	ErrUnknownMetric    = metric.ErrUnknownMetric
	ErrUnknownEntity    = errors.New("unknown entity")
	ErrInvalidYearRange = errors.New("invalid year range")
)
