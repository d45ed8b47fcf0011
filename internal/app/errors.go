package service

import (
	"fmt"

	"github.com/okian/carbonview/internal/adapters/repository"
)

// ErrNotStarted is returned by operations that need loaded datasets. It
// wraps repository.ErrNotLoaded so transports can treat both alike.
var ErrNotStarted = fmt.Errorf("service not started: %w", repository.ErrNotLoaded)
