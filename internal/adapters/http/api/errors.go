package api

import (
	"errors"
	"net/http"

	"github.com/okian/carbonview/internal/adapters/mq/queue"
	"github.com/okian/carbonview/internal/adapters/render"
	"github.com/okian/carbonview/internal/adapters/repository"
	"github.com/okian/carbonview/internal/domain/views"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrBackpressure = errors.New("backpressure")
)

// Error codes of the error payload.
const (
	codeBadRequest   = "bad_request"
	codeNotFound     = "not_found"
	codeBackpressure = "backpressure"
	codeInternal     = "internal_error"
)

// statusOf maps an upstream error to its HTTP status and payload code.
func statusOf(err error) (int, string) {
	if code := views.ErrorCode(err); code != "" {
		return http.StatusBadRequest, code
	}
	switch {
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, codeBadRequest
	case errors.Is(err, repository.ErrNoViews), errors.Is(err, render.ErrUnknownView),
		errors.Is(err, render.ErrUnsupportedFormat):
		return http.StatusNotFound, codeNotFound
	case errors.Is(err, queue.ErrQueueFull), errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, codeBackpressure
	case errors.Is(err, queue.ErrQueueClosed), errors.Is(err, repository.ErrNotLoaded):
		return http.StatusServiceUnavailable, codeInternal
	default:
		return http.StatusInternalServerError, codeInternal
	}
}
