package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/carbonview/pkg/metrics"
)

// MetricsMiddleware records request count, latency and error class for one
// endpoint label.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)

		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(time.Since(start).Microseconds())/1000)

		if class, severity := errorClass(rec.status); class != "" {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, class)
			metrics.RecordErrorByType(class, severity)
		}
	}
}

// errorClass names a failed status after the payload codes handlers emit.
// Successful statuses have no class.
func errorClass(status int) (class, severity string) {
	switch {
	case status < http.StatusBadRequest:
		return "", ""
	case status == http.StatusTooManyRequests:
		return codeBackpressure, "medium"
	case status == http.StatusNotFound:
		return codeNotFound, "low"
	case status == http.StatusServiceUnavailable:
		return "unavailable", "high"
	case status >= http.StatusInternalServerError:
		return codeInternal, "high"
	default:
		return codeBadRequest, "low"
	}
}

// statusRecorder remembers the status a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}
