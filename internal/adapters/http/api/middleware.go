package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/sethseligman/statstack-v1-archive/pkg/logger"
	"github.com/sethseligman/statstack-v1-archive/pkg/metrics"
)

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// slowRequest is the latency above which a request is logged at warn level.
const slowRequest = 5 * time.Second

// errorTypes names the statuses the API produces. Others fall back to
// their class in errorType.
var errorTypes = map[int]string{ //nolint:gochecknoglobals // static table
	http.StatusBadRequest:            "bad_request",
	http.StatusNotFound:              "not_found",
	http.StatusRequestEntityTooLarge: "too_large",
	http.StatusTooManyRequests:       "backpressure",
	http.StatusServiceUnavailable:    "unavailable",
	http.StatusGatewayTimeout:        "timeout",
}

// MetricsMiddleware records request counters and latencies for endpoint,
// tags the response with a request id and logs slow calculations.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		took := time.Since(start)
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, float64(took.Microseconds())/1000)

		if rec.status >= http.StatusBadRequest {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, errorType(rec.status))
			metrics.RecordErrorByComponent("http", errorSeverity(rec.status))
		}
		if took >= slowRequest {
			logger.Get().Warn(r.Context(), "slow request",
				logger.String("endpoint", endpoint),
				logger.String("requestID", id),
				logger.Int("status", rec.status),
				logger.Duration("took", took),
			)
		}
	}
}

func errorType(status int) string {
	if t, ok := errorTypes[status]; ok {
		return t
	}
	switch {
	case status >= http.StatusInternalServerError:
		return "server_error"
	case status >= http.StatusBadRequest:
		return "client_error"
	default:
		return "unknown"
	}
}

// errorSeverity maps a status class to a severity label.
func errorSeverity(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "high"
	case status >= http.StatusBadRequest:
		return "medium"
	default:
		return "low"
	}
}

// statusRecorder remembers the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
