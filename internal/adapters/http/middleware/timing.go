package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/xid"

	"fithub/internal/adapters/http/perf"
)

// DefaultSlowRequest is the default threshold for slow request warnings.
const DefaultSlowRequest = 200 * time.Millisecond

// RequestIDHeader carries the request ID on responses.
const RequestIDHeader = "X-Request-Id"

type requestIDKey struct{}

// RequestID tags each request with an xid, echoed in RequestIDHeader.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xid.New().String()
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// GetRequestID returns the ID set by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader captures the status code and delegates to the underlying ResponseWriter.
// PRE: code is a valid HTTP status code
// POST: status stored, header written to underlying ResponseWriter
func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (sw *statusWriter) Unwrap() http.ResponseWriter {
	return sw.ResponseWriter
}

// statusWriterPool reduces allocations on the hot path.
var statusWriterPool = sync.Pool{
	New: func() any {
		return &statusWriter{}
	},
}

// Timing returns middleware that logs request duration and records it on collector.
// Requests to /static/ are excluded.
// Normal requests log at DEBUG; requests at or above threshold log at WARN.
// Metrics are labelled with the chi route pattern.
func Timing(collector *perf.Collector, threshold time.Duration) func(http.Handler) http.Handler {
	if threshold <= 0 {
		threshold = DefaultSlowRequest
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := r.URL.Path

			if strings.HasPrefix(path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				duration := time.Since(start)
				durationMs := float64(duration.Microseconds()) / 1000.0
				route := routePattern(r)

				attrs := []any{
					"request_id", GetRequestID(r.Context()),
					"method", r.Method,
					"path", path,
					"route", route,
					"status", sw.status,
					"duration_ms", durationMs,
				}
				if duration >= threshold {
					slog.WarnContext(r.Context(), "slow_request", attrs...)
				} else {
					slog.DebugContext(r.Context(), "request", attrs...)
				}

				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       route,
					Method:     r.Method,
					StatusCode: sw.status,
					Duration:   duration,
				})

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}

// routePattern returns the matched chi pattern, or "unmatched" when chi did
// not route the request.
func routePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return "unmatched"
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return "unmatched"
}
