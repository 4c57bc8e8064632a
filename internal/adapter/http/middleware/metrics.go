package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/goremit/internal/infrastructure/metrics"
)

// Metrics returns middleware recording request counts and durations on m.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

// collections whose next path segment is an identifier.
var idCollections = map[string]string{
	"accounts":    ":id",
	"remittances": ":id",
	"quotes":      ":currency",
}

// normalizePath replaces identifiers with placeholders to bound label cardinality.
// /api/v1/accounts/42/remittances -> /api/v1/accounts/:id/remittances
func normalizePath(path string) string {
	if !strings.HasPrefix(path, "/api/v1/") {
		return path
	}

	segments := strings.Split(path, "/")
	for i := 1; i < len(segments)-1; i++ {
		placeholder, ok := idCollections[segments[i]]
		if ok && segments[i+1] != "" {
			segments[i+1] = placeholder
			i++
		}
	}

	return strings.Join(segments, "/")
}
