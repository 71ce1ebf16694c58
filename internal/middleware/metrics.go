package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"parts-desk/internal/metrics"
)

// Metrics records request counts and latency by chi route pattern. Static
// file requests share the "/*" pattern so label cardinality stays bounded.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := wrapWriter(w, nil)

		next.ServeHTTP(wrapped, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		metrics.RecordHTTPRequest(r.Method, route, wrapped.Status(), time.Since(start))
	})
}
