package middleware

import (
	"net/http"
	"strconv"
	"time"
)

// ProcessingTimeHeader carries the time spent handling a request.
const ProcessingTimeHeader = "X-Processing-Time-Micros"

// Timing is a middleware that adds X-Processing-Time-Micros header to all responses.
// The header value is the time taken to process the request in microseconds.
func Timing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapped := wrapWriter(w, func(h http.Header, _ int) {
			micros := time.Since(start).Microseconds()
			h.Set(ProcessingTimeHeader, strconv.FormatInt(micros, 10))
		})

		next.ServeHTTP(wrapped, r)

		if !wrapped.wroteHeader {
			wrapped.WriteHeader(http.StatusOK)
		}
	})
}
