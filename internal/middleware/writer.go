package middleware

import (
	"net/http"
)

// responseWriter records the status and size of a response and runs
// beforeHeader exactly once, right before the status line is sent. Headers
// set there survive handlers that reset headers on error paths.
type responseWriter struct {
	http.ResponseWriter
	beforeHeader func(h http.Header, status int)
	status       int
	bytes        int
	wroteHeader  bool
}

func wrapWriter(w http.ResponseWriter, beforeHeader func(http.Header, int)) *responseWriter {
	return &responseWriter{ResponseWriter: w, beforeHeader: beforeHeader}
}

func (w *responseWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		if w.beforeHeader != nil {
			w.beforeHeader(w.Header(), code)
		}
		w.status = code
		w.wroteHeader = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Status returns the written status, or 200 if the handler wrote nothing.
func (w *responseWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (w *responseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

func (w *responseWriter) Flush() {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}
