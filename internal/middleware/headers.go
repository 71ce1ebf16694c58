package middleware

import (
	"net/http"
)

// HeaderPolicy lists the cross-origin and caching headers put on every response.
type HeaderPolicy struct {
	AllowOrigin  string
	AllowMethods string
	AllowHeaders string
	CacheControl string
}

// DefaultHeaderPolicy allows any origin and disables caching, since the
// record store behind the site changes between page loads.
func DefaultHeaderPolicy() HeaderPolicy {
	return HeaderPolicy{
		AllowOrigin:  "*",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
		AllowHeaders: "Content-Type",
		CacheControl: "no-store, no-cache, must-revalidate",
	}
}

func (p HeaderPolicy) apply(h http.Header) {
	h.Set("Access-Control-Allow-Origin", p.AllowOrigin)
	h.Set("Access-Control-Allow-Methods", p.AllowMethods)
	h.Set("Access-Control-Allow-Headers", p.AllowHeaders)
	h.Set("Cache-Control", p.CacheControl)
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}

// Headers decorates every response, success or failure, with the policy's
// headers. They are applied when the status is written, so a handler that
// clears headers while producing an error cannot drop them.
func Headers(policy HeaderPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			wrapped := wrapWriter(w, func(h http.Header, _ int) {
				policy.apply(h)
			})

			next.ServeHTTP(wrapped, r)

			if !wrapped.wroteHeader {
				wrapped.WriteHeader(http.StatusOK)
			}
		})
	}
}

// Preflight answers every OPTIONS request with an empty 200, whatever the
// path. Place it inside Headers so the answer carries the same headers.
func Preflight(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
