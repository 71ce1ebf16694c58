package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"parts-desk/internal/middleware"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertPolicyHeaders(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "*", h.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET, POST, DELETE, OPTIONS", h.Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", h.Get("Access-Control-Allow-Headers"))
	assert.Equal(t, "no-store, no-cache, must-revalidate", h.Get("Cache-Control"))
}

func TestHeaders_DecoratesSuccessAndFailure(t *testing.T) {
	testCases := []struct {
		name   string
		status int
	}{
		{name: "ok", status: http.StatusOK},
		{name: "bad request", status: http.StatusBadRequest},
		{name: "not found", status: http.StatusNotFound},
		{name: "server error", status: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})

			rec := httptest.NewRecorder()
			middleware.Headers(middleware.DefaultHeaderPolicy())(handler).
				ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			assert.Equal(t, tc.status, rec.Code)
			assertPolicyHeaders(t, rec.Header())
		})
	}
}

func TestHeaders_SurviveHandlerClearingCacheControl(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Del("Cache-Control")
		http.Error(w, "gone", http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	middleware.Headers(middleware.DefaultHeaderPolicy())(handler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing.html", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assertPolicyHeaders(t, rec.Header())
}

func TestHeaders_FileServerNotFound(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<p>hi</p>"), 0o644))

	handler := middleware.Headers(middleware.DefaultHeaderPolicy())(http.FileServer(http.Dir(root)))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope.json", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assertPolicyHeaders(t, rec.Header())

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	// FileServer redirects /index.html to ./
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)
	assertPolicyHeaders(t, rec.Header())
}

func TestHeaders_ImplicitStatus(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	rec := httptest.NewRecorder()
	middleware.Headers(middleware.DefaultHeaderPolicy())(handler).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assertPolicyHeaders(t, rec.Header())
}

func TestHeaders_CustomPolicy(t *testing.T) {
	policy := middleware.DefaultHeaderPolicy()
	policy.AllowOrigin = "http://localhost:3000"

	rec := httptest.NewRecorder()
	middleware.Headers(policy)(http.NotFoundHandler()).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflight_AnswersAnyPath(t *testing.T) {
	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusTeapot)
	})
	handler := middleware.Headers(middleware.DefaultHeaderPolicy())(middleware.Preflight(next))

	for _, path := range []string{"/", "/api/delete-part", "/does/not/exist"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, path, nil))

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Empty(t, rec.Body.String(), path)
		assertPolicyHeaders(t, rec.Header())
	}
	assert.False(t, called, "preflight must not reach the router")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
