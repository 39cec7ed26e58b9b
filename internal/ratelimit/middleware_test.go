package ratelimit_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/hanbutik/backend-butik/internal/common"
	"github.com/hanbutik/backend-butik/internal/ratelimit"
)

func newHandler(t *testing.T, rpm int) *ratelimit.Handler {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	h, err := ratelimit.New(client, ratelimit.Config{RequestsPerMinute: rpm})
	require.NoError(t, err)
	return h
}

func TestMiddlewareAllowsWithinBudget(t *testing.T) {
	h := newHandler(t, 5)
	next := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		next.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestMiddlewareRejectsOverBudget(t *testing.T) {
	h := newHandler(t, 2)
	next := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/products", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		next.ServeHTTP(last, req)
	}
	require.Equal(t, http.StatusTooManyRequests, last.Code)
	require.NotEmpty(t, last.Header().Get("Retry-After"))
	require.Equal(t, "0", last.Header().Get("X-RateLimit-Remaining"))
}

func TestMiddlewareKeysByUser(t *testing.T) {
	h := newHandler(t, 1)
	next := h.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	for _, userID := range []string{"user-a", "user-b"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/carts", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(common.WithUserID(req.Context(), userID))
		next.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
	}
}
