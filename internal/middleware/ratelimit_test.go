package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/serroba/duckbin/internal/middleware"
	"github.com/serroba/duckbin/internal/ratelimit"
	"github.com/serroba/duckbin/internal/store"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testUserAgent = "TestAgent/1.0"

type failingStore struct{}

func (failingStore) Record(context.Context, string, time.Duration) (int64, error) {
	return 0, errors.New("store down")
}

func newRateLimitedAPI(t *testing.T, rlStore ratelimit.Store, policy *ratelimit.Policy) (*chi.Mux, huma.API) {
	t.Helper()

	router := chi.NewMux()
	api := humachi.New(router, huma.DefaultConfig("Test", "1.0.0"))
	limiter := ratelimit.NewPolicyLimiter(rlStore, policy)
	api.UseMiddleware(middleware.PolicyRateLimiter(api, limiter, ratelimit.NewOperationScopeResolver(), zap.NewNop()))

	return router, api
}

func register(api huma.API, method, path string, cfg *ratelimit.EndpointConfig) {
	op := huma.Operation{
		OperationID: method + path,
		Method:      method,
		Path:        path,
	}
	if cfg != nil {
		op.Metadata = map[string]any{ratelimit.MetadataKey: *cfg}
	}

	huma.Register(api, op, func(_ context.Context, _ *struct{}) (*testOutput, error) {
		return &testOutput{}, nil
	})
}

func send(router http.Handler, method, path, userAgent string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("User-Agent", userAgent)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestPolicyRateLimiter(t *testing.T) {
	t.Run("rejects reads past the read scope limit", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().
			AddLimit(ratelimit.ScopeGlobal, 100, time.Minute).
			AddLimit(ratelimit.ScopeRead, 2, time.Minute).
			Build()
		router, api := newRateLimitedAPI(t, store.NewRateLimitMemoryStore(), policy)
		register(api, http.MethodGet, "/things", nil)

		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/things", testUserAgent).Code)
		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/things", testUserAgent).Code)

		w := send(router, http.MethodGet, "/things", testUserAgent)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "rate limit exceeded: read scope, 3/2 requests in 1m0s")
	})

	t.Run("counts clients separately by user agent", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().AddLimit(ratelimit.ScopeRead, 1, time.Minute).Build()
		router, api := newRateLimitedAPI(t, store.NewRateLimitMemoryStore(), policy)
		register(api, http.MethodGet, "/things", nil)

		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/things", "A").Code)
		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/things", "B").Code)
		assert.Equal(t, http.StatusTooManyRequests, send(router, http.MethodGet, "/things", "A").Code)
	})

	t.Run("writes use the write scope", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().
			AddLimit(ratelimit.ScopeRead, 1, time.Minute).
			AddLimit(ratelimit.ScopeWrite, 5, time.Minute).
			Build()
		router, api := newRateLimitedAPI(t, store.NewRateLimitMemoryStore(), policy)
		register(api, http.MethodDelete, "/things", nil)

		for range 5 {
			assert.Equal(t, http.StatusOK, send(router, http.MethodDelete, "/things", testUserAgent).Code)
		}

		assert.Equal(t, http.StatusTooManyRequests, send(router, http.MethodDelete, "/things", testUserAgent).Code)
	})

	t.Run("disabled endpoints are never limited", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().AddLimit(ratelimit.ScopeRead, 1, time.Minute).Build()
		router, api := newRateLimitedAPI(t, store.NewRateLimitMemoryStore(), policy)
		register(api, http.MethodGet, "/health", &ratelimit.EndpointConfig{Disabled: true})

		for range 5 {
			assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/health", testUserAgent).Code)
		}
	})

	t.Run("route limits replace the policy", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().AddLimit(ratelimit.ScopeWrite, 100, time.Minute).Build()
		router, api := newRateLimitedAPI(t, store.NewRateLimitMemoryStore(), policy)
		register(api, http.MethodPost, "/snippets", &ratelimit.EndpointConfig{
			Limits: []ratelimit.LimitConfig{{Max: 1, Window: time.Minute}},
		})
		register(api, http.MethodPut, "/snippets", nil)

		assert.Equal(t, http.StatusOK, send(router, http.MethodPost, "/snippets", testUserAgent).Code)

		w := send(router, http.MethodPost, "/snippets", testUserAgent)
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "rate limit exceeded: 2/1 requests in 1m0s")

		assert.Equal(t, http.StatusOK, send(router, http.MethodPut, "/snippets", testUserAgent).Code)
	})

	t.Run("route limits share one counter per route template", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().Build()
		router, api := newRateLimitedAPI(t, store.NewRateLimitMemoryStore(), policy)
		register(api, http.MethodGet, "/snippets/{slug}", &ratelimit.EndpointConfig{
			Limits: []ratelimit.LimitConfig{{Max: 1, Window: time.Minute}},
		})

		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/snippets/aaaaaaa", testUserAgent).Code)
		assert.Equal(t, http.StatusTooManyRequests, send(router, http.MethodGet, "/snippets/bbbbbbb", testUserAgent).Code)
	})

	t.Run("scope override from metadata", func(t *testing.T) {
		policy := ratelimit.NewPolicyBuilder().AddLimit(ratelimit.ScopeWrite, 1, time.Minute).Build()
		router, api := newRateLimitedAPI(t, store.NewRateLimitMemoryStore(), policy)
		register(api, http.MethodGet, "/import", &ratelimit.EndpointConfig{Scope: ratelimit.ScopeWrite})

		assert.Equal(t, http.StatusOK, send(router, http.MethodGet, "/import", testUserAgent).Code)
		assert.Equal(t, http.StatusTooManyRequests, send(router, http.MethodGet, "/import", testUserAgent).Code)
	})

	t.Run("store failure yields 500", func(t *testing.T) {
		router, api := newRateLimitedAPI(t, failingStore{}, ratelimit.DefaultPolicy())
		register(api, http.MethodGet, "/things", nil)

		assert.Equal(t, http.StatusInternalServerError, send(router, http.MethodGet, "/things", testUserAgent).Code)
	})
}
