package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/config"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

func newLimiter(t *testing.T) (*RateLimiter, *miniredis.Miniredis, *time.Time) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	limiter := NewRateLimiter(rdb, config.RateLimitConfig{
		Enabled:        true,
		Capacity:       2,
		RefillTokens:   1,
		RefillInterval: 1000,
		TTL:            60,
		Prefix:         "rl",
	}, nopLogger{})

	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }
	return limiter, mr, &now
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
}

func hit(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_TokenBucket(t *testing.T) {
	limiter, _, now := newLimiter(t)
	h := limiter.Middleware(okHandler())

	newReq := func() *http.Request { return httptest.NewRequest(http.MethodPost, "/bookings", nil) }

	first := hit(h, newReq())
	assert.Equal(t, http.StatusCreated, first.Code)
	assert.Equal(t, "2", first.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	assert.Equal(t, http.StatusCreated, hit(h, newReq()).Code)

	blocked := hit(h, newReq())
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "1", blocked.Header().Get("Retry-After"))

	*now = now.Add(time.Second)
	assert.Equal(t, http.StatusCreated, hit(h, newReq()).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, newReq()).Code)
}

func TestRateLimiter_KeysByUser(t *testing.T) {
	limiter, mr, _ := newLimiter(t)
	h := limiter.Middleware(okHandler())

	asUser := func(id string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/waitlist", nil)
		return req.WithContext(WithSession(req.Context(), &domain.Session{UserID: id, Role: domain.RoleCustomer}))
	}

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusCreated, hit(h, asUser("alice")).Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(h, asUser("alice")).Code)
	assert.Equal(t, http.StatusCreated, hit(h, asUser("bob")).Code)

	assert.True(t, mr.Exists("rl:user:alice:POST:unmatched"))
	assert.True(t, mr.Exists("rl:user:bob:POST:unmatched"))
}

func TestRateLimiter_FailsOpenWhenRedisIsDown(t *testing.T) {
	limiter, mr, _ := newLimiter(t)
	h := limiter.Middleware(okHandler())
	mr.Close()

	assert.Equal(t, http.StatusCreated, hit(h, httptest.NewRequest(http.MethodPost, "/bookings", nil)).Code)
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(nil, config.RateLimitConfig{}, nopLogger{})
	h := limiter.Middleware(okHandler())

	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusCreated, hit(h, httptest.NewRequest(http.MethodPost, "/bookings", nil)).Code)
	}
}
