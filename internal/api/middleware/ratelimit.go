package middleware

import (
	"context"
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/config"
)

const msgTooManyRequests = "слишком много запросов, попробуйте позже"

// tokenBucketScript атомарно пополняет и списывает токен
// Возвращает {allowed, remaining, retry_after_ms}
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local refill_tokens = tonumber(ARGV[3])
local interval_ms = tonumber(ARGV[4])
local ttl_seconds = tonumber(ARGV[5])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

local elapsed = math.max(0, now_ms - last_refill)
local intervals = math.floor(elapsed / interval_ms)
if intervals > 0 then
	tokens = math.min(capacity, tokens + intervals * refill_tokens)
	last_refill = last_refill + intervals * interval_ms
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return {allowed, tokens, retry_after_ms}
`)

// RateLimiter ограничивает частоту запросов token bucket'ом в Redis
// Ключ строится по пользователю (или IP для анонимных) и шаблону маршрута
type RateLimiter struct {
	rdb    redis.Scripter
	cfg    config.RateLimitConfig
	logger Logger
	now    func() time.Time
}

// NewRateLimiter создает ограничитель; при cfg.Enabled=false middleware ничего не делает
func NewRateLimiter(rdb redis.Scripter, cfg config.RateLimitConfig, logger Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// decision результат проверки лимита
type decision struct {
	allowed    bool
	remaining  int64
	retryAfter time.Duration
}

func (l *RateLimiter) take(ctx context.Context, key string) (decision, error) {
	args := []interface{}{
		l.now().UnixMilli(),
		l.cfg.Capacity,
		l.cfg.RefillTokens,
		l.cfg.RefillInterval,
		l.cfg.TTL,
	}

	vals, err := tokenBucketScript.Run(ctx, l.rdb, []string{key}, args...).Int64Slice()
	if err != nil {
		return decision{}, err
	}
	if len(vals) != 3 {
		return decision{}, fmt.Errorf("unexpected script result: %v", vals)
	}

	return decision{
		allowed:    vals[0] == 1,
		remaining:  vals[1],
		retryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

// Middleware возвращает http middleware; ошибки Redis не блокируют запрос
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	if !l.cfg.Enabled || l.rdb == nil {
		return next
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := l.key(r)

		d, err := l.take(r.Context(), key)
		if err != nil {
			l.logger.Warn("%s %s - Rate limiter unavailable, key=%s: %v", r.Method, r.URL.Path, key, err)
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Capacity))
		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(d.remaining, 10))

		if !d.allowed {
			secs := int(math.Ceil(d.retryAfter.Seconds()))
			w.Header().Set("Retry-After", strconv.Itoa(secs))
			l.logger.Warn("%s %s - Rate limit exceeded, key=%s, retry_after=%ds", r.Method, r.URL.Path, key, secs)
			handlers.RespondError(w, http.StatusTooManyRequests, msgTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (l *RateLimiter) key(r *http.Request) string {
	parts := []string{l.cfg.Prefix}
	if session, ok := GetSession(r.Context()); ok {
		parts = append(parts, "user", session.UserID)
	} else {
		parts = append(parts, "ip", clientIP(r))
	}
	parts = append(parts, r.Method, routeTemplate(r))
	return strings.Join(parts, ":")
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil || host == "" {
		return "unknown"
	}
	return host
}
