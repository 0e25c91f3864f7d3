package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"net/netip"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mariphil/foundation-site/internal/utils"
)

// RedisClient defines the redis operations the limiter needs.
type RedisClient interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
}

// Limiter is a fixed-window counter per client and scope.
type Limiter struct {
	client  RedisClient
	limit   int64
	window  time.Duration
	trusted []netip.Prefix
	now     func() time.Time
}

// New returns a limiter keyed on the caller address. X-Forwarded-For is only
// honoured for requests arriving from one of the trusted proxies.
func New(client RedisClient, perMinute int, trusted []netip.Prefix) *Limiter {
	return &Limiter{
		client:  client,
		limit:   int64(perMinute),
		window:  time.Minute,
		trusted: trusted,
		now:     time.Now,
	}
}

// Allow reports whether the caller may proceed. Redis failures allow the
// request.
func (l *Limiter) Allow(ctx context.Context, scope, client string) bool {
	if l == nil || l.client == nil || l.limit <= 0 {
		return true
	}
	bucket := l.now().Unix() / int64(l.window.Seconds())
	key := "ratelimit:" + scope + ":" + client + ":" + strconv.FormatInt(bucket, 10)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		slog.WarnContext(ctx, "Rate limiter unavailable", slog.String("error", err.Error()))
		return true
	}
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			slog.WarnContext(ctx, "Failed to set rate limit expiry", slog.String("error", err.Error()))
		}
	}
	return n <= l.limit
}

// Middleware rejects callers over the limit with 429.
func (l *Limiter) Middleware(scope string, next http.Handler) http.Handler {
	if l == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(r.Context(), scope, utils.ClientIP(r, l.trusted)) {
			w.Header().Set("Retry-After", strconv.Itoa(int(l.window.Seconds())))
			utils.WriteJSON(w, http.StatusTooManyRequests, map[string]string{"error": "Too many requests, please try again later"})
			return
		}
		next.ServeHTTP(w, r)
	})
}
