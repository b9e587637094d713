// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/tharunrega/smansys/internal/core"
)

const keyPrefix = "ratelimit:ip:"

type RateLimitConfig struct {
	Limit   redis_rate.Limit
	KeyFunc func(*http.Request) string
	// FailOpen switches to the in-process limiter when Redis errors instead
	// of answering 503.
	FailOpen   bool
	BypassFunc func(*http.Request) bool
}

// RateLimiter enforces Limit through Redis when a client is configured and
// through an in-process token bucket otherwise.
type RateLimiter struct {
	redis  *redis_rate.Limiter
	local  *localLimiter
	config RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	rl := &RateLimiter{
		local:  newLocalLimiter(time.Now),
		config: cfg,
	}
	if rdb != nil {
		rl.redis = redis_rate.NewLimiter(rdb)
	}
	return rl
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.config.BypassFunc != nil && rl.config.BypassFunc(r) {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.config.KeyFunc(r)
		res, err := rl.allow(r.Context(), key)
		if err != nil {
			slog.ErrorContext(r.Context(), "rate limiter unavailable",
				"error", err,
				"key", key,
			)
			core.JSON(w, http.StatusServiceUnavailable, core.ErrorResponse{
				Error: "Service Unavailable",
			})
			return
		}

		setRateLimitHeaders(w, res, rl.config.Limit)

		if res.Allowed == 0 {
			writeRateLimitExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	if rl.redis == nil {
		return rl.local.allow(key, rl.config.Limit), nil
	}

	res, err := rl.redis.Allow(ctx, key, rl.config.Limit)
	if err == nil {
		return res, nil
	}
	if !rl.config.FailOpen {
		return nil, fmt.Errorf("redis rate limit: %w", err)
	}

	slog.WarnContext(ctx, "redis rate limiter failed, using local buckets",
		"error", err,
	)
	return rl.local.allow(key, rl.config.Limit), nil
}

// KeyByIP keys on the connection's remote address. Forwarding headers are
// ignored since any client can set them.
func KeyByIP(r *http.Request) string {
	return keyPrefix + remoteHost(r)
}

// KeyByProxiedIP keys on the nearest proxy-reported client address, falling
// back to the remote address. Only use it behind a proxy that overwrites
// X-Forwarded-For and X-Real-IP.
func KeyByProxiedIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		if hop := strings.TrimSpace(hops[len(hops)-1]); hop != "" {
			return keyPrefix + hop
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return keyPrefix + xri
	}

	return KeyByIP(r)
}

// ClientKey picks the client key function for the deployment.
func ClientKey(trustProxy bool) func(*http.Request) string {
	if trustProxy {
		return KeyByProxiedIP
	}
	return KeyByIP
}

// ByEndpoint scopes a client's budget to one route.
func ByEndpoint(key func(*http.Request) string) func(*http.Request) string {
	return func(r *http.Request) string {
		return key(r) + ":endpoint:" + normalizeEndpoint(r.URL.Path)
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// normalizeEndpoint collapses record ids so /students/<a> and /students/<b>
// share a bucket.
func normalizeEndpoint(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, seg := range segments {
		if isIdentifier(seg) {
			segments[i] = "{id}"
		}
	}
	return "/" + strings.Join(segments, "/")
}

func isIdentifier(seg string) bool {
	if seg == "" {
		return false
	}
	if _, err := uuid.Parse(seg); err == nil && len(seg) == 36 {
		return true
	}
	_, err := strconv.ParseUint(seg, 10, 64)
	return err == nil
}

func setRateLimitHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()

	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))
	h.Set("RateLimit-Policy",
		fmt.Sprintf("%d;w=%d", limit.Rate, int(limit.Period.Seconds())))
	h.Set("RateLimit",
		fmt.Sprintf("%d;t=%d", res.Remaining, int(res.ResetAfter.Seconds())))
}

func writeRateLimitExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	core.JSON(w, http.StatusTooManyRequests, core.ErrorResponse{
		Error: core.KindRateLimited,
		Message: fmt.Sprintf(
			"Rate limit exceeded. Retry after %d seconds.",
			retryAfter,
		),
	})
}

const (
	sweepInterval = 5 * time.Minute
	bucketTTL     = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// localLimiter keeps one token bucket per key. Idle buckets are swept
// opportunistically on access, so no background goroutine is needed.
type localLimiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	now       func() time.Time
	lastSweep time.Time
}

func newLocalLimiter(now func() time.Time) *localLimiter {
	return &localLimiter{
		buckets:   make(map[string]*bucket),
		now:       now,
		lastSweep: now(),
	}
}

func (l *localLimiter) allow(key string, limit redis_rate.Limit) *redis_rate.Result {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()
	interval := time.Duration(float64(time.Second) / perSecond)

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepInterval {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > bucketTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	res := &redis_rate.Result{
		Limit:      limit,
		ResetAfter: interval,
		RetryAfter: -1,
	}
	if b.limiter.AllowN(now, 1) {
		res.Allowed = 1
	} else {
		res.RetryAfter = interval
	}
	res.Remaining = max(int(b.limiter.TokensAt(now)), 0)
	return res
}

func (l *localLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.buckets)
}

// NewLimit builds a limit of rate requests per period.
func NewLimit(rate, burst int, period time.Duration) redis_rate.Limit {
	if period <= 0 {
		period = time.Minute
	}
	return redis_rate.Limit{
		Rate:   rate,
		Burst:  burst,
		Period: period,
	}
}

func PerMinute(rate, burst int) redis_rate.Limit {
	return NewLimit(rate, burst, time.Minute)
}
