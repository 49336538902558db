package handler

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"shelfscope/internal/domain"

	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"
)

// RateLimiter applies a token bucket per client IP. Idle buckets expire.
type RateLimiter struct {
	limit      rate.Limit
	burst      int
	trustProxy bool
	limiters   *cache.Cache
	logger     domain.Logger
}

type RateLimiterOption func(*RateLimiter)

// TrustProxyHeaders keys buckets on X-Forwarded-For / X-Real-IP. Only enable
// it behind a proxy that overwrites those headers; clients can set them freely.
func TrustProxyHeaders(trust bool) RateLimiterOption {
	return func(rl *RateLimiter) {
		rl.trustProxy = trust
	}
}

// NewRateLimiter allows perSecond requests per client with the given burst.
// A non-positive rate disables limiting. Clients are identified by the socket
// address unless TrustProxyHeaders is set.
func NewRateLimiter(perSecond float64, burst int, logger domain.Logger, opts ...RateLimiterOption) *RateLimiter {
	if burst <= 0 {
		burst = 1
	}
	rl := &RateLimiter{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: cache.New(10*time.Minute, 5*time.Minute),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(rl)
	}
	return rl
}

func (rl *RateLimiter) limiterFor(ip string) *rate.Limiter {
	if l, ok := rl.limiters.Get(ip); ok {
		return l.(*rate.Limiter)
	}
	l := rate.NewLimiter(rl.limit, rl.burst)
	// Add loses the race when another request created the bucket first
	if err := rl.limiters.Add(ip, l, cache.DefaultExpiration); err != nil {
		if existing, ok := rl.limiters.Get(ip); ok {
			return existing.(*rate.Limiter)
		}
	}
	return l
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl == nil || rl.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := extractIP(r, rl.trustProxy)
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.burst))

		if !rl.limiterFor(ip).Allow() {
			rl.logger.Warn("Rate limit exceeded", "ip", ip, "path", r.URL.Path)
			retryAfter := int(1/float64(rl.limit)) + 1
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfter))
			writeJSON(w, http.StatusTooManyRequests, map[string]string{
				"error":   "Too many requests",
				"message": "Rate limit exceeded. Please try again later.",
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}

// extractIP returns the client address. Proxy headers win only when trusted.
func extractIP(r *http.Request, trustProxy bool) string {
	if !trustProxy {
		return remoteHost(r)
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return remoteHost(r)
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
