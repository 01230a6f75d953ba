package httputil

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitMiddleware limits requests per client IP. Intended for the
// credential endpoints (login/register); exceeding the limit yields 429.
func RateLimitMiddleware(perMinute, burst int) func(http.Handler) http.Handler {
	limiter := newIPLimiter(rate.Limit(float64(perMinute)/60.0), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.allow(ip) {
				Error(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ipLimiter keeps a token bucket per client IP. Stale entries are evicted
// lazily so the map does not grow without bound.
type ipLimiter struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	clients  map[string]*clientBucket
	lastSeen time.Duration
}

type clientBucket struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limit:    limit,
		burst:    burst,
		clients:  make(map[string]*clientBucket),
		lastSeen: 10 * time.Minute,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	b, ok := l.clients[ip]
	if !ok {
		if len(l.clients) > 1024 {
			l.evictStale(now)
		}
		b = &clientBucket{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = b
	}
	b.seen = now

	return b.limiter.Allow()
}

func (l *ipLimiter) evictStale(now time.Time) {
	for ip, b := range l.clients {
		if now.Sub(b.seen) > l.lastSeen {
			delete(l.clients, ip)
		}
	}
}
