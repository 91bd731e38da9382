package httpx

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a client may stay silent before its limiter is
// dropped.
const limiterIdleTTL = 3 * time.Minute

// RateLimit allows rps requests per second per client address, with a burst
// of twice that. Install it after chi's RealIP so proxies are seen through.
func RateLimit(rps int) func(http.Handler) http.Handler {
	clients := newClientLimiters(rps, limiterIdleTTL, time.Now)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !clients.get(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "1")
				Fail(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type clientLimiters struct {
	mu        sync.Mutex
	rps       int
	idle      time.Duration
	now       func() time.Time
	lastSweep time.Time
	entries   map[string]*clientLimiter
}

func newClientLimiters(rps int, idle time.Duration, now func() time.Time) *clientLimiters {
	return &clientLimiters{
		rps:       rps,
		idle:      idle,
		now:       now,
		lastSweep: now(),
		entries:   map[string]*clientLimiter{},
	}
}

// get returns the limiter for ip. At most once per idle period it also drops
// clients that have not been seen for that long.
func (c *clientLimiters) get(ip string) *rate.Limiter {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if now.Sub(c.lastSweep) >= c.idle {
		for k, e := range c.entries {
			if now.Sub(e.lastSeen) >= c.idle {
				delete(c.entries, k)
			}
		}
		c.lastSweep = now
	}

	e, ok := c.entries[ip]
	if !ok {
		e = &clientLimiter{limiter: rate.NewLimiter(rate.Limit(c.rps), 2*c.rps)}
		c.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
