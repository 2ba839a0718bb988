package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/juju/ratelimit"
	"github.com/phrazzld/flashlists/internal/api/shared"
)

// BucketRule configures one token bucket per client IP.
type BucketRule struct {
	FillInterval time.Duration
	Capacity     int64
	Quantum      int64
}

// RateLimiter keeps a token bucket per client IP.
type RateLimiter struct {
	rule BucketRule
	now  func() time.Time

	mu      sync.Mutex
	buckets map[string]*clientBucket
}

type clientBucket struct {
	bucket   *ratelimit.Bucket
	lastSeen time.Time
}

// NewRateLimiter creates a limiter. Capacity requests are allowed in a burst,
// then Quantum more every FillInterval.
func NewRateLimiter(rule BucketRule) *RateLimiter {
	if rule.FillInterval <= 0 {
		rule.FillInterval = time.Second
	}
	if rule.Capacity <= 0 {
		rule.Capacity = 10
	}
	if rule.Quantum <= 0 {
		rule.Quantum = 1
	}
	return &RateLimiter{
		rule:    rule,
		now:     time.Now,
		buckets: make(map[string]*clientBucket),
	}
}

// Allow takes one token from the bucket of key.
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	cb, ok := l.buckets[key]
	if !ok {
		cb = &clientBucket{
			bucket: ratelimit.NewBucketWithQuantum(l.rule.FillInterval, l.rule.Capacity, l.rule.Quantum),
		}
		l.buckets[key] = cb
	}
	cb.lastSeen = l.now()
	l.mu.Unlock()

	return cb.bucket.TakeAvailable(1) > 0
}

// Sweep drops buckets idle for longer than idle and returns how many were
// removed. An idle bucket is full again, so dropping it changes nothing for
// the client.
func (l *RateLimiter) Sweep(idle time.Duration) int {
	cutoff := l.now().Add(-idle)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for key, cb := range l.buckets {
		if cb.lastSeen.Before(cutoff) {
			delete(l.buckets, key)
			removed++
		}
	}
	return removed
}

// Middleware rejects requests with 429 once the client's bucket is empty.
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(ClientIP(r)) {
			w.Header().Set("Retry-After", retryAfter(l.rule.FillInterval))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many requests", nil)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP returns the first X-Forwarded-For address, or the host of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfter(d time.Duration) string {
	secs := int(d.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
