package middleware

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"contentlib/pkg/metrics"

	"golang.org/x/time/rate"
)

// clientIP prefers the first X-Forwarded-For hop and falls back to the
// connection address.
func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if ip := strings.TrimSpace(strings.Split(fwd, ",")[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	return host
}

func tooManyRequests(w http.ResponseWriter, retryAfter string) {
	w.Header().Set("Retry-After", retryAfter)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	w.Write([]byte(`{"error":"Rate limit exceeded"}`))
}

const (
	limiterIdleTTL    = 10 * time.Minute
	limiterSweepEvery = time.Minute
)

type visitor struct {
	lim      *rate.Limiter
	lastSeen atomic.Int64 // unix nanos
}

// memoryLimiter keeps one token bucket per key and forgets keys that have
// been idle for longer than idle. A forgotten key starts again with a full
// bucket, so idle is never shorter than the time a bucket takes to refill.
type memoryLimiter struct {
	rps   rate.Limit
	burst int
	idle  time.Duration // 0 keeps every key

	visitors  sync.Map // map[string]*visitor
	lastSweep atomic.Int64
}

func newMemoryLimiter(rps float64, burst int) *memoryLimiter {
	m := &memoryLimiter{rps: rate.Limit(rps), burst: burst}
	if rps > 0 {
		m.idle = limiterIdleTTL
		if refill := time.Duration(float64(burst) / rps * float64(time.Second)); refill > m.idle {
			m.idle = refill
		}
	}
	m.lastSweep.Store(timeNow().UnixNano())
	return m
}

func (m *memoryLimiter) allow(key string) bool {
	now := timeNow()
	if last := m.lastSweep.Load(); now.UnixNano()-last >= int64(limiterSweepEvery) &&
		m.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		m.sweep(now)
	}

	v, ok := m.visitors.Load(key)
	if !ok {
		v, _ = m.visitors.LoadOrStore(key, &visitor{lim: rate.NewLimiter(m.rps, m.burst)})
	}
	vis := v.(*visitor)
	vis.lastSeen.Store(now.UnixNano())
	return vis.lim.Allow()
}

// sweep drops every key last seen before now minus the idle window.
func (m *memoryLimiter) sweep(now time.Time) {
	if m.idle <= 0 {
		return
	}
	cutoff := now.Add(-m.idle).UnixNano()
	m.visitors.Range(func(k, v any) bool {
		if v.(*visitor).lastSeen.Load() < cutoff {
			m.visitors.CompareAndDelete(k, v)
		}
		return true
	})
}

// RateLimitMiddleware enforces an in-memory token bucket per client IP.
// rps = allowed events per second, burst = maximum tokens in bucket.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	limiter := newMemoryLimiter(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.allow("ip:" + clientIP(r)) {
				metrics.RateLimitRejected.WithLabelValues("memory").Inc()
				tooManyRequests(w, "1")
				return
			}
			metrics.RateLimitAllowed.WithLabelValues("memory").Inc()
			next.ServeHTTP(w, r)
		})
	}
}
