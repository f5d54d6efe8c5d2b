package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPLimiter hands out one token bucket per client address.
type IPLimiter struct {
	mu       sync.Mutex
	limiters map[string]*visitor
	limit    rate.Limit
	burst    int
	idle     time.Duration
	now      func() time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewIPLimiter allows perMinute requests per address, with bursts up to perMinute.
func NewIPLimiter(perMinute int) *IPLimiter {
	if perMinute <= 0 {
		perMinute = 1
	}
	return &IPLimiter{
		limiters: make(map[string]*visitor),
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    perMinute,
		idle:     10 * time.Minute,
		now:      time.Now,
	}
}

func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	v, ok := l.limiters[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[ip] = v
	}
	v.lastSeen = now
	l.sweep(now)
	return v.limiter.AllowN(now, 1)
}

// sweep drops visitors idle longer than l.idle. Caller holds l.mu.
func (l *IPLimiter) sweep(now time.Time) {
	for ip, v := range l.limiters {
		if now.Sub(v.lastSeen) > l.idle {
			delete(l.limiters, ip)
		}
	}
}

// Handler rejects requests over the limit with 429. It keys on RemoteAddr, so mount it after chi's RealIP.
func (l *IPLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		if !l.Allow(ip) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}
