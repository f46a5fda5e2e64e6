package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   rate.Limit
	burst   int
	now     func() time.Time
}

// NewRateLimiter allows burst requests per key, refilled at one token per
// interval. A zero interval disables limiting.
func NewRateLimiter(burst int, interval time.Duration) *RateLimiter {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		burst:   burst,
		now:     time.Now,
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = rl.now()
	return b.limiter
}

// Reserve takes a token for key. ok is false when the caller must wait
// retryAfter before trying again.
func (rl *RateLimiter) Reserve(key string) (ok bool, retryAfter time.Duration) {
	lim := rl.get(key)
	now := rl.now()
	res := lim.ReserveN(now, 1)
	if !res.OK() {
		return false, time.Minute
	}
	if d := res.DelayFrom(now); d > 0 {
		res.CancelAt(now)
		return false, d
	}
	return true, 0
}

// Sweep drops buckets idle for longer than maxIdle.
func (rl *RateLimiter) Sweep(maxIdle time.Duration) int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	now := rl.now()
	n := 0
	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > maxIdle {
			delete(rl.buckets, key)
			n++
		}
	}
	return n
}

// ClientKey prefers the session id and falls back to the remote IP. A
// session minted on this request keys on the IP.
func ClientKey(r *http.Request) string {
	if sid := SessionID(r.Context()); sid != "" && !SessionIssued(r.Context()) {
		return "session:" + string(sid)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ip:" + host
}

// RateLimit rejects requests over the limit with 429.
func RateLimit(rl *RateLimiter, key func(*http.Request) string) func(http.Handler) http.Handler {
	if key == nil {
		key = ClientKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, wait := rl.Reserve(key(r))
			if !ok {
				secs := int(math.Ceil(wait.Seconds()))
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				http.Error(w, "rate limit exceeded, please try again later", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
