package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"bradhook/internal/access"

	"golang.org/x/time/rate"
)

// limiterSweepInterval is how often GetLimiter drops limiters that have
// refilled to a full bucket.
const limiterSweepInterval = time.Minute

// RateLimiter implements a simple token bucket rate limiter per client address
type RateLimiter struct {
	limiters  map[string]*rate.Limiter
	mu        sync.Mutex
	rateLimit rate.Limit // Requests per second
	burstSize int        // Maximum burst size
	lastSweep time.Time
	now       func() time.Time
}

// NewRateLimiter creates a new rate limiter
// rateLimit: requests per second
// burstSize: maximum number of requests allowed in a burst
func NewRateLimiter(rateLimit rate.Limit, burstSize int) *RateLimiter {
	return &RateLimiter{
		limiters:  make(map[string]*rate.Limiter),
		rateLimit: rateLimit,
		burstSize: burstSize,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// GetLimiter returns the rate limiter for a given address
// Creates a new limiter for the address if one doesn't exist
func (rl *RateLimiter) GetLimiter(address string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now := rl.now(); now.Sub(rl.lastSweep) >= limiterSweepInterval {
		rl.sweep(now)
	}

	limiter, exists := rl.limiters[address]
	if !exists {
		limiter = rate.NewLimiter(rl.rateLimit, rl.burstSize)
		rl.limiters[address] = limiter
	}

	return limiter
}

// sweep forgets addresses whose bucket is full again; a fresh limiter
// would behave identically. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for address, limiter := range rl.limiters {
		if limiter.TokensAt(now) >= float64(rl.burstSize) {
			delete(rl.limiters, address)
		}
	}
	rl.lastSweep = now
}

// NewTriggerRateLimitMiddleware creates middleware limiting triggers per client address
// limit: requests per minute
func NewTriggerRateLimitMiddleware(limit int, logger *slog.Logger) func(http.Handler) http.Handler {
	// Convert to requests per second
	rps := rate.Limit(float64(limit) / 60.0)
	limiter := NewRateLimiter(rps, limit)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			address := access.ClientAddress(r)

			if !limiter.GetLimiter(address).Allow() {
				logger.Warn("Trigger rate limit exceeded", "address", address, "path", r.URL.Path)
				http.Error(w, "Rate limit exceeded", http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
