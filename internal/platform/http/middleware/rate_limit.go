package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"jobtrack_backend/internal/api"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiterConfig configures a per-client-IP token bucket.
type RateLimiterConfig struct {
	RequestsPerSecond float64
	Burst             int
	// TTL is how long an idle client's bucket is kept. Defaults to 3 minutes.
	TTL time.Duration
}

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	cfg RateLimiterConfig
	now func() time.Time

	mu        sync.Mutex
	visitors  map[string]*visitor
	lastPrune time.Time
}

func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.TTL == 0 {
		cfg.TTL = 3 * time.Minute
	}
	if cfg.Burst < 1 {
		cfg.Burst = 1
	}
	return &RateLimiter{
		cfg:      cfg,
		now:      time.Now,
		visitors: make(map[string]*visitor),
	}
}

// allow reports whether ip may make a request now.
// Idle buckets are pruned inline at most once per TTL.
func (rl *RateLimiter) allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastPrune) > rl.cfg.TTL {
		for k, v := range rl.visitors {
			if now.Sub(v.lastSeen) > rl.cfg.TTL {
				delete(rl.visitors, k)
			}
		}
		rl.lastPrune = now
	}

	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Limit(rl.cfg.RequestsPerSecond), rl.cfg.Burst)}
		rl.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, api.ErrorResponse{Message: "too many requests"})
			return
		}
		c.Next()
	}
}
