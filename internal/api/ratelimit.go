package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	limiterSweepEvery = 5 * time.Minute
	limiterStaleAfter = 10 * time.Minute
)

// limiterPool tracks one token bucket per client IP and evicts buckets
// for IPs that have gone quiet.
type limiterPool struct {
	mu      sync.Mutex
	buckets map[string]*clientBucket
	rps     int
	burst   int
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newLimiterPool(rps, burst int) *limiterPool {
	p := &limiterPool{
		buckets: make(map[string]*clientBucket),
		rps:     rps,
		burst:   burst,
	}
	go p.sweep()
	return p
}

func (p *limiterPool) allow(ip string) bool {
	p.mu.Lock()
	b, ok := p.buckets[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(rate.Limit(p.rps), p.burst)}
		p.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	p.mu.Unlock()

	return b.limiter.Allow()
}

func (p *limiterPool) sweep() {
	for {
		time.Sleep(limiterSweepEvery)
		p.mu.Lock()
		for ip, b := range p.buckets {
			if time.Since(b.lastSeen) > limiterStaleAfter {
				delete(p.buckets, ip)
			}
		}
		p.mu.Unlock()
	}
}

// RateLimiter returns a Gin middleware that enforces per-IP token-bucket
// rate limiting. rps is the steady-state requests per second; burst is
// the maximum burst size.
func RateLimiter(rps, burst int) gin.HandlerFunc {
	pool := newLimiterPool(rps, burst)
	return func(c *gin.Context) {
		if !pool.allow(c.ClientIP()) {
			c.Header("Retry-After", "1")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}
