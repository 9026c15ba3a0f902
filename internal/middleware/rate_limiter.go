package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/srouini/SmartStore/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// slidingWindow counts requests per client IP inside fixed-length windows.
// An entry resets lazily when its window lapses; a background sweep drops
// entries for IPs that never came back.
type slidingWindow struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	clients map[string]*windowCount
}

type windowCount struct {
	count int
	until time.Time
}

func newSlidingWindow(limit int, window time.Duration) *slidingWindow {
	sw := &slidingWindow{
		limit:   limit,
		window:  window,
		clients: make(map[string]*windowCount),
	}
	go sw.sweep()
	return sw
}

// allow records one hit for ip and reports whether it stays under the
// limit, along with when the current window closes.
func (sw *slidingWindow) allow(ip string) (bool, time.Time) {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	now := time.Now()
	wc, ok := sw.clients[ip]
	if !ok || now.After(wc.until) {
		wc = &windowCount{until: now.Add(sw.window)}
		sw.clients[ip] = wc
	}
	wc.count++
	return wc.count <= sw.limit, wc.until
}

const sweepInterval = 5 * time.Minute

func (sw *slidingWindow) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		sw.mu.Lock()
		swept := 0
		for ip, wc := range sw.clients {
			if now.After(wc.until) {
				delete(sw.clients, ip)
				swept++
			}
		}
		remaining := len(sw.clients)
		sw.mu.Unlock()

		if swept > 0 {
			log.Debug().
				Int("swept", swept).
				Int("remaining", remaining).
				Msg("rate limiter window sweep")
		}
	}
}

// RateLimiter caps requests per IP across the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	sw := newSlidingWindow(limit, window)
	return func(c *gin.Context) {
		ok, until := sw.allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", until.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many requests. Try again shortly."))
			return
		}
		c.Next()
	}
}

// LoginRateLimiter is the tighter limiter on the credential endpoint: 20
// attempts per minute per IP, enough for a mistyped password but not for
// online guessing.
func LoginRateLimiter() gin.HandlerFunc {
	sw := newSlidingWindow(20, time.Minute)
	return func(c *gin.Context) {
		if ok, _ := sw.allow(c.ClientIP()); !ok {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("Too many login attempts. Try again in a minute."))
			return
		}
		c.Next()
	}
}
