package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/csrf"
	"golang.org/x/time/rate"
)

// RateLimiter keeps one token bucket per client IP.
type RateLimiter struct {
	rate     rate.Limit
	burst    int
	visitors sync.Map // ip -> *visitor
	now      func() time.Time
}

type visitor struct {
	limiter *rate.Limiter

	mu       sync.Mutex
	lastSeen time.Time
}

// NewRateLimiter allows r requests per second with bursts of burst per IP.
func NewRateLimiter(r rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{rate: r, burst: burst, now: time.Now}
}

// Allow checks if a request from the given IP is allowed.
// PRE: ip is non-empty
// POST: Returns true if within rate limit, false if exceeded
func (rl *RateLimiter) Allow(ip string) bool {
	v, _ := rl.visitors.LoadOrStore(ip, &visitor{limiter: rate.NewLimiter(rl.rate, rl.burst)})
	vis := v.(*visitor)

	now := rl.now()
	vis.mu.Lock()
	vis.lastSeen = now
	vis.mu.Unlock()

	if !vis.limiter.AllowN(now, 1) {
		slog.Warn("rate_limit_exceeded", "ip", ip)
		return false
	}
	return true
}

// Sweep forgets visitors idle for longer than idle and returns how many were dropped.
func (rl *RateLimiter) Sweep(idle time.Duration) int {
	cutoff := rl.now().Add(-idle)
	dropped := 0
	rl.visitors.Range(func(key, value any) bool {
		vis := value.(*visitor)
		vis.mu.Lock()
		stale := vis.lastSeen.Before(cutoff)
		vis.mu.Unlock()
		if stale {
			rl.visitors.Delete(key)
			dropped++
		}
		return true
	})
	return dropped
}

// RunSweeper calls Sweep every interval until ctx is done.
func (rl *RateLimiter) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.Sweep(idle); n > 0 {
				slog.Debug("rate_limit_swept", "visitors", n)
			}
		}
	}
}

// RateLimit returns middleware that limits requests per client IP.
func RateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientIP(r)) {
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// SecurityHeaders adds OWASP recommended headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self'; img-src 'self' data:; connect-src 'self'; frame-ancestors 'none'")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

// CSRF protects form submissions. authKey must be 32 bytes.
// When secure is false requests are marked as plaintext HTTP so the
// origin check accepts http:// referers during local development.
func CSRF(authKey []byte, secure bool, trustedOrigins ...string) func(http.Handler) http.Handler {
	protect := csrf.Protect(
		authKey,
		csrf.Secure(secure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.TrustedOrigins(trustedOrigins),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
	)

	return func(next http.Handler) http.Handler {
		protected := protect(next)
		if secure {
			return protected
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			protected.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	slog.WarnContext(r.Context(), "csrf_rejected", "path", r.URL.Path, "reason", csrf.FailureReason(r))
	http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
}

// Chain applies middlewares in order (outer to inner).
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
