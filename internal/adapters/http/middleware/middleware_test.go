package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/csrf"
)

func TestRateLimiter_Allow(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 2)
	rl.now = func() time.Time { return now }

	if !rl.Allow("10.0.0.1") || !rl.Allow("10.0.0.1") {
		t.Fatal("burst of 2 should be allowed")
	}
	if rl.Allow("10.0.0.1") {
		t.Error("third immediate request should be limited")
	}
	if !rl.Allow("10.0.0.2") {
		t.Error("other IPs have their own bucket")
	}

	now = now.Add(time.Second)
	if !rl.Allow("10.0.0.1") {
		t.Error("a token should refill after one second")
	}
}

func TestRateLimiter_Sweep(t *testing.T) {
	now := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, 1)
	rl.now = func() time.Time { return now }

	rl.Allow("10.0.0.1")
	now = now.Add(10 * time.Minute)
	rl.Allow("10.0.0.2")

	if n := rl.Sweep(5 * time.Minute); n != 1 {
		t.Errorf("Sweep() = %d, want 1", n)
	}
	if n := rl.Sweep(5 * time.Minute); n != 0 {
		t.Errorf("second Sweep() = %d, want 0", n)
	}
}

func TestRateLimit_Middleware(t *testing.T) {
	rl := NewRateLimiter(0, 1)
	handler := RateLimit(rl)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "192.0.2.7:5000"
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", rr.Code)
	}

	req.RemoteAddr = "192.0.2.7:5001"
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("second status = %d, want 429 (port must not split buckets)", rr.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	SecurityHeaders(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	for header, want := range map[string]string{
		"X-Frame-Options":        "DENY",
		"X-Content-Type-Options": "nosniff",
		"Referrer-Policy":        "strict-origin-when-cross-origin",
	} {
		if got := rr.Header().Get(header); got != want {
			t.Errorf("%s = %q, want %q", header, got, want)
		}
	}
	if !strings.Contains(rr.Header().Get("Content-Security-Policy"), "default-src 'self'") {
		t.Errorf("CSP = %q", rr.Header().Get("Content-Security-Policy"))
	}
}

// TestCSRF_RejectsTokenlessPost verifies forms without a token are refused
// while safe methods pass and expose a token.
func TestCSRF_RejectsTokenlessPost(t *testing.T) {
	var token string
	handler := CSRF([]byte("0123456789abcdef0123456789abcdef"), false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token = csrf.Token(r)
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/auth/login", nil))
	if rr.Code != http.StatusOK || token == "" {
		t.Fatalf("GET status = %d, token = %q", rr.Code, token)
	}

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/auth/logout", strings.NewReader("")))
	if rr.Code != http.StatusForbidden {
		t.Errorf("tokenless POST status = %d, want 403", rr.Code)
	}
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "outer,inner,handler" {
		t.Errorf("order = %v", order)
	}
}
