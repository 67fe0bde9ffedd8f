package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LoginRateLimiter throttles the login route per client IP.
type LoginRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
}

// NewLoginRateLimiter creates a rate limiter that cleans up stale entries
// periodically until ctx is canceled. A nil ctx keeps the cleanup goroutine
// running for the process lifetime.
func NewLoginRateLimiter(ctx context.Context) *LoginRateLimiter {
	if ctx == nil {
		ctx = context.Background()
	}
	rl := &LoginRateLimiter{
		limiters: make(map[string]*ipLimiter),
	}
	go rl.cleanup(ctx)
	return rl
}

// Middleware returns an HTTP middleware that rate-limits requests by client IP.
// Allows 5 requests per minute with a burst of 5.
func (rl *LoginRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := clientIP(r)
		limiter := rl.getLimiter(ip)
		if !limiter.Allow() {
			http.Error(w, `{"error":"too many requests"}`, http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *LoginRateLimiter) getLimiter(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, exists := rl.limiters[ip]
	if !exists {
		// 5 requests per minute (1 every 12 seconds) with burst of 5
		entry = &ipLimiter{
			limiter: rate.NewLimiter(rate.Every(12*time.Second), 5),
		}
		rl.limiters[ip] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *LoginRateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.mu.Lock()
			for ip, entry := range rl.limiters {
				if time.Since(entry.lastSeen) > 15*time.Minute {
					delete(rl.limiters, ip)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// clientIP resolves the address the limiter keys on. Forwarding headers are
// honored only when the direct peer is a private address, i.e. the reverse
// proxy in front of this service; a public peer could otherwise spoof
// X-Forwarded-For to dodge the limit. Of the forwarded chain, only the
// rightmost entry was appended by the proxy itself and cannot be forged.
func clientIP(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if !isPrivateIP(remote) {
		return remote
	}
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[len(parts)-1]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-Ip"); xri != "" {
		return xri
	}
	return remote
}

func isPrivateIP(s string) bool {
	ip := net.ParseIP(s)
	if ip == nil {
		return false
	}
	return ip.IsLoopback() || ip.IsPrivate()
}
