package middleware

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"Loom/internal/api/handlers/common"
)

// RateLimiter is a fixed-window in-memory limiter. Requests are keyed by
// the authenticated user id when present, otherwise by client IP.
type RateLimiter struct {
	clients  map[string]*clientLimit
	requests int
	window   time.Duration
	logger   *zap.Logger
	mu       sync.Mutex
}

type clientLimit struct {
	resetTime time.Time
	count     int
}

// NewRateLimiter creates a limiter allowing `requests` per `window` and
// starts the cleanup loop.
func NewRateLimiter(requests int, window time.Duration, logger *zap.Logger) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientLimit),
		requests: requests,
		window:   window,
		logger:   logger,
	}

	go rl.cleanup()

	return rl
}

// Middleware returns the rate limiting middleware.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := GetUserID(r.Context())
		if clientID == "" {
			clientID = getClientIP(r)
		}

		if !rl.allow(clientID) {
			common.WriteProblem(w, r, rl.logger, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now().UTC()

	client, exists := rl.clients[clientID]
	if !exists {
		rl.clients[clientID] = &clientLimit{
			count:     1,
			resetTime: now.Add(rl.window),
		}
		return true
	}

	if now.After(client.resetTime) {
		client.count = 1
		client.resetTime = now.Add(rl.window)
		return true
	}

	if client.count < rl.requests {
		client.count++
		return true
	}

	return false
}

// cleanup removes expired client entries every window.
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := time.Now().UTC()
		for clientID, client := range rl.clients {
			if now.After(client.resetTime) {
				delete(rl.clients, clientID)
			}
		}
		rl.mu.Unlock()
	}
}

func getClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
