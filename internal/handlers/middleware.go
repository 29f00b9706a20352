package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"codefit/internal/security"
	"codefit/internal/utils"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	secretHash  string
	rateLimiter *security.RateLimiter
}

// NewMiddleware creates a new middleware instance. secretHash is the bcrypt
// hash of the local API secret; an empty hash disables authentication,
// which is the default for a localhost-only companion.
func NewMiddleware(secretHash string, rateLimiter *security.RateLimiter) *Middleware {
	return &Middleware{
		secretHash:  secretHash,
		rateLimiter: rateLimiter,
	}
}

// RequireToken checks the bearer token against the configured API secret
func (m *Middleware) RequireToken(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.secretHash == "" {
			next(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || !utils.CheckSecret(token, m.secretHash) {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}
		next(w, r)
	}
}

// RateLimit applies the per-client rate limiter
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.rateLimiter.Allow(security.GetClientIP(r)) {
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		next.ServeHTTP(w, r)

		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
