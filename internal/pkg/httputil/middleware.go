package httputil

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/skillbridge/skillbridge-api/internal/domain"
	"golang.org/x/time/rate"
)

// AccessTokenCookie is the cookie carrying the access token.
const AccessTokenCookie = "access_token"

// RefreshTokenCookie is the cookie carrying the refresh token.
const RefreshTokenCookie = "refresh_token"

// CSRFTokenCookie is the JavaScript-readable CSRF token cookie.
const CSRFTokenCookie = "csrf_token"

// CORSMiddleware creates CORS middleware that handles preflight requests
// and adds appropriate CORS headers to responses.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	originsSet := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		originsSet[o] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			if originsSet[origin] || originsSet["*"] {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
				w.Header().Set("Access-Control-Max-Age", "86400")
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type contextKey string

const identityKey contextKey = "identity"

// SessionResolver resolves an access token into the caller's current
// identity. Implementations must load fresh user state, not token claims
// alone, so bans and role changes take effect immediately.
type SessionResolver interface {
	ResolveSession(ctx context.Context, token string) (*domain.Identity, error)
}

// AuthMiddleware creates the authentication half of the access control gate.
// It resolves the session from the access_token cookie or a bearer header,
// rejects unauthenticated (401) and unverified (403) callers, and attaches
// the identity to the request context.
func AuthMiddleware(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				Error(w, http.StatusUnauthorized, "you are not authorized")
				return
			}

			identity, err := resolver.ResolveSession(r.Context(), token)
			if err != nil {
				Error(w, http.StatusUnauthorized, "you are not authorized")
				return
			}

			if !identity.EmailVerified {
				Error(w, http.StatusForbidden, "email verification has not been completed")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, *identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole creates the authorization half of the gate. An empty role set
// passes any authenticated identity; a non-empty set rejects identities
// whose role is not a member.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := IdentityFromContext(r.Context())
			if !ok {
				Error(w, http.StatusUnauthorized, "you are not authorized")
				return
			}

			if len(roles) > 0 && !roleAllowed(identity.Role, roles) {
				Error(w, http.StatusForbidden, "forbidden: you don't have permission to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func roleAllowed(role domain.Role, allowed []domain.Role) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// IdentityFromContext extracts the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (domain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(domain.Identity)
	return identity, ok
}

// WithIdentity attaches an identity to the context. Used by tests.
func WithIdentity(ctx context.Context, identity domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := r.Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

const (
	// limiterIdleTTL is how long a client bucket may sit unused before a
	// sweep may drop it.
	limiterIdleTTL = 10 * time.Minute

	// limiterSweepThreshold is the map size past which inserting a new
	// client first sweeps idle entries, bounding growth under address
	// churn.
	limiterSweepThreshold = 1024
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipRateLimiter hands out one token bucket per client IP.
type ipRateLimiter struct {
	mu      sync.Mutex
	rps     rate.Limit
	burst   int
	clients map[string]*clientLimiter
}

func newIPRateLimiter(rps float64, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
}

func (rl *ipRateLimiter) allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	c, ok := rl.clients[ip]
	if !ok {
		if len(rl.clients) >= limiterSweepThreshold {
			rl.sweep(now)
		}
		c = &clientLimiter{limiter: rate.NewLimiter(rl.rps, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.AllowN(now, 1)
}

// sweep drops clients idle past the TTL. Caller holds mu.
func (rl *ipRateLimiter) sweep(now time.Time) {
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) > limiterIdleTTL {
			delete(rl.clients, ip)
		}
	}
}

// RateLimitMiddleware limits requests per client IP with a token bucket.
// Applied to credential endpoints only.
func RateLimitMiddleware(rps float64, burst int) func(http.Handler) http.Handler {
	rl := newIPRateLimiter(rps, burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !rl.allow(ip, time.Now()) {
				Error(w, http.StatusTooManyRequests, "too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
