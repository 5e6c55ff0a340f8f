package httputil

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/skillbridge-api/internal/domain"
)

// mockResolver implements SessionResolver for testing.
type mockResolver struct {
	identity *domain.Identity
	err      error
}

func (m *mockResolver) ResolveSession(_ context.Context, _ string) (*domain.Identity, error) {
	return m.identity, m.err
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_NoTokenUnauthorized(t *testing.T) {
	handler := AuthMiddleware(&mockResolver{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_InvalidTokenUnauthorized(t *testing.T) {
	resolver := &mockResolver{err: errors.New("invalid token")}
	handler := AuthMiddleware(resolver)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "garbage"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthMiddleware_UnverifiedEmailForbidden(t *testing.T) {
	resolver := &mockResolver{identity: &domain.Identity{ID: "user-1", EmailVerified: false}}
	handler := AuthMiddleware(resolver)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthMiddleware_CookieTokenAttachesIdentity(t *testing.T) {
	resolver := &mockResolver{identity: &domain.Identity{
		ID: "user-1", Role: domain.RoleAdmin, EmailVerified: true,
	}}

	var got domain.Identity
	var ok bool
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(resolver)(inner)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "token"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, ok)
	assert.Equal(t, "user-1", got.ID)
	assert.Equal(t, domain.RoleAdmin, got.Role)
}

func TestAuthMiddleware_BearerHeaderAccepted(t *testing.T) {
	resolver := &mockResolver{identity: &domain.Identity{ID: "user-1", EmailVerified: true}}
	handler := AuthMiddleware(resolver)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole_NoIdentityUnauthorized(t *testing.T) {
	handler := RequireRole(domain.RoleAdmin)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole_MembershipSemantics(t *testing.T) {
	cases := []struct {
		name     string
		allowed  []domain.Role
		role     domain.Role
		wantCode int
	}{
		{"exact match", []domain.Role{domain.RoleAdmin}, domain.RoleAdmin, http.StatusOK},
		{"not a member", []domain.Role{domain.RoleAdmin}, domain.RoleTutor, http.StatusForbidden},
		{"one of several", []domain.Role{domain.RoleTutor, domain.RoleAdmin}, domain.RoleTutor, http.StatusOK},
		{"empty set passes any", nil, domain.RoleStudent, http.StatusOK},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			handler := RequireRole(tc.allowed...)(okHandler())

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			ctx := WithIdentity(req.Context(), domain.Identity{ID: "user-1", Role: tc.role})
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req.WithContext(ctx))

			assert.Equal(t, tc.wantCode, rec.Code)
		})
	}
}

func TestRateLimitMiddleware_BlocksAfterBurst(t *testing.T) {
	handler := RateLimitMiddleware(1, 2)(okHandler())

	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestIPRateLimiter_SweepsIdleClients(t *testing.T) {
	rl := newIPRateLimiter(1, 1)
	start := time.Now()

	for i := 0; i < limiterSweepThreshold; i++ {
		rl.allow(fmt.Sprintf("10.0.%d.%d", i/256, i%256), start)
	}
	require.Len(t, rl.clients, limiterSweepThreshold)

	// The next insert past the idle TTL sweeps everything stale.
	assert.True(t, rl.allow("192.168.0.1", start.Add(limiterIdleTTL+time.Second)))
	assert.Len(t, rl.clients, 1)
}

func TestIPRateLimiter_SweepKeepsActiveClients(t *testing.T) {
	rl := newIPRateLimiter(0.0001, 1)
	start := time.Now()

	for i := 0; i < limiterSweepThreshold; i++ {
		rl.allow(fmt.Sprintf("10.1.%d.%d", i/256, i%256), start)
	}

	// One client stays active just inside the TTL; its exhausted bucket
	// must survive the sweep rather than being replaced by a fresh one.
	sweepAt := start.Add(limiterIdleTTL + time.Second)
	require.False(t, rl.allow("10.1.0.0", sweepAt.Add(-time.Second)))

	assert.True(t, rl.allow("192.168.0.1", sweepAt))
	assert.Len(t, rl.clients, 2)
	assert.False(t, rl.allow("10.1.0.0", sweepAt))
}

func TestRateLimitMiddleware_PerIP(t *testing.T) {
	handler := RateLimitMiddleware(1, 1)(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.1:1"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, first)
	require.Equal(t, http.StatusOK, rec.Code)

	// Same IP is exhausted, a different IP is not.
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.1:2"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)

	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1"
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}
