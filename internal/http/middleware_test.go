package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/domain"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/repository"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/store"
)

func newTestAuth(t *testing.T) service.AuthService {
	t.Helper()
	return service.NewAuthService(
		repository.NewMemoryProfilesRepository(),
		store.NewMemoryKV(),
		"test-secret",
		time.Hour,
		zap.NewNop(),
	)
}

func registerTestUser(t *testing.T, auth service.AuthService, email, role string) string {
	t.Helper()
	session, err := auth.Register(context.Background(), service.RegisterRequest{
		Email:    email,
		Password: "correct-horse",
		Role:     role,
	})
	require.NoError(t, err)
	return session.AccessToken
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Result[any] {
	t.Helper()
	var out Result[any]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestAuthenticateMissingToken(t *testing.T) {
	auth := newTestAuth(t)
	m := NewMiddleware(auth, zap.NewNop())

	h := m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, ResultTokenExpired, decodeEnvelope(t, rec).Code)
}

func TestAuthenticateBadToken(t *testing.T) {
	auth := newTestAuth(t)
	m := NewMiddleware(auth, zap.NewNop())

	h := m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatePassesPrincipal(t *testing.T) {
	auth := newTestAuth(t)
	m := NewMiddleware(auth, zap.NewNop())
	token := registerTestUser(t, auth, "alex@example.com", domain.RoleLandlord)

	var seen service.Principal
	h := m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		p, ok := PrincipalFrom(r.Context())
		require.True(t, ok)
		seen = p
		writeJSON(w, http.StatusOK, Ok("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leases", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alex@example.com", seen.Email)
	assert.Equal(t, domain.RoleLandlord, seen.Role)
}

func TestRequireRole(t *testing.T) {
	auth := newTestAuth(t)
	m := NewMiddleware(auth, zap.NewNop())
	landlordToken := registerTestUser(t, auth, "alex@example.com", domain.RoleLandlord)
	tenantToken := registerTestUser(t, auth, "jordan@example.com", domain.RoleTenant)

	called := false
	h := m.RequireRole(domain.RoleLandlord, func(w http.ResponseWriter, r *http.Request) {
		called = true
		writeJSON(w, http.StatusOK, Ok("ok"))
	})

	// Tenant hits the landlord gate: 403, handler never runs.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/properties", nil)
	req.Header.Set("Authorization", "Bearer "+tenantToken)
	rec := httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)

	// No token at all: 401 with the token-expired code.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/properties", nil)
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	// The right role passes.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/properties", nil)
	req.Header.Set("Authorization", "Bearer "+landlordToken)
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}
