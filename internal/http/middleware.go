package httpapi

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/yasharisherenow/rentpilot-essentials-kit-sub000/internal/service"
)

type principalKey struct{}

// PrincipalFrom returns the authenticated caller stored by the auth
// middleware. The second return is false on unauthenticated routes.
func PrincipalFrom(ctx context.Context) (service.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(service.Principal)
	return p, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// Middleware resolves bearer tokens and gates routes by role.
type Middleware struct {
	auth   service.AuthService
	logger *zap.Logger
}

func NewMiddleware(auth service.AuthService, logger *zap.Logger) *Middleware {
	return &Middleware{auth: auth, logger: logger}
}

// Authenticate resolves the bearer token to a Principal and stores it in
// the request context. A missing or dead token gets 401 with the
// token-expired code so the frontend interceptor redirects to sign-in.
func (m *Middleware) Authenticate(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeJSON(w, http.StatusUnauthorized, FailToken("missing bearer token"))
			return
		}
		principal, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, FailToken("invalid or expired token"))
			return
		}
		ctx := context.WithValue(r.Context(), principalKey{}, *principal)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole runs after Authenticate and rejects callers whose role does
// not match. Wrong role is 403, never a silent fallback.
func (m *Middleware) RequireRole(role string, next http.HandlerFunc) http.HandlerFunc {
	return m.Authenticate(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFrom(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, FailToken("missing bearer token"))
			return
		}
		if principal.Role != role {
			m.logger.Warn("role gate rejected request",
				zap.String("path", r.URL.Path),
				zap.String("role", principal.Role),
				zap.String("required", role),
			)
			writeJSON(w, http.StatusForbidden, Fail("forbidden"))
			return
		}
		next(w, r)
	})
}
