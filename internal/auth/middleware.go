package auth

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// Middleware handles authentication for HTTP requests
type Middleware struct {
	issuer *TokenIssuer
	logger *zap.Logger
}

// NewMiddleware creates a new authentication middleware
func NewMiddleware(issuer *TokenIssuer, logger *zap.Logger) *Middleware {
	return &Middleware{
		issuer: issuer,
		logger: logger,
	}
}

// Authenticate resolves the bearer token into an Actor and stores it on the
// request context. Requests without a valid token are rejected.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			http.Error(w, "Unauthorized: missing authorization header", http.StatusUnauthorized)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			http.Error(w, "Unauthorized: invalid authorization header format", http.StatusUnauthorized)
			return
		}

		actor, err := m.issuer.Validate(parts[1])
		if err != nil {
			m.logger.Warn("token validation failed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Error(err),
			)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
	})
}

// RequireStaff rejects requests from carrier users. Must run after
// Authenticate.
func (m *Middleware) RequireStaff(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := FromContext(r.Context())
		if !ok || !actor.IsStaff() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin rejects requests from non-admin users. Must run after
// Authenticate.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actor, ok := FromContext(r.Context())
		if !ok || !actor.IsAdmin() {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
