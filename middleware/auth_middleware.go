package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bioscout-islamabad/backend/utils"
)

// AuthMiddleware extracts an optional bearer-token identity. Asking a
// question works anonymously; the query history endpoint requires identity.
type AuthMiddleware struct {
	secret []byte
	logger *zap.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware. An empty secret disables
// token verification entirely; every request is then anonymous.
func NewAuthMiddleware(jwtSecret string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		secret: []byte(jwtSecret),
		logger: logger,
	}
}

// identityClaims are the token claims this service cares about
type identityClaims struct {
	jwt.RegisteredClaims
}

// OptionalIdentity attaches the authenticated user ID to the context when a
// valid bearer token is present. An invalid or missing token does not fail
// the request; it proceeds anonymously.
func (m *AuthMiddleware) OptionalIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		token := extractBearerToken(r)
		if token == "" || len(m.secret) == 0 {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := m.parseUserID(token)
		if err != nil {
			m.logger.Warn("bearer token rejected, continuing anonymously",
				zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		ctx = WithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireIdentity rejects requests without a valid authenticated user.
// Should be stacked after OptionalIdentity.
func (m *AuthMiddleware) RequireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if GetUserIDFromContext(r.Context()) == nil {
			_ = utils.WriteUnauthorized(w, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// parseUserID validates the token signature and extracts the subject as the
// user ID
func (m *AuthMiddleware) parseUserID(tokenString string) (*uuid.UUID, error) {
	claims := &identityClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("invalid subject claim: %w", err)
	}

	return &userID, nil
}

// extractBearerToken extracts the Bearer token from the Authorization header
func extractBearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
