package httpserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/fairyhunter13/ai-career-coach/internal/domain"
)

type userIDKey struct{}

// UserClaims are the token claims issued by the identity service. Subject
// carries the user id.
type UserClaims struct {
	jwt.RegisteredClaims
}

// AuthMiddleware validates the bearer token, confirms the account still
// exists, and stores the user id in the request context.
func AuthMiddleware(secret string, users domain.ProfileRepository) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := authenticate(r, secret, users)
			if err != nil {
				writeError(w, r, err, nil)
				return
			}
			ctx := context.WithValue(r.Context(), userIDKey{}, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func authenticate(r *http.Request, secret string, users domain.ProfileRepository) (string, error) {
	token, err := bearerToken(r)
	if err != nil {
		return "", err
	}

	claims := &UserClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return "", fmt.Errorf("%w: invalid token", domain.ErrUnauthenticated)
	}

	userID := claims.Subject
	if _, err := uuid.Parse(userID); err != nil {
		return "", fmt.Errorf("%w: malformed subject", domain.ErrUnauthenticated)
	}

	exists, err := users.UserExists(r.Context(), userID)
	if err != nil {
		return "", fmt.Errorf("%w: identity check failed", domain.ErrInternal)
	}
	if !exists {
		return "", fmt.Errorf("%w: user not found", domain.ErrNotFound)
	}
	return userID, nil
}

func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", fmt.Errorf("%w: missing authorization header", domain.ErrUnauthenticated)
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("%w: malformed authorization header", domain.ErrUnauthenticated)
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", fmt.Errorf("%w: empty bearer token", domain.ErrUnauthenticated)
	}
	return token, nil
}

// UserIDFrom returns the authenticated user id stored by AuthMiddleware.
func UserIDFrom(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(userIDKey{}).(string)
	return id, ok
}
