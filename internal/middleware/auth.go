package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/phanicodella/talentsync/internal/models"
	"github.com/phanicodella/talentsync/internal/utils"
)

const authUserKey contextKey = "auth_user"

// UserClaims are the caller's identity claims carried in the bearer token.
type UserClaims struct {
	UserID string `json:"id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Auth validates a Bearer token on every request. An empty secret disables
// authentication entirely and returns a pass-through middleware.
func Auth(secret string) func(http.Handler) http.Handler {
	if secret == "" {
		return func(next http.Handler) http.Handler { return next }
	}
	key := []byte(secret)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := extractBearer(r.Header.Get("Authorization"))
			if err != nil {
				utils.JSON(w, http.StatusUnauthorized, models.Fail("No authentication token provided"))
				return
			}

			claims := &UserClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, errors.New("unexpected signing method")
				}
				return key, nil
			})
			if err != nil || !parsed.Valid {
				utils.JSON(w, http.StatusUnauthorized, models.Fail("Invalid authentication token"))
				return
			}

			ctx := context.WithValue(r.Context(), authUserKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserClaims returns the authenticated caller's claims, or nil when auth
// is disabled.
func GetUserClaims(r *http.Request) *UserClaims {
	claims, _ := r.Context().Value(authUserKey).(*UserClaims)
	return claims
}

func extractBearer(header string) (string, error) {
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return "", errors.New("authorization header missing or malformed")
	}
	return strings.TrimPrefix(header, "Bearer "), nil
}
