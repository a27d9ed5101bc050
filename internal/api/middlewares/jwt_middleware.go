package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
)

type ctxKey string

const (
	adminKey  ctxKey = "admin"
	apiKeyKey ctxKey = "api_key"
)

// AdminFromContext returns the subject of the admin token, if any.
func AdminFromContext(ctx context.Context) (string, bool) {
	sub, ok := ctx.Value(adminKey).(string)
	return sub, ok
}

// AdminJWT validates an HS256 bearer token signed with secret and requires a
// "role": "admin" claim. With an empty secret every request is refused.
func AdminJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secret == "" {
				writeError(w, http.StatusForbidden, "ADMIN_DISABLED", "admin endpoints are disabled")
				return
			}

			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing or invalid token")
				return
			}

			tokenStr := strings.TrimPrefix(auth, "Bearer ")
			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
			if err != nil || !token.Valid {
				logrus.WithError(err).Debug("auth: rejected admin token")
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
				return
			}

			if role, _ := claims["role"].(string); role != "admin" {
				writeError(w, http.StatusForbidden, "FORBIDDEN", "admin role required")
				return
			}

			sub, _ := claims.GetSubject()
			ctx := context.WithValue(r.Context(), adminKey, sub)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
