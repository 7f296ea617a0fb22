package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"quizhub/internal/apperr"
)

type contextKey string

const (
	userIDKey contextKey = "user_id"
	roleKey   contextKey = "role"
)

// WithUser returns a context carrying the authenticated identity exactly
// as JWTMiddleware stores it.
func WithUser(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

// UserID returns the authenticated user's id stored by JWTMiddleware.
func UserID(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(userIDKey).(string)
	return id, ok
}

// Role returns the authenticated user's role stored by JWTMiddleware.
func Role(r *http.Request) (string, bool) {
	role, ok := r.Context().Value(roleKey).(string)
	return role, ok
}

func JWTMiddleware(jwtSecret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				apperr.Write(w, apperr.Unauthorized("authorization header required"))
				return
			}

			bearerToken := strings.Split(authHeader, " ")
			if len(bearerToken) != 2 || bearerToken[0] != "Bearer" {
				apperr.Write(w, apperr.Unauthorized("invalid token format"))
				return
			}

			token, err := jwt.ParseWithClaims(bearerToken[1], &jwt.MapClaims{}, func(token *jwt.Token) (interface{}, error) {
				return []byte(jwtSecret), nil
			})

			if err != nil {
				apperr.Write(w, apperr.Unauthorized("invalid token"))
				return
			}

			claims, ok := token.Claims.(*jwt.MapClaims)
			if !ok || !token.Valid {
				apperr.Write(w, apperr.Unauthorized("invalid token claims"))
				return
			}

			userID, ok := (*claims)["user_id"].(string)
			if !ok || userID == "" {
				apperr.Write(w, apperr.Unauthorized("invalid user id in token"))
				return
			}
			role, _ := (*claims)["role"].(string)

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), userID, role)))
		})
	}
}

// RequireRole rejects authenticated requests whose token role does not
// match. It must run after JWTMiddleware.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := Role(r)
			if !ok || got != role {
				apperr.Write(w, apperr.Forbidden("insufficient permissions"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
