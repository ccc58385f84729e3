package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/dgrijalva/jwt-go"

	"go-volunteer/utils"
)

// Key type for context
type contextKey string

const UserContextKey = contextKey("user")

// AuthMiddleware verifies the bearer credential and attaches its claims to
// the request context.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		claims := &utils.Claims{}
		token, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
			return utils.JwtKey, nil
		})
		if err != nil || !token.Valid {
			utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole rejects authenticated callers whose role claim is not in roles.
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r)
			if !ok {
				utils.RespondError(w, http.StatusUnauthorized, "Not authorized to access this route")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			utils.RespondError(w, http.StatusForbidden,
				fmt.Sprintf("User role '%s' is not authorized to access this route", claims.Role))
		})
	}
}

// Protect wraps a handler with authentication and, when roles are given, a
// role gate. Mirrors the route table's protect/authorize pairing.
func Protect(h http.HandlerFunc, roles ...string) http.Handler {
	var handler http.Handler = h
	if len(roles) > 0 {
		handler = RequireRole(roles...)(handler)
	}
	return AuthMiddleware(handler)
}

// ClaimsFrom returns the claims attached by AuthMiddleware.
func ClaimsFrom(r *http.Request) (*utils.Claims, bool) {
	claims, ok := r.Context().Value(UserContextKey).(*utils.Claims)
	return claims, ok
}
