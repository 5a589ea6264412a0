// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkuo/elex/auth"
)

type contextKey string

// UserIDKey is the context key for the authenticated user ID.
const UserIDKey contextKey = "user_id"

// GetUserID extracts the user ID from the context.
// Returns empty string if not found.
func GetUserID(ctx context.Context) string {
	userID, _ := ctx.Value(UserIDKey).(string)
	return userID
}

// WithUserID returns a copy of ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// RequireUser validates the bearer token and stores the subject in the request
// context. Requests without a valid token get 401.
func RequireUser(jwtManager *auth.JWTManager, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			ErrorResponse(w, http.StatusUnauthorized, auth.ErrMissingToken.Error())
			return
		}

		scheme, tokenString, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || tokenString == "" {
			ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		claims, err := jwtManager.Validate(tokenString)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
			return
		}

		next(w, r.WithContext(WithUserID(r.Context(), claims.Subject)))
	}
}
