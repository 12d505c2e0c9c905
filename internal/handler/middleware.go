package handler

import (
	"net/http"
	"strings"

	"bookmark-highlighter/internal/config"
	"bookmark-highlighter/internal/domain"
)

// localUser stands in for the authenticated user when the server runs
// without a Supabase backend (single-user development mode).
var localUser = &domain.SupabaseUser{
	ID:    "local-user",
	Email: "local@localhost",
}

// AuthMiddleware validates Supabase bearer tokens and stashes the user and
// token in the request context. Without a configured Supabase client it
// falls back to a local single user.
func AuthMiddleware(container *config.Container) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if container.SupabaseClient == nil {
				ctx := contextWithUser(r.Context(), localUser)
				ctx = contextWithToken(ctx, "")
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}
			token := parts[1]
			if token == "" {
				writeError(w, http.StatusUnauthorized, "Token required")
				return
			}

			user, err := container.SupabaseClient.ValidateToken(token)
			if err != nil {
				container.Logger.Error("Token validation failed", err)
				writeError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			ctx := contextWithUser(r.Context(), user)
			ctx = contextWithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
