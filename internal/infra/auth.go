package infra

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/s21platform/notify-service/internal/config"
	"github.com/s21platform/notify-service/internal/pkg/jwt"
)

type TokenValidator interface {
	ValidateToken(tokenString string) (*jwt.Claims, error)
}

// AuthInterceptorHTTP resolves the caller's identity before any handler runs.
// The token comes from the Authorization header, or from the access_token
// query parameter for EventSource clients that cannot set headers.
func AuthInterceptorHTTP(next http.Handler, tokenValidator TokenValidator) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeAuthError(w, "missing access token", http.StatusUnauthorized)
			return
		}

		claims, err := tokenValidator.ValidateToken(token)
		if err != nil {
			writeAuthError(w, "invalid access token", http.StatusForbidden)
			return
		}

		ctx := context.WithValue(r.Context(), config.KeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, config.KeyWorkspaceID, claims.WorkspaceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}

	return r.URL.Query().Get("access_token")
}

func writeAuthError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
