package infra

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/s21platform/notify-service/internal/config"
)

const requestIDHeader = "X-Request-Id"

// RequestIDHTTP reuses the client-provided request id or generates one, and
// echoes it back in the response.
func RequestIDHTTP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		w.Header().Set(requestIDHeader, requestID)

		ctx := context.WithValue(r.Context(), config.KeyRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
