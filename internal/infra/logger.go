package infra

import (
	"context"
	"net/http"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/notify-service/internal/config"
)

// LoggerHTTP injects the service logger into every request context so
// handlers can fetch it with logger_lib.FromContext.
func LoggerHTTP(next http.Handler, logger logger_lib.LoggerInterface) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), config.KeyLogger, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
