package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/notify-service/internal/config"
	"github.com/s21platform/notify-service/internal/infra"
	"github.com/s21platform/notify-service/internal/notify"
	"github.com/s21platform/notify-service/internal/pkg/jwt"
	"github.com/s21platform/notify-service/internal/pkg/validator"
	db "github.com/s21platform/notify-service/internal/repository/postgres"
	"github.com/s21platform/notify-service/internal/rest"
)

func main() {
	cfg := config.MustLoad()
	logger := logger_lib.New(cfg.Logger.Host, cfg.Logger.Port, cfg.Service.Name, cfg.Platform.Env)

	dbRepo := db.New(cfg)
	defer dbRepo.Close()

	source, err := notify.NewSource(cfg)
	if err != nil {
		log.Fatal("failed to subscribe to change notifications: ", err)
	}
	defer source.Close()

	registry := notify.NewRegistry()
	pipeline := notify.NewPipeline(source, registry, logger)

	vldtr := validator.New()
	jwtGenerator := jwt.New(cfg.Auth.JWTSecret)

	handler := rest.New(dbRepo, registry, vldtr, jwtGenerator)

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return infra.RequestIDHTTP(next)
	})
	router.Use(func(next http.Handler) http.Handler {
		return infra.LoggerHTTP(next, logger)
	})

	router.Route("/api", func(r chi.Router) {
		r.Post("/signup", handler.SignUp)
		r.Post("/signin", handler.SignIn)

		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return infra.AuthInterceptorHTTP(next, jwtGenerator)
			})

			r.Get("/events", handler.StreamEvents)
			r.Get("/users", handler.ListChatUsers)

			r.Route("/chats", func(r chi.Router) {
				r.Get("/", handler.ListChats)
				r.Post("/", handler.CreateChat)
				r.Get("/{id}", handler.GetChat)
				r.Patch("/{id}", handler.UpdateChat)
				r.Delete("/{id}", handler.DeleteChat)
				r.Post("/{id}", handler.SendMessage)
				r.Get("/{id}/messages", handler.ListMessages)
			})
		})
	})

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Service.Port),
		Handler: router,
	}

	g, ctx := errgroup.WithContext(context.Background())

	g.Go(func() error {
		// a lost notification connection is fatal: the whole group winds down
		if err := pipeline.Run(ctx); err != nil {
			return fmt.Errorf("notification pipeline error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %v", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error(fmt.Sprintf("server error: %v", err))
	}
}
