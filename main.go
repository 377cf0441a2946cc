// Command taskman runs the task-manager REST API: account registration and
// login with session tokens, profile and avatar management, and per-user
// task CRUD with filtering, sorting and pagination.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/user/taskman-go/auth"
	"github.com/user/taskman-go/config"
	"github.com/user/taskman-go/db"
	"github.com/user/taskman-go/email"
	"github.com/user/taskman-go/tasks"
	"github.com/user/taskman-go/users"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file loaded", zap.Error(err))
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	pool, err := db.NewPool(cfg.DB)
	if err != nil {
		logger.Fatal("failed to create database pool", zap.Error(err))
	}
	defer pool.Close()

	if err := db.RunMigrations(cfg.DB, "./migrations"); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	mailer := email.New(cfg.Mail, logger)

	userStore := auth.NewPGUserStore(pool)
	taskStore := tasks.NewPGTaskStore(pool)

	issuer := auth.NewTokenIssuer(*cfg.Auth)
	guard := auth.NewGuard(userStore, issuer, logger)

	authService := auth.NewAuthService(userStore, issuer, mailer, logger)
	authHandlers := auth.NewHandlers(authService, logger)

	userService := users.NewUserService(userStore, mailer)
	userHandlers := users.NewUserHandlers(userService, logger)

	taskService := tasks.NewTaskService(taskStore)
	taskHandlers := tasks.NewHandlers(taskService, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Route("/users", func(r chi.Router) {
		r.Post("/", authHandlers.HandleRegister())
		r.Post("/login", authHandlers.HandleLogin())
		r.Get("/{id}/avatar", userHandlers.HandleGetAvatar())

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAuth)
			r.Post("/logout", authHandlers.HandleLogout())
			r.Post("/logoutAll", authHandlers.HandleLogoutAll())
			r.Get("/me", userHandlers.HandleGetProfile())
			r.Patch("/me", userHandlers.HandleUpdateProfile())
			r.Delete("/me", userHandlers.HandleDeleteAccount())
			r.Post("/me/avatar", userHandlers.HandleSetAvatar())
			r.Delete("/me/avatar", userHandlers.HandleRemoveAvatar())
		})
	})

	r.Route("/tasks", func(r chi.Router) {
		r.Use(guard.RequireAuth)
		taskHandlers.RegisterRoutes(r)
	})

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}
