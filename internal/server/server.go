// Package server wires the database, services, handlers and routes together
// and runs the HTTP server.
//
// Dependency chain, built once in New:
//
//	config → sqlite.DB (migrated + seeded)
//	       → auth.TokenService / auth.PasswordService / auth.GitHubProvider
//	       → service.* (take repository interfaces, not *sqlite.DB)
//	       → handler.* (take services)
//	       → chi routes
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/studyquest/internal/auth"
	"github.com/sakif/studyquest/internal/catalog"
	"github.com/sakif/studyquest/internal/config"
	"github.com/sakif/studyquest/internal/handler"
	"github.com/sakif/studyquest/internal/middleware"
	sqliteRepo "github.com/sakif/studyquest/internal/repository/sqlite"
	"github.com/sakif/studyquest/internal/service"
)

// Server owns the router and the database connection. The connection is
// closed when Start returns.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens and seeds the database and builds the router.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath, logger)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := db.Seed(context.Background(), catalog.TaskTypes(), catalog.Checklists()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on the way out.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes registers middleware and every route.
//
// Middleware order: RequestID must precede Logger so the id is logged;
// Recoverer sits inside Logger so a recovered panic is logged as a 500.
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords, err := auth.NewPasswordService(s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("creating password service: %w", err)
	}

	var github handler.GitHubSignIn
	if s.config.GitHub.Enabled() {
		github = auth.NewGitHubProvider(s.config.GitHub.ClientID, s.config.GitHub.ClientSecret, s.config.GitHub.CallbackURL)
	} else {
		s.logger.Info("GitHub sign-in disabled: GITHUB_CLIENT_ID/GITHUB_CLIENT_SECRET not set")
	}

	clock := service.SystemClock(s.config.Location)

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	taskService := service.NewTaskService(s.db, s.logger)
	checklistService := service.NewChecklistService(s.db, clock, s.logger)
	userService := service.NewUserService(s.db, clock, s.logger)
	rankingService := service.NewRankingService(s.db, clock, s.logger)

	authHandler := handler.NewAuthHandler(authService, github, tokens.TTL(), s.config.SecureCookies, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)
	checklistHandler := handler.NewChecklistHandler(checklistService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	rankingHandler := handler.NewRankingHandler(rankingService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.config.CORSAllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	s.router.Route("/api", func(r chi.Router) {
		// Public
		r.Get("/health", healthHandler.HandleHealth)
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)
		if github != nil {
			r.Get("/auth/github/login", authHandler.HandleGitHubLogin)
			r.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
		}
		r.Get("/task-types", taskHandler.HandleListTaskTypes)
		r.Get("/users/{id}/profile", userHandler.HandlePublicProfile)
		r.Get("/rankings", rankingHandler.HandleList)
		r.Get("/rankings/top", rankingHandler.HandleTop)

		// Authenticated
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))

			r.Post("/auth/logout", authHandler.HandleLogout)
			r.Get("/auth/me", authHandler.HandleMe)

			r.Get("/tasks", taskHandler.HandleList)
			r.Post("/tasks", taskHandler.HandleCreate)
			r.Put("/tasks/{id}/complete", taskHandler.HandleToggleComplete)
			r.Delete("/tasks/{id}", taskHandler.HandleDelete)

			r.Get("/checklists", checklistHandler.HandleList)
			r.Put("/checklists/{id}/toggle", checklistHandler.HandleToggle)
			r.Put("/checklists/{id}/complete", checklistHandler.HandleToggle)

			r.Get("/users/profile", userHandler.HandleProfile)
		})
	})

	return nil
}

// Start serves until SIGINT/SIGTERM, then drains in-flight requests for up
// to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
			slog.String("timezone", s.config.Location.String()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
