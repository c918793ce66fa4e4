// Package server wires the HTTP server: router, middleware, routes, and
// the dependency graph from database to handlers. main.go stays minimal —
// it builds a Config and calls New/Start.
package server

import (
	"context"
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

	"github.com/arefin/blog-api/internal/auth"
	"github.com/arefin/blog-api/internal/handler"
	"github.com/arefin/blog-api/internal/middleware"
	sqliteRepo "github.com/arefin/blog-api/internal/repository/sqlite"
	"github.com/arefin/blog-api/internal/service"
)

// Config holds everything the server needs at construction time.
type Config struct {
	Port      int
	DBPath    string
	JWTSecret string
	TokenTTL  time.Duration // zero means auth.DefaultTokenTTL (10h)

	// CORSOrigins lists allowed origins for browser clients.
	// Empty means allow all, which is fine for local development.
	CORSOrigins []string

	// Optional GitHub OAuth login. The routes are only mounted when both
	// client credentials are set.
	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs; handlers never touch the
// database and services never touch HTTP.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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

// setupRoutes configures middleware, builds the services, and mounts the
// route table:
//
//	GET    /                  → plain-text acknowledgement
//	POST   /api/users         → register, returns {token}
//	POST   /api/login         → login, returns {token}
//	GET    /api/auth          → current user (auth)
//	GET    /api/posts         → list posts newest-first (auth)
//	GET    /api/posts/{id}    → single post (auth)
//	POST   /api/posts         → create post (auth)
//	PUT    /api/posts/{id}    → update post (auth, owner)
//	DELETE /api/posts/{id}    → delete post (auth, owner)
//	GET    /auth/github/*     → optional OAuth login flow
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	origins := s.config.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "x-auth-token"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	tokenTTL := s.config.TokenTTL
	if tokenTTL == 0 {
		tokenTTL = auth.DefaultTokenTTL
	}
	tokens, err := auth.NewTokenServiceWithTTL(s.config.JWTSecret, tokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubClientID != "" && s.config.GitHubClientSecret != "" {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	authService := service.NewAuthService(s.db.Users(), tokens, passwords, s.logger)
	postService := service.NewPostService(s.db.Posts(), s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	postHandler := handler.NewPostHandler(postService, s.logger)

	s.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("Blog API is running"))
	})

	// Public API routes
	s.router.Post("/api/users", authHandler.HandleRegister)
	s.router.Post("/api/login", authHandler.HandleLogin)

	// Protected API routes
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/api/auth", authHandler.HandleMe)
		r.Get("/api/posts", postHandler.HandleList)
		r.Get("/api/posts/{id}", postHandler.HandleGet)
		r.Post("/api/posts", postHandler.HandleCreate)
		r.Put("/api/posts/{id}", postHandler.HandleUpdate)
		r.Delete("/api/posts/{id}", postHandler.HandleDelete)
	})

	// Optional OAuth login flow
	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	return nil
}

// Handler exposes the router, mainly for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start callers
// don't need this; tests do.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30s to
// finish, close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
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
