// Package server sets up the HTTP server, router, and all route
// definitions.
//
// This is the "composition root": the one place where the dependency
// chain is assembled (DB → repositories → services → handlers) and
// wired onto routes. main.go only loads config and calls New + Start.
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

	"github.com/skarim/autotrack/internal/auth"
	"github.com/skarim/autotrack/internal/config"
	"github.com/skarim/autotrack/internal/handler"
	"github.com/skarim/autotrack/internal/middleware"
	"github.com/skarim/autotrack/internal/model"
	sqliteRepo "github.com/skarim/autotrack/internal/repository/sqlite"
	"github.com/skarim/autotrack/internal/service"
)

// Server owns the router, the database connection, and the config it
// was built from. The database is closed during graceful shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server with its full dependency graph.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
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

// setupRoutes configures middleware, builds the service/handler graph,
// and registers every route.
//
// ROUTE STRUCTURE:
//
//	POST   /api/auth/register                          — public
//	POST   /api/auth/login                             — public
//	GET    /api/profile                                — bearer
//	GET    /api/admin/dashboard                        — bearer + admin
//	GET    /api/vehicles                               — bearer
//	POST   /api/vehicles                               — bearer
//	PUT    /api/vehicles/{id}                          — bearer
//	DELETE /api/vehicles/{id}                          — bearer
//	GET    /api/vehicles/{id}/maintenance              — bearer
//	POST   /api/vehicles/{id}/maintenance              — bearer
//	PUT    /api/vehicles/{id}/maintenance/{recordId}   — bearer
//	DELETE /api/vehicles/{id}/maintenance/{recordId}   — bearer
//	GET    /healthz                                    — public
//	GET    /metrics                                    — public
//	GET    /*                                          — static front-end
func (s *Server) setupRoutes() error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// Services — each receives the repository interface the shared DB
	// implements, never the DB type itself.
	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	vehicleService := service.NewVehicleService(s.db, s.logger)
	maintenanceService := service.NewMaintenanceService(s.db, vehicleService, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	vehicleHandler := handler.NewVehicleHandler(vehicleService, s.logger)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService, s.logger)

	metrics := middleware.NewMetrics()

	// Global middleware — order matters: RequestID first so the logger
	// can pick it up, Recoverer before anything that might panic.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Middleware)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		MaxAge:         3600,
	}))

	requireAuth := auth.RequireAuth(tokens)

	s.router.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.HandleRegister)
		r.Post("/auth/login", authHandler.HandleLogin)

		r.With(requireAuth).Get("/profile", authHandler.HandleProfile)
		r.With(requireAuth, auth.RequireRole(model.RoleAdmin)).
			Get("/admin/dashboard", authHandler.HandleAdminDashboard)

		r.Route("/vehicles", func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/", vehicleHandler.HandleList)
			r.Post("/", vehicleHandler.HandleCreate)
			r.Put("/{id}", vehicleHandler.HandleUpdate)
			r.Delete("/{id}", vehicleHandler.HandleDelete)

			r.Route("/{id}/maintenance", func(r chi.Router) {
				r.Get("/", maintenanceHandler.HandleList)
				r.Post("/", maintenanceHandler.HandleCreate)
				r.Put("/{recordId}", maintenanceHandler.HandleUpdate)
				r.Delete("/{recordId}", maintenanceHandler.HandleDelete)
			})
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})
	s.router.Method(http.MethodGet, "/metrics", metrics.Handler())

	// Static front-end pages, if the directory exists.
	if info, err := os.Stat(s.config.StaticDir); err == nil && info.IsDir() {
		s.router.Handle("/*", http.FileServer(http.Dir(s.config.StaticDir)))
	}

	return nil
}

// Router exposes the configured router, mainly for httptest servers.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the server's database connection. Start calls it on
// shutdown; tests that only use Router must call it themselves.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start runs the HTTP server and blocks until SIGINT/SIGTERM or a
// server error. On a shutdown signal, in-flight requests get 30 seconds
// to finish, then the database connection is closed.
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
