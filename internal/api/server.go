// Copyright (c) 2026 Pitchside. All rights reserved.
// Author: engineering@pitchside.io

/*
Package api wires together the HTTP router, middleware chain, route policies,
and all domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost presentation layer boundary.
  - It acts as the central composition root for the HTTP transport (chi router).
  - Access control is declarative: every route gets a policy from the registry
    built in [RoutePolicies]; undeclared routes require authentication.
  - Only this package and cmd/api are allowed to import net/http server primitives.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/pitchside/clubapi/internal/auth"
	"github.com/pitchside/clubapi/internal/club/team"
	"github.com/pitchside/clubapi/internal/platform/authz"
	"github.com/pitchside/clubapi/internal/platform/config"
	"github.com/pitchside/clubapi/internal/platform/constants"
	"github.com/pitchside/clubapi/internal/platform/middleware"
	"github.com/pitchside/clubapi/internal/platform/ratelimit"
	"github.com/pitchside/clubapi/internal/platform/sec"
)

// # Server Definitions

// Server wraps the chi router and the [http.Server].
//
// It is constructed once in main.go with all dependencies injected.
type Server struct {
	httpServer *http.Server
	router     *chi.Mux
	log        *slog.Logger
}

// # Handler Registry

// Handlers groups all domain-specific HTTP handler sets.
//
// # Usage
//
// New domains add a field here plus their policy declarations in
// [RoutePolicies] — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler, 200 whenever the process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler, 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Auth handles the authentication lifecycle (register, login, refresh).
	Auth *auth.Handler

	// Team handles the club team roster.
	Team *team.Handler
}

// # Route Policies

// RoutePolicies builds the declarative access-control table for the API.
//
// Policies match by most-specific pattern; anything not declared here falls
// back to "authenticated, any role" so a forgotten declaration can never
// expose a route anonymously.
func RoutePolicies() *authz.Registry {
	registry := authz.NewRegistry()

	// Infrastructure probes
	registry.MustDeclare("GET /health", authz.RoutePolicy{Public: true})
	registry.MustDeclare("GET /ready", authz.RoutePolicy{Public: true})

	// Authentication lifecycle — entry points are public by definition.
	registry.MustDeclare("POST /api/v1/auth/register", authz.RoutePolicy{Public: true})
	registry.MustDeclare("POST /api/v1/auth/login", authz.RoutePolicy{Public: true})
	registry.MustDeclare("POST /api/v1/auth/refresh", authz.RoutePolicy{Public: true})
	registry.MustDeclare("POST /api/v1/auth/logout", authz.RoutePolicy{Public: true})

	// Remaining auth routes (verify, profile, me, change-password) fall back
	// to the authenticated default.

	// Team roster
	registry.MustDeclare("GET /api/v1/teams/*", authz.RoutePolicy{
		Permissions: []sec.Permission{sec.PermReadTeams},
	})
	registry.MustDeclare("POST /api/v1/teams/*", authz.RoutePolicy{
		Permissions: []sec.Permission{sec.PermWriteTeams},
	})
	registry.MustDeclare("PUT /api/v1/teams/*", authz.RoutePolicy{
		Permissions: []sec.Permission{sec.PermWriteTeams},
	})
	registry.MustDeclare("DELETE /api/v1/teams/*", authz.RoutePolicy{
		Permissions: []sec.Permission{sec.PermDeleteTeams},
	})

	return registry
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(
	ctx context.Context,
	cfg *config.Config,
	log *slog.Logger,
	engine *authz.Engine,
	limits *ratelimit.Table,
	limiter ratelimit.Limiter,
	h Handlers,
) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution. Three orderings are
	// load-bearing: CleanPath precedes the guard engine so the path that was
	// authorized is the path chi routes; CORS precedes the engine so preflight
	// OPTIONS requests, which carry no Authorization header, are answered
	// instead of rejected 401; the per-route limiter follows the engine so its
	// budgets key on the verified identity when one exists.
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(ctx))
	r.Use(middleware.PanicRecovery(log))
	r.Use(chimw.CleanPath)
	r.Use(middleware.CORS(cfg))
	r.Use(engine.Middleware())
	r.Use(middleware.RoutePolicyRateLimit(limits, limiter))

	// # Infrastructure Endpoints
	// Health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Application API
	// Domain-specific route groups mounted under the versioned prefix.
	r.Route("/api/v1", func(api chi.Router) {
		api.Mount("/auth", h.Auth.Routes())
		api.Mount("/teams", h.Team.Routes())
	})

	return &Server{
		router: r,
		log:    log,
		httpServer: &http.Server{
			Addr:              ":" + cfg.ServerPort,
			Handler:           r,
			ReadTimeout:       constants.DefaultReadTimeout,
			WriteTimeout:      constants.DefaultWriteTimeout,
			IdleTimeout:       constants.DefaultIdleTimeout,
			ReadHeaderTimeout: constants.DefaultReadHeaderTimeout,
		},
	}
}

// Handler exposes the composed router, primarily for end-to-end tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// # Server Lifecycle

// ListenAndServe starts the HTTP server.
//
// It blocks until the server is closed or an error occurs.
func (s *Server) ListenAndServe() error {
	s.log.Info("server starting", slog.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}
