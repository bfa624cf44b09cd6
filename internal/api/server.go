// Copyright (c) 2026 Curado. All rights reserved.
// Author: dev@curado.health

/*
Package api wires together the HTTP router, middleware chain, and all
domain handlers into a runnable [http.Server].

Architecture:

  - This package is the topmost Presentation layer boundary.
  - It acts as the central composition root for the HTTP transport framework (chi router).
  - Only this package and cmd/api are allowed to import net/http server primitives.

The middleware chain puts the origin verifier before session attachment,
and both before the route authorization gate: a forged cross-site request
is rejected before any session state is even looked at.
*/
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/curadohealth/curado/internal/platform/config"
	"github.com/curadohealth/curado/internal/platform/constants"
	"github.com/curadohealth/curado/internal/platform/middleware"
	"github.com/curadohealth/curado/internal/platform/sec"
	"github.com/curadohealth/curado/internal/session"
	"github.com/curadohealth/curado/internal/triage"
	"github.com/curadohealth/curado/internal/users/auth"
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
// New domains add a field here — no other change to server.go is required.
type Handlers struct {
	// Liveness is the /health handler — always returns 200 if process is alive.
	Liveness http.HandlerFunc

	// Readiness is the /ready handler — returns 200 when all deps are healthy.
	Readiness http.HandlerFunc

	// Pages serves the thin HTML surface (landing, login, dashboard).
	Pages *Pages

	// Auth handles the authentication lifecycle (signup, login, logout).
	Auth *auth.Handler

	// Triage handles questionnaires and the intake review queue.
	Triage *triage.Handler
}

// # Authorization Policy

// authorizationRules is the ordered prefix table consumed by the route
// authorization gate. First match wins; unmatched paths are public.
func authorizationRules() []middleware.Rule {
	return []middleware.Rule{
		{Prefix: "/admin", Requirement: middleware.RoleRestricted, Role: sec.RoleAdmin},
		{Prefix: "/dashboard", Requirement: middleware.Authenticated},
		{Prefix: "/questionnaires", Requirement: middleware.Authenticated},
		{Prefix: "/intake", Requirement: middleware.Authenticated},
		{Prefix: "/login", Requirement: middleware.GuestOnly},
		{Prefix: "/signup", Requirement: middleware.GuestOnly},
	}
}

// # Server Initialization

// NewServer constructs the chi router with the full middleware chain and
// registers all route groups.
func NewServer(context context.Context, cfg *config.Config, log *slog.Logger, sessions *session.Manager, h Handlers) *Server {
	r := chi.NewRouter()

	// # Middleware Chain
	// Global middleware applied in order of execution.
	//
	// CleanPath runs first: the origin verifier's exempt list and the
	// authorization gate match on URL.Path, so every path-keyed decision
	// must see the same canonical path the router will dispatch on. A
	// request for "/x/../admin" or "//admin" is normalized before any
	// guard inspects it.
	r.Use(chimw.CleanPath)
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(log))
	r.Use(chimw.Timeout(constants.GlobalRequestTimeout))
	r.Use(middleware.RateLimit(context))
	r.Use(middleware.PanicRecovery(log))
	r.Use(middleware.VerifyOrigin(cfg.TrustedOrigins))
	r.Use(middleware.AttachSession(sessions))
	r.Use(middleware.Authorize(authorizationRules(), middleware.Destinations{
		Login:     constants.PathLogin,
		Authed:    constants.PathDashboard,
		Forbidden: constants.PathDashboard,
	}))

	// # Infrastructure Endpoints
	// Unauthenticated health probes for container orchestration.
	r.Get("/health", h.Liveness)
	r.Get("/ready", h.Readiness)

	// # Page Surface
	h.Pages.Routes(r)

	// # Application Routes
	h.Auth.Routes(r)
	h.Triage.Routes(r)

	// # Administration
	r.Route("/admin", func(admin chi.Router) {
		admin.Get("/", h.Pages.Admin)
		h.Auth.AdminRoutes(admin)
		h.Triage.AdminRoutes(admin)
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
	context, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.httpServer.Shutdown(context)
}
