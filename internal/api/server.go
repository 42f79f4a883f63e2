// SPDX-License-Identifier: MIT

// Package api exposes the dialog daemon's HTTP surface: the turn endpoint the
// conversation engine calls, plus health and metrics.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dinebot/concierge/internal/dialog"
)

// ReadinessCheck probes one backing dependency, keyed by name in /readyz.
type ReadinessCheck struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Server holds the dialog controller and its HTTP plumbing.
type Server struct {
	controller *dialog.Controller
	checks     []ReadinessCheck
	rateLimit  int
}

// Option configures a Server.
type Option func(*Server)

// WithReadinessChecks registers dependency probes for /readyz.
func WithReadinessChecks(checks ...ReadinessCheck) Option {
	return func(s *Server) { s.checks = append(s.checks, checks...) }
}

// WithRateLimit caps requests per minute per client IP. Zero disables the
// limiter.
func WithRateLimit(rpm int) Option {
	return func(s *Server) { s.rateLimit = rpm }
}

// New builds a Server around the dialog controller.
func New(controller *dialog.Controller, opts ...Option) *Server {
	s := &Server{controller: controller}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router assembles the middleware stack and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(recoverer)
	r.Use(requestID)
	r.Use(requestLogger)
	if s.rateLimit > 0 {
		r.Use(rateLimit(s.rateLimit, time.Minute))
	}

	r.Post("/v1/dialog", s.handleDialogTurn)
	r.Get("/healthz", s.handleHealthz)
	r.Get("/readyz", s.handleReadyz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	return r
}
