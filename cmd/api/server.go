package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"kalasahayak/internal/auth"
	"kalasahayak/internal/config"
	"kalasahayak/internal/httpx"
	"kalasahayak/internal/ingest"
	"kalasahayak/internal/inquiry"
	"kalasahayak/internal/platform/crypto"
	"kalasahayak/internal/platform/kalaapi"
	"kalasahayak/internal/product"
)

type readinessCheck struct {
	name     string
	optional bool
	ping     func(ctx context.Context) error
}

type healthChecker interface {
	Health(ctx context.Context) (*kalaapi.HealthStatus, error)
}

type deps struct {
	products  *product.Service
	inquiries *inquiry.Service
	ingest    *ingest.Service
	auth      *auth.Service
	checks    []readinessCheck
	remote    healthChecker
}

type server struct {
	cfg     *config.Config
	log     *zap.Logger
	deps    deps
	limiter *httpx.RateLimitMiddleware
}

func newServer(cfg *config.Config, log *zap.Logger, d deps) *server {
	limiter := httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst)
	if proxies, err := cfg.ProxyPrefixes(); err != nil {
		log.Warn("ignoring trusted proxies", zap.Error(err))
	} else {
		limiter.TrustProxies(proxies)
	}
	return &server{
		cfg:     cfg,
		log:     log,
		deps:    d,
		limiter: limiter,
	}
}

// Close stops the rate limiter's cleanup loop.
func (s *server) Close() error {
	s.limiter.Stop()
	return nil
}

func (s *server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.healthz)
	mux.HandleFunc("GET /readyz", s.readyz)

	var admin func(http.Handler) http.Handler
	if s.cfg.JWTSecret != "" {
		admin = func(next http.Handler) http.Handler {
			return httpx.Chain(next, httpx.AuthMiddleware(s.cfg.JWTSecret), httpx.RequireRole(crypto.RoleAdmin))
		}
	} else {
		s.log.Warn("JWT_SECRET not set, admin routes are disabled")
	}

	if admin != nil && s.deps.auth != nil {
		auth.NewHTTPHandler(s.deps.auth, s.log).Register(mux)
	}
	product.NewHTTPHandler(s.deps.products, s.log, s.cfg.PageSizeDefault, s.cfg.PageSizeMax).Register(mux, admin)
	inquiry.NewHTTPHandler(s.deps.inquiries, s.log, s.cfg.SupportPhone).Register(mux, admin)
	if s.deps.ingest != nil {
		ingest.NewHTTPHandler(s.deps.ingest, s.log).Register(mux, admin)
	}

	return httpx.Chain(mux,
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(s.log),
		httpx.RecoveryMiddleware(s.log),
		httpx.CORSMiddleware(s.cfg.CORSOrigins),
		httpx.SecurityHeadersMiddleware(s.cfg.EnableHSTS),
		httpx.RequestSizeLimitMiddleware(s.cfg.MaxBodyBytes),
		s.limiter.Middleware,
	)
}

func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, map[string]string{"status": "ok"}, nil)
}

// readyz fails when a required dependency does not answer. Optional checks
// and the remote service are reported but never fail readiness.
func (s *server) readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
	defer cancel()

	checks := make(map[string]string, len(s.deps.checks)+1)
	ready := true
	for _, c := range s.deps.checks {
		if err := c.ping(ctx); err != nil {
			checks[c.name] = "unavailable"
			if !c.optional {
				ready = false
				s.log.Warn("readiness check failed", zap.String("check", c.name), zap.Error(err))
			}
			continue
		}
		checks[c.name] = "ok"
	}

	if s.deps.remote != nil {
		if _, err := s.deps.remote.Health(ctx); err != nil {
			checks["kala_service"] = "unavailable"
		} else {
			checks["kala_service"] = "ok"
		}
	}

	if !ready {
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "dependencies not ready", nil)
		return
	}
	httpx.JSONSuccess(w, r, map[string]any{"status": "ready", "checks": checks}, nil)
}
