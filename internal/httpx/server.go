// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package httpx

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/Bl4cky99/sessiongate/internal/auth"
	"github.com/Bl4cky99/sessiongate/internal/config"
	"github.com/Bl4cky99/sessiongate/internal/metrics"
	"github.com/Bl4cky99/sessiongate/internal/render"
	"github.com/Bl4cky99/sessiongate/internal/validate"
)

type Server struct {
	cfg      *config.Config
	log      *slog.Logger
	svc      *auth.Service
	metrics  *metrics.Metrics
	login    *validate.JSONSchemaValidator
	renderer *render.Renderer
	now      func() time.Time
	handler  http.Handler
	httpSrv  *http.Server
}

type Option func(*Server)

func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		s.log = l
	}
}

func WithAuth(svc *auth.Service) Option {
	return func(s *Server) {
		s.svc = svc
	}
}

func WithRenderer(r *render.Renderer) Option {
	return func(s *Server) {
		s.renderer = r
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

func New(ctx context.Context, cfg *config.Config, opts ...Option) (*Server, error) {
	s := &Server{cfg: cfg, log: slog.New(slog.NewTextHandler(os.Stdout, nil)), now: time.Now}
	for _, o := range opts {
		o(s)
	}

	if s.svc == nil {
		return nil, ErrNoAuthService
	}

	v, err := validate.Login()
	if err != nil {
		return nil, err
	}
	s.login = v

	// Broken inline templates fail at startup instead of on first request.
	if s.renderer != nil {
		for _, ep := range cfg.Endpoints {
			if ep.Body == "" {
				continue
			}
			if err := s.renderer.Compile(ep.Body); err != nil {
				return nil, fmt.Errorf("%w: %s %s: %v", ErrTemplate, ep.Method, ep.Path, err)
			}
		}
	}

	s.handler = buildRouter(s)
	s.httpSrv = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) ListenAndServe() error {
	s.log.Info("sessiongate running",
		"addr", s.cfg.Server.Addr,
		"basePath", s.cfg.Server.BasePath,
		"transport", s.svc.Transport().Kind(),
		"carrier", s.cfg.Auth.Carrier)
	return s.httpSrv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
