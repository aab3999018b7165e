// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package httpx

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

func buildRouter(s *Server) http.Handler {
	r := chi.NewRouter()
	r.Use(recoverMW(s.log), requestIDMW(), loggingMW(s.log, s.metrics), corsMW(s.cfg.Server.AllowedOrigin))

	if s.metrics != nil && s.cfg.Server.Metrics.Enabled {
		r.Method(http.MethodGet, s.cfg.Server.Metrics.Path, s.metrics.Handler())
	}

	base := strings.TrimRight(s.cfg.Server.BasePath, "/")
	if base == "" {
		base = "/"
	}
	r.Route(base, func(sr chi.Router) {
		sr.With(validateBody("application/json", s.login, s.log)).Post("/login", s.handleLogin)
		sr.Post("/logout", s.handleLogout)
		sr.Get("/session", s.handleSession)

		sr.Group(func(g chi.Router) {
			g.Use(requireAuth(s))
			for _, ep := range s.cfg.Endpoints {
				g.Method(ep.Method, ep.Path, endpointHandler(s, ep))
			}
		})
	})

	return r
}
