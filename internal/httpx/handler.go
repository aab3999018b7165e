// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package httpx

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/Bl4cky99/sessiongate/internal/auth"
	"github.com/Bl4cky99/sessiongate/internal/config"
	"github.com/Bl4cky99/sessiongate/internal/render"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBadRequest)
		return
	}

	a, err := s.svc.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.metrics.ObserveLogin(auth.Reason(err))
		s.log.Info("login rejected", "rid", requestID(r.Context()))
		writeMessage(w, http.StatusUnauthorized, msgInvalidCreds)
		return
	case err != nil:
		s.metrics.ObserveLogin(auth.Reason(err))
		s.log.Error("login failed", "err", err, "rid", requestID(r.Context()))
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}
	s.metrics.ObserveLogin(auth.Reason(nil))

	if s.cfg.Auth.Carrier == config.CarrierCookie {
		http.SetCookie(w, artifactCookie(s.cfg.Auth.Cookie, a.Value, a.ExpiresAt))
		writeJSON(w, http.StatusOK, loginBody{Message: msgLoginOK})
		return
	}

	writeJSON(w, http.StatusOK, loginBody{
		Message:   msgLoginOK,
		Artifact:  a.Value,
		ExpiresAt: a.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// handleLogout answers only after revocation finished. Without an artifact
// there is nothing to revoke and the call still succeeds.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	value, _ := extractArtifact(r, s.cfg.Auth)

	revoked, err := s.svc.Logout(r.Context(), value)
	if err != nil {
		s.metrics.ObserveLogout("error")
		s.log.Error("logout failed", "err", err, "rid", requestID(r.Context()))
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}

	if revoked {
		s.metrics.ObserveLogout("revoked")
	} else {
		s.metrics.ObserveLogout("noop")
	}

	if s.cfg.Auth.Carrier == config.CarrierCookie {
		http.SetCookie(w, clearedCookie(s.cfg.Auth.Cookie))
	}
	writeMessage(w, http.StatusOK, msgLogoutOK)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	claims, err := s.verifyRequest(r)
	if errors.Is(err, auth.ErrInternal) {
		writeMessage(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if err != nil {
		writeMessage(w, http.StatusUnauthorized, msgNoSession)
		return
	}

	writeJSON(w, http.StatusOK, sessionBody{
		Principal: principalBody{Username: claims.Principal.Username},
		ExpiresAt: claims.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func endpointHandler(s *Server, ep config.Endpoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for k, val := range s.cfg.Server.DefaultHeaders {
			if w.Header().Get(k) == "" {
				w.Header().Set(k, val)
			}
		}

		for k, val := range ep.Headers {
			w.Header().Set(k, val)
		}

		now := s.now().UTC().Format(time.RFC3339)
		data := render.BuildData(r, now)

		var body []byte
		var err error
		switch {
		case ep.Body != "":
			if s.renderer != nil {
				body, err = s.renderer.RenderString(ep.Body, data)
				if err != nil {
					s.log.Error("template render (inline) failed", "err", err)
					writeMessage(w, http.StatusInternalServerError, msgInternal)
					return
				}
			} else {
				body = []byte(ep.Body)
			}
		case ep.BodyFile != "":
			if s.renderer != nil {
				body, err = s.renderer.RenderFile(ep.BodyFile, data)
				if err != nil {
					s.log.Error("template render (file) failed", "file", ep.BodyFile, "err", err)
					writeMessage(w, http.StatusInternalServerError, msgInternal)
					return
				}
			} else {
				body, err = os.ReadFile(ep.BodyFile)
				if err != nil {
					s.log.Error(ErrBodyFileNotFound.Error(), "file", ep.BodyFile)
					writeMessage(w, http.StatusInternalServerError, msgInternal)
					return
				}
			}
		}

		status := ep.Status
		if status == 0 {
			status = http.StatusOK
		}

		w.WriteHeader(status)
		if len(body) > 0 {
			_, _ = w.Write(body)
		}
	}
}
