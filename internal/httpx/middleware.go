// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/Bl4cky99/sessiongate/internal/auth"
	"github.com/Bl4cky99/sessiongate/internal/config"
	"github.com/Bl4cky99/sessiongate/internal/metrics"
	"github.com/Bl4cky99/sessiongate/internal/validate"
	"github.com/google/uuid"
)

const (
	corsAllowMethods = "GET, POST, PUT, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Authorization, Content-Type"
	corsMaxAge       = "600"

	maxBody = 1 << 20
)

func recoverMW(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					log.Error("panic", "err", rec, "rid", requestID(r.Context()))
					writeMessage(w, http.StatusInternalServerError, msgInternal)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

type ctxKeyReqID struct{}

func requestIDMW() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := uuid.NewString()
			ctx := context.WithValue(r.Context(), ctxKeyReqID{}, id)
			w.Header().Set("X-Request-ID", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestID(ctx context.Context) string {
	rid, _ := ctx.Value(ctxKeyReqID{}).(string)
	return rid
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (lw *loggingResponseWriter) WriteHeader(code int) {
	lw.status = code
	lw.ResponseWriter.WriteHeader(code)
}

func (lw *loggingResponseWriter) Unwrap() http.ResponseWriter {
	return lw.ResponseWriter
}

func loggingMW(log *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w, status: 200}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			m.ObserveRequest(r.Method, lrw.status, dur)
			log.Info("http",
				"method", r.Method, "path", r.URL.Path,
				"status", lrw.status, "dur_ms", dur.Milliseconds(),
				"rid", requestID(r.Context()))
		})
	}
}

// corsMW only ever answers the single configured origin. With no origin
// configured it is a no-op and the browser same-origin policy applies.
func corsMW(allowed string) func(http.Handler) http.Handler {
	allowed = strings.TrimRight(allowed, "/")

	return func(next http.Handler) http.Handler {
		if allowed == "" {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Add("Vary", "Origin")
			if origin != allowed {
				next.ServeHTTP(w, r)
				return
			}

			h.Set("Access-Control-Allow-Origin", allowed)
			h.Set("Access-Control-Allow-Credentials", "true")

			if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				h.Set("Access-Control-Allow-Methods", corsAllowMethods)
				h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
				h.Set("Access-Control-Max-Age", corsMaxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractArtifact reads the artifact from the request. A Bearer
// Authorization header always wins. Other schemes are rejected with the
// bearer carrier; with the cookie carrier they are left to whoever set them
// and the cookie is read instead.
func extractArtifact(r *http.Request, a config.AuthConfig) (string, error) {
	if h := strings.TrimSpace(r.Header.Get("Authorization")); h != "" {
		scheme, token, _ := strings.Cut(h, " ")
		if strings.EqualFold(scheme, "Bearer") {
			token = strings.TrimSpace(token)
			if token == "" {
				return "", auth.ErrMalformedArtifact
			}
			return token, nil
		}
		if a.Carrier != config.CarrierCookie {
			return "", auth.ErrMalformedArtifact
		}
	}

	if a.Carrier == config.CarrierCookie {
		if c, err := r.Cookie(a.Cookie.Name); err == nil && c.Value != "" {
			return c.Value, nil
		}
	}

	return "", auth.ErrMissingArtifact
}

// verifyRequest runs the shared extraction and verification path used by the
// gate and by GET /session. The failure reason is logged, never returned to
// the client.
func (s *Server) verifyRequest(r *http.Request) (auth.Claims, error) {
	value, err := extractArtifact(r, s.cfg.Auth)
	if err == nil {
		var claims auth.Claims
		claims, err = s.svc.Verify(r.Context(), value)
		if err == nil {
			s.metrics.ObserveVerify(auth.Reason(nil))
			return claims, nil
		}
	}

	reason := auth.Reason(err)
	s.metrics.ObserveVerify(reason)
	if errors.Is(err, auth.ErrInternal) {
		s.log.Error("artifact verification failed", "reason", reason, "err", err, "rid", requestID(r.Context()))
	} else {
		s.log.Info("artifact rejected", "reason", reason, "path", r.URL.Path, "rid", requestID(r.Context()))
	}
	return auth.Claims{}, err
}

func requireAuth(s *Server) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := s.verifyRequest(r)
			if err != nil {
				if errors.Is(err, auth.ErrInternal) {
					writeMessage(w, http.StatusInternalServerError, msgInternal)
					return
				}
				if s.cfg.Auth.Carrier == config.CarrierBearer {
					w.Header().Set("WWW-Authenticate", "Bearer")
				}
				writeMessage(w, http.StatusUnauthorized, msgUnauthorized)
				return
			}

			ctx := auth.WithPrincipal(r.Context(), claims.Principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func validateBody(wantCT string, v *validate.JSONSchemaValidator, log *slog.Logger) func(http.Handler) http.Handler {
	if strings.TrimSpace(wantCT) == "" && v == nil {
		return func(next http.Handler) http.Handler { return next }
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ct := strings.TrimSpace(wantCT); ct != "" {
				got, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || !strings.EqualFold(got, ct) {
					writeMessage(w, http.StatusUnsupportedMediaType, msgUnsupportedMedia)
					return
				}
			}

			if v == nil {
				next.ServeHTTP(w, r)
				return
			}

			var buf bytes.Buffer
			limited := http.MaxBytesReader(w, r.Body, maxBody)
			if _, err := io.Copy(&buf, limited); err != nil && err != io.EOF {
				writeMessage(w, http.StatusBadRequest, msgBadRequest)
				return
			}
			body := buf.Bytes()
			r.Body = io.NopCloser(bytes.NewReader(body))

			if err := v.Validate(body); err != nil {
				log.Info("request body rejected", "path", r.URL.Path, "err", err, "rid", requestID(r.Context()))
				writeMessage(w, http.StatusBadRequest, msgBadRequest)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
