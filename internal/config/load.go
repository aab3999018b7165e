// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Bl4cky99/sessiongate/internal/errx"
	"github.com/BurntSushi/toml"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTTL       = time.Hour
	DefaultSecretEnv = "SESSIONGATE_SECRET"
	DefaultCookie    = "token"

	DefaultSweepInterval = time.Minute

	defaultProtectedBody = `{"principal":{"username":{{json .Principal.Username}}}}`
)

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("empty config path")
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %q: %w", path, err)
	}

	var cfg Config
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yml", ".yaml":
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: yaml decode %q: %v", ErrDecode, path, err)
		}
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(b))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, fmt.Errorf("%w: json decode %q: %v", ErrDecode, path, err)
		}
	case ".toml":
		md, err := toml.Decode(string(b), &cfg)
		if err != nil {
			return nil, fmt.Errorf("%w: toml decode %q: %v", ErrDecode, path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("%w: toml decode %q: unknown keys %v", ErrDecode, path, undecoded)
		}
	default:
		return nil, fmt.Errorf("%w: %q (use .yaml, .yml, .json or .toml)", ErrUnsupportedExt, ext)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}

	if c.Server.BasePath == "" {
		c.Server.BasePath = "/"
	}

	if c.Server.DefaultHeaders == nil {
		c.Server.DefaultHeaders = map[string]string{}
	}

	if c.Server.Metrics.Enabled && c.Server.Metrics.Path == "" {
		c.Server.Metrics.Path = "/metrics"
	}

	if c.Auth.Transport == "" {
		c.Auth.Transport = TransportToken
	}

	if c.Auth.Carrier == "" {
		c.Auth.Carrier = CarrierBearer
	}

	if c.Auth.TTL == 0 {
		c.Auth.TTL = Duration(DefaultTTL)
	}

	if c.Auth.SecretEnv == "" {
		c.Auth.SecretEnv = DefaultSecretEnv
	}

	if c.Auth.Cookie.Name == "" {
		c.Auth.Cookie.Name = DefaultCookie
	}

	if c.Auth.Cookie.Path == "" {
		c.Auth.Cookie.Path = "/"
	}

	if c.Auth.Cookie.SameSite == "" {
		c.Auth.Cookie.SameSite = SameSiteLax
	}

	if c.Session.Store == "" {
		c.Session.Store = StoreMemory
	}

	if c.Session.SweepInterval == nil {
		d := Duration(DefaultSweepInterval)
		c.Session.SweepInterval = &d
	}

	if len(c.Endpoints) == 0 {
		c.Endpoints = []Endpoint{{
			Method:  "GET",
			Path:    "/protected",
			Headers: map[string]string{"Content-Type": "application/json"},
			Body:    defaultProtectedBody,
		}}
	}

	for i := range c.Endpoints {
		if c.Endpoints[i].Status == 0 {
			c.Endpoints[i].Status = 200
		}
	}
}

func (c *Config) Validate() error {
	e := errx.New()

	c.validateServer(e.Scope("server"))
	c.validateAuth(e.Scope("auth"))
	c.validateSession(e.Scope("session"))

	e.If(len(c.Endpoints) == 0, ErrEndpointConfig, "at least one endpoint required")

	seen := map[string]struct{}{}
	for i, ep := range c.Endpoints {
		s := e.Scope(fmt.Sprintf("endpoints[%d]", i))

		s.If(!isHTTPMethod(ep.Method), ErrEndpointConfig, "method %q invalid", ep.Method)
		s.If(!strings.HasPrefix(ep.Path, "/"), ErrEndpointConfig, "path must start with '/'")
		s.If(ep.Status < 100 || ep.Status > 599, ErrEndpointConfig, "status %d out of range", ep.Status)

		both := (ep.Body != "" && ep.BodyFile != "") || (ep.Body == "" && ep.BodyFile == "")
		s.If(both, ErrEndpointConfig, "set exactly one of body or bodyFile")

		if ep.BodyFile != "" && !fileExists(ep.BodyFile) {
			s.Wrapf(ErrEndpointConfig, "bodyFile %q not found", ep.BodyFile)
		}

		key := strings.ToUpper(ep.Method) + " " + ep.Path
		if _, ok := seen[key]; ok {
			s.Wrapf(ErrEndpointConfig, "duplicate endpoint %s", key)
		}
		seen[key] = struct{}{}

		if isReservedPath(ep.Path) {
			s.Wrapf(ErrEndpointConfig, "path %q is reserved", ep.Path)
		}
	}

	return e.Err()
}

func (c *Config) validateServer(s *errx.Scope) {
	s.If(!strings.HasPrefix(c.Server.BasePath, "/"), ErrServerConfig, "basePath must start with '/'")

	if o := c.Server.AllowedOrigin; o != "" && !validOrigin(o) {
		s.Wrapf(ErrServerConfig, "allowedOrigin %q must be scheme://host[:port]", o)
	}

	if c.Server.Metrics.Enabled {
		s.If(!strings.HasPrefix(c.Server.Metrics.Path, "/"), ErrServerConfig, "metrics.path must start with '/'")
	}
}

func (c *Config) validateAuth(s *errx.Scope) {
	a := c.Auth

	switch a.Transport {
	case TransportToken, TransportSession:
	default:
		s.Wrapf(ErrAuthConfig, "transport %q invalid (use token|session)", a.Transport)
	}

	switch a.Carrier {
	case CarrierBearer, CarrierCookie:
	default:
		s.Wrapf(ErrAuthConfig, "carrier %q invalid (use bearer|cookie)", a.Carrier)
	}

	s.If(a.TTL.Std() <= 0, ErrAuthConfig, "ttl must be positive")

	cs := s.Scope("cookie")
	switch a.Cookie.SameSite {
	case SameSiteLax, SameSiteStrict:
	case SameSiteNone:
		cs.If(!a.Cookie.Secure, ErrAuthConfig, "sameSite=none requires secure=true")
	default:
		cs.Wrapf(ErrAuthConfig, "sameSite %q invalid (use lax|strict|none)", a.Cookie.SameSite)
	}
	cs.If(!strings.HasPrefix(a.Cookie.Path, "/"), ErrAuthConfig, "path must start with '/'")

	s.If(len(a.Users) == 0, ErrAuthConfig, "users must not be empty")

	seen := map[string]struct{}{}
	for i, u := range a.Users {
		us := s.Scope(fmt.Sprintf("users[%d]", i))
		if u.Username == "" || u.PasswordHash == "" {
			us.Wrapf(ErrAuthConfig, "requires username and passwordHash")
			continue
		}
		if _, err := bcrypt.Cost([]byte(u.PasswordHash)); err != nil {
			us.Wrapf(ErrAuthConfig, "passwordHash is not a bcrypt hash")
		}
		if _, ok := seen[u.Username]; ok {
			us.Wrapf(ErrAuthConfig, "duplicate username %q", u.Username)
		}
		seen[u.Username] = struct{}{}
	}
}

func (c *Config) validateSession(s *errx.Scope) {
	switch c.Session.Store {
	case StoreMemory:
	case StoreSQLite, StorePostgres:
		s.If(strings.TrimSpace(c.Session.DSN) == "", ErrSessionConfig, "store=%s requires dsn", c.Session.Store)
	default:
		s.Wrapf(ErrSessionConfig, "store %q invalid (use memory|sqlite|postgres)", c.Session.Store)
	}

	s.If(c.Session.Sweep() < 0, ErrSessionConfig, "sweepInterval must not be negative")
}

func isHTTPMethod(s string) bool {
	switch strings.ToUpper(s) {
	case "GET", "POST", "PUT", "PATCH", "DELETE":
		return true
	default:
		return false
	}
}

func isReservedPath(p string) bool {
	switch strings.TrimRight(p, "/") {
	case "/login", "/logout", "/session":
		return true
	default:
		return false
	}
}

func validOrigin(o string) bool {
	u, err := url.Parse(o)
	if err != nil {
		return false
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}

	return u.Host != "" && u.Path == "" && u.RawQuery == "" && u.Fragment == "" && u.User == nil
}

func fileExists(p string) bool {
	if p == "" {
		return false
	}

	if _, err := os.Stat(p); err != nil {
		return false
	}

	return true
}
