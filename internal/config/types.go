// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package config

import "time"

const (
	TransportToken   = "token"
	TransportSession = "session"

	CarrierBearer = "bearer"
	CarrierCookie = "cookie"

	SameSiteLax    = "lax"
	SameSiteStrict = "strict"
	SameSiteNone   = "none"

	StoreMemory   = "memory"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

type Config struct {
	Server    ServerConfig  `yaml:"server" json:"server" toml:"server"`
	Auth      AuthConfig    `yaml:"auth" json:"auth" toml:"auth"`
	Session   SessionConfig `yaml:"session" json:"session" toml:"session"`
	Endpoints []Endpoint    `yaml:"endpoints" json:"endpoints" toml:"endpoints"`
}

type ServerConfig struct {
	Addr           string            `yaml:"addr" json:"addr" toml:"addr"`
	BasePath       string            `yaml:"basePath" json:"basePath" toml:"basePath"`
	DefaultHeaders map[string]string `yaml:"defaultHeaders" json:"defaultHeaders" toml:"defaultHeaders"`
	// Empty means same-origin only: no CORS headers are ever sent.
	AllowedOrigin string        `yaml:"allowedOrigin" json:"allowedOrigin" toml:"allowedOrigin"`
	Metrics       MetricsConfig `yaml:"metrics" json:"metrics" toml:"metrics"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled" toml:"enabled"`
	Path    string `yaml:"path" json:"path" toml:"path"`
}

type AuthConfig struct {
	// "token" | "session"
	Transport string `yaml:"transport" json:"transport" toml:"transport"`
	// "bearer" | "cookie"
	Carrier   string       `yaml:"carrier" json:"carrier" toml:"carrier"`
	TTL       Duration     `yaml:"ttl" json:"ttl" toml:"ttl"`
	SecretEnv string       `yaml:"secretEnv" json:"secretEnv" toml:"secretEnv"`
	Cookie    CookieConfig `yaml:"cookie" json:"cookie" toml:"cookie"`
	Users     []User       `yaml:"users" json:"users" toml:"users"`
}

type CookieConfig struct {
	Name     string `yaml:"name" json:"name" toml:"name"`
	Path     string `yaml:"path" json:"path" toml:"path"`
	Secure   bool   `yaml:"secure" json:"secure" toml:"secure"`
	SameSite string `yaml:"sameSite" json:"sameSite" toml:"sameSite"`
}

type User struct {
	Username     string `yaml:"username" json:"username" toml:"username"`
	PasswordHash string `yaml:"passwordHash" json:"passwordHash" toml:"passwordHash"`
}

type SessionConfig struct {
	// "memory" | "sqlite" | "postgres"
	Store         string   `yaml:"store" json:"store" toml:"store"`
	DSN           string   `yaml:"dsn" json:"dsn" toml:"dsn"`
	// Nil means unset and gets the default; an explicit 0 disables sweeping.
	SweepInterval *Duration `yaml:"sweepInterval" json:"sweepInterval" toml:"sweepInterval"`
}

func (s SessionConfig) Sweep() time.Duration {
	if s.SweepInterval == nil {
		return 0
	}
	return s.SweepInterval.Std()
}

type Endpoint struct {
	Method   string            `yaml:"method" json:"method" toml:"method"`
	Path     string            `yaml:"path" json:"path" toml:"path"`
	Status   int               `yaml:"status" json:"status" toml:"status"`
	Headers  map[string]string `yaml:"headers,omitempty" json:"headers,omitempty" toml:"headers,omitempty"`
	Body     string            `yaml:"body,omitempty" json:"body,omitempty" toml:"body,omitempty"`
	BodyFile string            `yaml:"bodyFile,omitempty" json:"bodyFile,omitempty" toml:"bodyFile,omitempty"`
}
