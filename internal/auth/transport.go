// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package auth

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const DefaultTTL = time.Hour

// Artifact is the handle returned to the client after login and presented
// back on every request.
type Artifact struct {
	Value     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Claims is what a successful Verify yields.
type Claims struct {
	Principal Principal
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Transport issues, verifies and revokes artifacts. Exactly one
// implementation is selected per deployment.
type Transport interface {
	Kind() string
	Issue(ctx context.Context, p Principal) (Artifact, error)
	Verify(ctx context.Context, value string) (Claims, error)
	// Revoke reports whether server-side state was removed. The stateless
	// token transport always returns false.
	Revoke(ctx context.Context, value string) (bool, error)
}

type options struct {
	now       func() time.Time
	log       *slog.Logger
	decoyCost int
	onSweep   func(int)
}

type Option func(*options)

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithDecoyCost sets the bcrypt cost of the hash compared against when a
// username is unknown. It should match the cost of the real hashes.
func WithDecoyCost(cost int) Option {
	return func(o *options) {
		o.decoyCost = cost
	}
}

func WithSweepObserver(fn func(removed int)) Option {
	return func(o *options) {
		o.onSweep = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{
		now:       time.Now,
		log:       slog.New(slog.DiscardHandler),
		decoyCost: bcrypt.DefaultCost,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
