// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const (
	TransportSession = "session"

	sessionIDBytes = 32
)

var sessionIDLen = base64.RawURLEncoding.EncodedLen(sessionIDBytes)

// SessionRecord is the server-held state behind a stateful artifact.
type SessionRecord struct {
	ID        string
	Principal Principal
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (r SessionRecord) Expired(now time.Time) bool {
	return !now.Before(r.ExpiresAt)
}

// SessionStore persists session records. Implementations must make Create,
// Get and Delete atomic with respect to each other.
type SessionStore interface {
	// Create returns ErrSessionExists when the id is taken.
	Create(ctx context.Context, rec SessionRecord) error
	// Get returns ErrSessionNotFound when no record exists.
	Get(ctx context.Context, id string) (SessionRecord, error)
	Delete(ctx context.Context, id string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int, error)
	Close() error
}

// SessionTransport is the stateful variant: the artifact is an opaque random
// id and the store is the only source of truth.
type SessionTransport struct {
	store SessionStore
	ttl   time.Duration
	now   func() time.Time
	log   *slog.Logger
}

func NewSessionTransport(store SessionStore, ttl time.Duration, opts ...Option) (*SessionTransport, error) {
	if store == nil {
		return nil, errors.New("session transport: nil store")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	o := buildOptions(opts)
	return &SessionTransport{store: store, ttl: ttl, now: o.now, log: o.log}, nil
}

func (t *SessionTransport) Kind() string {
	return TransportSession
}

func (t *SessionTransport) Issue(ctx context.Context, p Principal) (Artifact, error) {
	if p.Username == "" {
		return Artifact{}, fmt.Errorf("%w: issue for empty subject", ErrInternal)
	}

	id, err := newSessionID()
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	// Stores keep millisecond precision.
	now := t.now().Truncate(time.Millisecond)
	rec := SessionRecord{
		ID:        id,
		Principal: p,
		IssuedAt:  now,
		ExpiresAt: now.Add(t.ttl),
	}

	if err := t.store.Create(ctx, rec); err != nil {
		return Artifact{}, fmt.Errorf("%w: create session: %v", ErrInternal, err)
	}

	return Artifact{Value: id, Subject: p.Username, IssuedAt: rec.IssuedAt, ExpiresAt: rec.ExpiresAt}, nil
}

func (t *SessionTransport) Verify(ctx context.Context, value string) (Claims, error) {
	if value == "" {
		return Claims{}, ErrMissingArtifact
	}
	if !wellFormedSessionID(value) {
		return Claims{}, ErrMalformedArtifact
	}

	rec, err := t.store.Get(ctx, value)
	if errors.Is(err, ErrSessionNotFound) {
		return Claims{}, ErrRevokedArtifact
	}
	if err != nil {
		return Claims{}, fmt.Errorf("%w: get session: %v", ErrInternal, err)
	}

	if rec.Expired(t.now()) {
		if _, err := t.store.Delete(ctx, value); err != nil {
			t.log.Warn("lazy session delete failed", slog.String("err", err.Error()))
		}
		return Claims{}, ErrExpiredArtifact
	}

	return Claims{Principal: rec.Principal, IssuedAt: rec.IssuedAt, ExpiresAt: rec.ExpiresAt}, nil
}

func (t *SessionTransport) Revoke(ctx context.Context, value string) (bool, error) {
	if !wellFormedSessionID(value) {
		return false, nil
	}

	ok, err := t.store.Delete(ctx, value)
	if err != nil {
		return false, fmt.Errorf("%w: delete session: %v", ErrInternal, err)
	}
	return ok, nil
}

func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("session id: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func wellFormedSessionID(v string) bool {
	return len(v) == sessionIDLen && isBase64URL(v)
}

func isBase64URL(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}
