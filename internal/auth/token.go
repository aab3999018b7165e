// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const TransportToken = "token"

// TokenTransport is the stateless variant: an HS256 JWT carrying sub, iat,
// exp and jti. Nothing is stored server side, so a token stays valid until
// its exp even after logout.
type TokenTransport struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

func NewTokenTransport(secret []byte, ttl time.Duration, opts ...Option) (*TokenTransport, error) {
	if len(secret) == 0 {
		return nil, errors.New("token transport: empty secret")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	o := buildOptions(opts)
	t := &TokenTransport{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    o.now,
	}
	t.parser = jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(t.now),
	)

	return t, nil
}

func (t *TokenTransport) Kind() string {
	return TransportToken
}

func (t *TokenTransport) Issue(_ context.Context, p Principal) (Artifact, error) {
	if p.Username == "" {
		return Artifact{}, fmt.Errorf("%w: issue for empty subject", ErrInternal)
	}

	// NumericDate has second precision; truncate so Artifact and claims agree.
	now := t.now().Truncate(time.Second)
	exp := now.Add(t.ttl)

	claims := jwt.RegisteredClaims{
		Subject:   p.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return Artifact{}, fmt.Errorf("%w: sign token: %v", ErrInternal, err)
	}

	return Artifact{Value: signed, Subject: p.Username, IssuedAt: now, ExpiresAt: exp}, nil
}

func (t *TokenTransport) Verify(_ context.Context, value string) (Claims, error) {
	if value == "" {
		return Claims{}, ErrMissingArtifact
	}
	if !wellFormedJWT(value) {
		return Claims{}, ErrMalformedArtifact
	}

	var claims jwt.RegisteredClaims
	token, err := t.parser.ParseWithClaims(value, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		// Signature is checked before claims, so ErrTokenExpired only
		// surfaces for an authentic token.
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrExpiredArtifact
		}
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidArtifact, err)
	}

	if !token.Valid || claims.Subject == "" || claims.IssuedAt == nil {
		return Claims{}, ErrInvalidArtifact
	}

	return Claims{
		Principal: Principal{Username: claims.Subject},
		IssuedAt:  claims.IssuedAt.Time,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Revoke cannot invalidate a self-contained token before its expiry.
func (t *TokenTransport) Revoke(context.Context, string) (bool, error) {
	return false, nil
}

// wellFormedJWT checks the compact serialisation shape only: three non-empty
// segments. Bad characters inside a segment fail decoding and count as
// Invalid, like any other tamper.
func wellFormedJWT(v string) bool {
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return false
	}

	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}
