// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package auth

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Service runs login and logout on top of a credential store and a single
// configured transport.
type Service struct {
	creds     CredentialStore
	transport Transport
	log       *slog.Logger
	decoy     []byte
}

func NewService(creds CredentialStore, transport Transport, opts ...Option) (*Service, error) {
	if creds == nil {
		return nil, errors.New("auth service: nil credential store")
	}
	if transport == nil {
		return nil, errors.New("auth service: nil transport")
	}

	o := buildOptions(opts)

	seed := make([]byte, 32)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("auth service: decoy seed: %w", err)
	}
	// bcrypt only looks at the first 72 bytes, 32 random bytes are plenty.
	decoy, err := bcrypt.GenerateFromPassword(seed, o.decoyCost)
	if err != nil {
		return nil, fmt.Errorf("auth service: decoy hash: %w", err)
	}

	return &Service{creds: creds, transport: transport, log: o.log, decoy: decoy}, nil
}

func (s *Service) Transport() Transport {
	return s.transport
}

// Login returns ErrInvalidCredentials for an unknown user and for a wrong
// password alike. Both paths run exactly one bcrypt comparison.
func (s *Service) Login(ctx context.Context, username, password string) (Artifact, error) {
	cred, err := s.creds.Lookup(ctx, username)
	switch {
	case errors.Is(err, ErrUserNotFound):
		_ = bcrypt.CompareHashAndPassword(s.decoy, []byte(password))
		return Artifact{}, ErrInvalidCredentials
	case err != nil:
		_ = bcrypt.CompareHashAndPassword(s.decoy, []byte(password))
		s.log.Error("credential lookup failed", slog.String("err", err.Error()))
		return Artifact{}, fmt.Errorf("%w: credential lookup: %v", ErrInternal, err)
	}

	if !VerifyPassword(password, cred.PasswordHash) {
		return Artifact{}, ErrInvalidCredentials
	}

	a, err := s.transport.Issue(ctx, Principal{Username: cred.Username})
	if err != nil {
		s.log.Error("issue artifact failed", slog.String("transport", s.transport.Kind()), slog.String("err", err.Error()))
		if !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return Artifact{}, err
	}

	s.log.Info("login", slog.String("user", cred.Username), slog.String("transport", s.transport.Kind()))
	return a, nil
}

// Logout returns once revocation is complete. An empty value has nothing to
// revoke and is not an error.
func (s *Service) Logout(ctx context.Context, value string) (bool, error) {
	if value == "" {
		return false, nil
	}

	ok, err := s.transport.Revoke(ctx, value)
	if err != nil {
		s.log.Error("revoke failed", slog.String("transport", s.transport.Kind()), slog.String("err", err.Error()))
		if !errors.Is(err, ErrInternal) {
			err = fmt.Errorf("%w: %v", ErrInternal, err)
		}
		return false, err
	}
	return ok, nil
}

func (s *Service) Verify(ctx context.Context, value string) (Claims, error) {
	return s.transport.Verify(ctx, value)
}
