// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingArtifact    = errors.New("missing artifact")
	ErrMalformedArtifact  = errors.New("malformed artifact")
	ErrExpiredArtifact    = errors.New("expired artifact")
	ErrInvalidArtifact    = errors.New("invalid artifact")
	ErrRevokedArtifact    = errors.New("revoked artifact")
	ErrInternal           = errors.New("internal failure")

	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExists   = errors.New("session already exists")
)

// Reason returns a short label for logs and metrics. A nil error is "ok".
func Reason(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInternal):
		return "internal"
	case errors.Is(err, ErrMissingArtifact):
		return "missing"
	case errors.Is(err, ErrMalformedArtifact):
		return "malformed"
	case errors.Is(err, ErrExpiredArtifact):
		return "expired"
	case errors.Is(err, ErrRevokedArtifact):
		return "revoked"
	case errors.Is(err, ErrInvalidArtifact):
		return "invalid"
	case errors.Is(err, ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "internal"
	}
}
