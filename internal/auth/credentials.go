// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package auth

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

type UserCredential struct {
	Username     string
	PasswordHash []byte
}

type CredentialStore interface {
	// Lookup returns ErrUserNotFound for unknown usernames.
	Lookup(ctx context.Context, username string) (UserCredential, error)
}

// StaticCredentials is a fixed, read-only lookup table loaded at startup.
type StaticCredentials struct {
	users map[string]UserCredential
}

func NewStaticCredentials(creds ...UserCredential) *StaticCredentials {
	m := make(map[string]UserCredential, len(creds))
	for _, c := range creds {
		m[c.Username] = UserCredential{
			Username:     c.Username,
			PasswordHash: append([]byte(nil), c.PasswordHash...),
		}
	}

	return &StaticCredentials{users: m}
}

func (s *StaticCredentials) Lookup(_ context.Context, username string) (UserCredential, error) {
	c, ok := s.users[username]
	if !ok {
		return UserCredential{}, ErrUserNotFound
	}

	return UserCredential{
		Username:     c.Username,
		PasswordHash: append([]byte(nil), c.PasswordHash...),
	}, nil
}

// VerifyPassword compares in constant time with respect to the password
// contents; bcrypt never reverses the hash.
func VerifyPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}

func HashPassword(password string, cost int) ([]byte, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return h, nil
}
