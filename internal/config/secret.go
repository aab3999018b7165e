// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package config

import "fmt"

const MinSecretLen = 32

// Secret resolves the HMAC key for the token transport from the environment.
// There is no fallback: a missing or short secret refuses startup.
func (c *Config) Secret(getenv func(string) string) ([]byte, error) {
	if c.Auth.SecretEnv == "" {
		return nil, fmt.Errorf("%w: auth.secretEnv not set", ErrMissingSecret)
	}

	v := getenv(c.Auth.SecretEnv)
	if v == "" {
		return nil, fmt.Errorf("%w: $%s is empty", ErrMissingSecret, c.Auth.SecretEnv)
	}
	if len(v) < MinSecretLen {
		return nil, fmt.Errorf("%w: $%s must be at least %d bytes", ErrMissingSecret, c.Auth.SecretEnv, MinSecretLen)
	}

	return []byte(v), nil
}
