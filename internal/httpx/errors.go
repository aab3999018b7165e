// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package httpx

import "errors"

var (
	ErrBodyFileNotFound = errors.New("body file not found")
	ErrNoAuthService    = errors.New("no auth service configured")
	ErrTemplate         = errors.New("endpoint template")
)
