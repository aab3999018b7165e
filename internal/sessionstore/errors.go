// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package sessionstore

import "errors"

var (
	ErrUnknownStore = errors.New("unknown session store")
	ErrEmptyDSN     = errors.New("empty dsn")
	ErrMigrate      = errors.New("migrate session schema")
)
