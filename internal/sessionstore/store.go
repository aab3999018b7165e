// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package sessionstore

import (
	"context"
	"fmt"

	"github.com/Bl4cky99/sessiongate/internal/auth"
	"github.com/Bl4cky99/sessiongate/internal/config"
)

var (
	_ auth.SessionStore = (*Memory)(nil)
	_ auth.SessionStore = (*SQL)(nil)
)

func New(ctx context.Context, cfg config.SessionConfig) (auth.SessionStore, error) {
	switch cfg.Store {
	case "", config.StoreMemory:
		return NewMemory(), nil
	case config.StoreSQLite:
		return OpenSQLite(ctx, cfg.DSN)
	case config.StorePostgres:
		return OpenPostgres(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, cfg.Store)
	}
}
