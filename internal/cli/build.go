// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Bl4cky99/sessiongate/internal/auth"
	"github.com/Bl4cky99/sessiongate/internal/config"
	"golang.org/x/crypto/bcrypt"
)

// buildAuth wires credentials and the configured transport. The returned
// store is nil for the token transport.
func buildAuth(ctx context.Context, cfg *config.Config, log *slog.Logger) (*auth.Service, auth.SessionStore, error) {
	creds := make([]auth.UserCredential, 0, len(cfg.Auth.Users))
	decoyCost := bcrypt.DefaultCost
	for i, u := range cfg.Auth.Users {
		creds = append(creds, auth.UserCredential{Username: u.Username, PasswordHash: []byte(u.PasswordHash)})
		if i == 0 {
			if c, err := bcrypt.Cost([]byte(u.PasswordHash)); err == nil {
				decoyCost = c
			}
		}
	}

	var (
		tr    auth.Transport
		store auth.SessionStore
		err   error
	)
	ttl := cfg.Auth.TTL.Std()

	switch cfg.Auth.Transport {
	case config.TransportToken:
		secret, serr := cfg.Secret(getenv)
		if serr != nil {
			return nil, nil, serr
		}
		tr, err = auth.NewTokenTransport(secret, ttl, auth.WithLogger(log))
	case config.TransportSession:
		store, err = openSessionStore(ctx, cfg.Session)
		if err != nil {
			return nil, nil, fmt.Errorf("open session store: %w", err)
		}
		tr, err = auth.NewSessionTransport(store, ttl, auth.WithLogger(log))
	default:
		return nil, nil, fmt.Errorf("%w: transport %q", config.ErrAuthConfig, cfg.Auth.Transport)
	}
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, nil, err
	}

	svc, err := auth.NewService(auth.NewStaticCredentials(creds...), tr,
		auth.WithLogger(log), auth.WithDecoyCost(decoyCost))
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, nil, err
	}

	log.Info("auth ready", "transport", tr.Kind(), "carrier", cfg.Auth.Carrier,
		"ttl", ttl.String(), "users", len(creds), "store", storeName(cfg))
	return svc, store, nil
}

func storeName(cfg *config.Config) string {
	if cfg.Auth.Transport != config.TransportSession {
		return "none"
	}
	return cfg.Session.Store
}
