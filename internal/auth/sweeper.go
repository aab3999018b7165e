// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package auth

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper removes expired session records in the background. Lazy expiry in
// SessionTransport.Verify already rejects them; the sweep only reclaims space.
type Sweeper struct {
	store    SessionStore
	interval time.Duration
	now      func() time.Time
	log      *slog.Logger
	onSweep  func(int)
}

func NewSweeper(store SessionStore, interval time.Duration, opts ...Option) *Sweeper {
	o := buildOptions(opts)
	return &Sweeper{
		store:    store,
		interval: interval,
		now:      o.now,
		log:      o.log,
		onSweep:  o.onSweep,
	}
}

// Run blocks until ctx is done. A non-positive interval disables sweeping.
func (s *Sweeper) Run(ctx context.Context) {
	if s.interval <= 0 {
		return
	}

	tick := time.NewTicker(s.interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Warn("session sweep failed", slog.String("err", err.Error()))
			}
		}
	}
}

func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	n, err := s.store.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}

	if n > 0 {
		s.log.Debug("expired sessions removed", slog.Int("count", n))
	}
	if s.onSweep != nil {
		s.onSweep(n)
	}
	return n, nil
}
