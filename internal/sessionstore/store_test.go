// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package sessionstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Bl4cky99/sessiongate/internal/auth"
	"github.com/Bl4cky99/sessiongate/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func record(id, user string, ttl time.Duration) auth.SessionRecord {
	return auth.SessionRecord{
		ID:        id,
		Principal: auth.Principal{Username: user},
		IssuedAt:  base,
		ExpiresAt: base.Add(ttl),
	}
}

// exerciseStore runs the behaviour every SessionStore must share.
func exerciseStore(t *testing.T, s auth.SessionStore) {
	t.Helper()
	ctx := context.Background()

	t.Run("create and get", func(t *testing.T) {
		rec := record("sid-1", "admin", time.Hour)
		require.NoError(t, s.Create(ctx, rec))

		got, err := s.Get(ctx, "sid-1")
		require.NoError(t, err)
		assert.Equal(t, "admin", got.Principal.Username)
		assert.True(t, rec.IssuedAt.Equal(got.IssuedAt))
		assert.True(t, rec.ExpiresAt.Equal(got.ExpiresAt))
	})

	t.Run("duplicate id", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, record("sid-dup", "admin", time.Hour)))
		err := s.Create(ctx, record("sid-dup", "other", time.Hour))
		require.ErrorIs(t, err, auth.ErrSessionExists)

		got, err := s.Get(ctx, "sid-dup")
		require.NoError(t, err)
		assert.Equal(t, "admin", got.Principal.Username)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := s.Get(ctx, "nope")
		require.ErrorIs(t, err, auth.ErrSessionNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, record("sid-del", "admin", time.Hour)))

		ok, err := s.Delete(ctx, "sid-del")
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.Delete(ctx, "sid-del")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = s.Get(ctx, "sid-del")
		require.ErrorIs(t, err, auth.ErrSessionNotFound)
	})

	t.Run("delete expired", func(t *testing.T) {
		require.NoError(t, s.Create(ctx, record("sid-old-1", "admin", time.Minute)))
		require.NoError(t, s.Create(ctx, record("sid-old-2", "admin", 2*time.Minute)))
		require.NoError(t, s.Create(ctx, record("sid-fresh", "admin", 48*time.Hour)))

		// The boundary record counts as expired.
		n, err := s.DeleteExpired(ctx, base.Add(24*time.Hour))
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 2)

		_, err = s.Get(ctx, "sid-old-1")
		require.ErrorIs(t, err, auth.ErrSessionNotFound)
		_, err = s.Get(ctx, "sid-fresh")
		require.NoError(t, err)

		n, err = s.DeleteExpired(ctx, base.Add(48*time.Hour))
		require.NoError(t, err)
		assert.Equal(t, 1, n)
	})

	t.Run("concurrent create and delete", func(t *testing.T) {
		const workers = 16
		var wg sync.WaitGroup
		errs := make(chan error, workers)

		for i := range workers {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := fmt.Sprintf("sid-c-%d", i)
				if err := s.Create(ctx, record(id, "admin", time.Hour)); err != nil {
					errs <- err
					return
				}
				if i%2 == 0 {
					if _, err := s.Delete(ctx, id); err != nil {
						errs <- err
					}
				}
			}(i)
		}
		wg.Wait()
		close(errs)

		for err := range errs {
			require.NoError(t, err)
		}

		for i := range workers {
			_, err := s.Get(ctx, fmt.Sprintf("sid-c-%d", i))
			if i%2 == 0 {
				assert.ErrorIs(t, err, auth.ErrSessionNotFound)
			} else {
				assert.NoError(t, err)
			}
		}
	})
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	exerciseStore(t, m)
	require.NoError(t, m.Close())
}

func TestSQLiteStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "sessions.db")

	s, err := OpenSQLite(context.Background(), path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	exerciseStore(t, s)
}

func TestSQLiteReopenKeepsRecords(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "sessions.db")

	s, err := OpenSQLite(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.Create(ctx, record("sid-keep", "admin", time.Hour)))
	require.NoError(t, s.Close())

	// Migrations must be idempotent across restarts.
	s, err = OpenSQLite(ctx, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	got, err := s.Get(ctx, "sid-keep")
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Principal.Username)
}

func TestOpenEmptyDSN(t *testing.T) {
	_, err := OpenSQLite(context.Background(), "  ")
	require.ErrorIs(t, err, ErrEmptyDSN)

	_, err = OpenPostgres(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyDSN)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	s, err := New(ctx, config.SessionConfig{Store: config.StoreMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, s)

	s, err = New(ctx, config.SessionConfig{Store: config.StoreSQLite, DSN: filepath.Join(t.TempDir(), "s.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQL{}, s)
	require.NoError(t, s.Close())

	_, err = New(ctx, config.SessionConfig{Store: "redis"})
	require.ErrorIs(t, err, ErrUnknownStore)
}

func TestRebind(t *testing.T) {
	pg := &SQL{dialect: dialectPostgres}
	assert.Equal(t, "SELECT a FROM t WHERE x = $1 AND y <= $2", pg.rebind("SELECT a FROM t WHERE x = ? AND y <= ?"))

	lite := &SQL{dialect: dialectSQLite}
	assert.Equal(t, "DELETE FROM t WHERE id = ?", lite.rebind("DELETE FROM t WHERE id = ?"))
}
