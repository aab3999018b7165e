// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Jason Giese (Bl4cky99)

package sessionstore

import (
	"context"
	"sync"
	"time"

	"github.com/Bl4cky99/sessiongate/internal/auth"
)

// Memory keeps records in process memory. Everything is lost on restart.
type Memory struct {
	mu       sync.Mutex
	sessions map[string]auth.SessionRecord
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]auth.SessionRecord)}
}

func (m *Memory) Create(_ context.Context, rec auth.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[rec.ID]; ok {
		return auth.ErrSessionExists
	}
	m.sessions[rec.ID] = rec
	return nil
}

func (m *Memory) Get(_ context.Context, id string) (auth.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.sessions[id]
	if !ok {
		return auth.SessionRecord{}, auth.ErrSessionNotFound
	}
	return rec, nil
}

func (m *Memory) Delete(_ context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return false, nil
	}
	delete(m.sessions, id)
	return true, nil
}

func (m *Memory) DeleteExpired(_ context.Context, now time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, rec := range m.sessions {
		if rec.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n, nil
}

func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Memory) Close() error {
	return nil
}
