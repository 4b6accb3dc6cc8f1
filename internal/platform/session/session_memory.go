// Package session provides dialogue session stores backed by Redis or process memory.
package session

import (
	"context"
	"sync"
	"time"

	"stocks_bot/internal/feature/dialogue/domain/entity"
	"stocks_bot/internal/feature/dialogue/usecase"
)

var _ usecase.SessionStore = (*SessionMemory)(nil)

// SessionMemory keeps dialogues in process memory. It is used when Redis is not configured.
// Expired entries are dropped lazily on access.
type SessionMemory struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[entity.SessionKey]memoryEntry
}

type memoryEntry struct {
	session   entity.Session
	expiresAt time.Time
}

// NewSessionMemory creates an in-memory store. A non-positive ttl means DefaultTTL.
func NewSessionMemory(ttl time.Duration) *SessionMemory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionMemory{
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[entity.SessionKey]memoryEntry),
	}
}

func (m *SessionMemory) Get(ctx context.Context, key entity.SessionKey) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.sessions[key]
	if !ok {
		return nil, usecase.ErrSessionNotFound
	}
	if !m.now().Before(e.expiresAt) {
		delete(m.sessions, key)
		return nil, usecase.ErrSessionNotFound
	}
	s := e.session
	return &s, nil
}

func (m *SessionMemory) Save(ctx context.Context, sess *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.Key()] = memoryEntry{session: *sess, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *SessionMemory) Delete(ctx context.Context, key entity.SessionKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, key)
	return nil
}

// Len returns the number of stored dialogues, including expired ones not yet evicted.
func (m *SessionMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
