package session

import (
	"context"
	"sync"
	"time"

	"maale/internal/models"
)

type memoryEntry struct {
	actor     models.Actor
	expiresAt time.Time
}

type MemoryStore struct {
	sessions sync.Map
	ttl      time.Duration
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl}
}

func (m *MemoryStore) Put(ctx context.Context, token string, actor models.Actor) error {
	m.sessions.Store(token, memoryEntry{actor: actor, expiresAt: time.Now().Add(m.ttl)})
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, token string) (*models.Actor, error) {
	val, ok := m.sessions.Load(token)
	if !ok {
		return nil, nil
	}
	entry := val.(memoryEntry)
	if time.Now().After(entry.expiresAt) {
		m.sessions.Delete(token)
		return nil, nil
	}
	actor := entry.actor
	return &actor, nil
}

func (m *MemoryStore) Delete(ctx context.Context, token string) error {
	m.sessions.Delete(token)
	return nil
}
