package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a map. Expired entries are removed lazily
// when they are looked up. Sessions do not survive a restart.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryStore returns an empty MemoryStore. A non-positive ttl means DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]Session),
		ttl:      ttlOrDefault(ttl),
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(_ context.Context, userID string) (Session, error) {
	token, err := NewToken()
	if err != nil {
		return Session{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Session{Token: token, UserID: userID, ExpiresAt: m.now().Add(m.ttl)}
	m.sessions[token] = s
	return s, nil
}

func (m *MemoryStore) Lookup(_ context.Context, token string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	if !m.now().Before(s.ExpiresAt) {
		delete(m.sessions, token)
		return Session{}, ErrNotFound
	}
	return s, nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
