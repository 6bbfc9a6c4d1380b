package session

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore keeps sessions in a map. Scroll sessions hold live trackers,
// so they are never serialized and a restart drops them.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int

	now func() time.Time
}

// NewMemoryStore creates a store holding at most limit sessions; limit <= 0
// means unbounded.
func NewMemoryStore(limit int) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		max:      limit,
		now:      time.Now,
	}
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now()
	if s.IsExpired(now) {
		delete(m.sessions, id)
		return nil, ErrExpired
	}
	s.Touch(now)
	return s, nil
}

func (m *MemoryStore) Set(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.sessions[s.ID]; !exists && m.max > 0 && len(m.sessions) >= m.max {
		m.evictExpired(m.now())
		if len(m.sessions) >= m.max {
			return ErrFull
		}
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Cleanup(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictExpired(m.now()), nil
}

func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func (m *MemoryStore) evictExpired(now time.Time) []string {
	var expired []string
	for id, s := range m.sessions {
		if s.IsExpired(now) {
			delete(m.sessions, id)
			expired = append(expired, id)
		}
	}
	sort.Strings(expired)
	return expired
}

var _ Store = (*MemoryStore)(nil)
