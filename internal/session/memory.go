package session

import (
	"sync"
	"time"

	"assistant-chatbot/internal/models"
)

// MemoryStore keeps sessions in process memory with lazy TTL expiry. Suitable
// for development and tests; production deployments use the Redis store.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]memoryEntry
	ttl      time.Duration
}

type memoryEntry struct {
	session   models.Session
	expiresAt time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
	}
}

func (s *MemoryStore) Save(session *models.Session) error {
	entry := memoryEntry{
		session:   *session,
		expiresAt: time.Now().Add(s.ttl),
	}
	// The caller keeps appending into its own slice; the stored entry must
	// not share the backing array.
	entry.session.Context.Turns = cloneTurns(session.Context.Turns)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = entry
	return nil
}

func (s *MemoryStore) Load(sessionID string) (*models.Session, error) {
	s.mu.RLock()
	entry, ok := s.sessions[sessionID]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if time.Now().After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return nil, nil
	}

	copied := entry.session
	copied.Context.Turns = cloneTurns(entry.session.Context.Turns)
	return &copied, nil
}

// cloneTurns detaches a context window from its backing array. Turn holds
// only value fields, so an element copy is a deep copy.
func cloneTurns(turns []models.Turn) []models.Turn {
	if turns == nil {
		return nil
	}
	copied := make([]models.Turn, len(turns))
	copy(copied, turns)
	return copied
}

func (s *MemoryStore) Delete(sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

func (s *MemoryStore) ListIDs() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := time.Now()
	ids := make([]string, 0, len(s.sessions))
	for id, entry := range s.sessions {
		if now.Before(entry.expiresAt) {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
