package models

import "time"

// Session represents a conversation session and its accumulated context.
type Session struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	UpdatedAt time.Time           `json:"updatedAt"`
	Context   ConversationContext `json:"context"`
}

// NextTurnIndex returns the index the next message in this session will get.
func (s *Session) NextTurnIndex() int {
	return len(s.Context.Turns)
}

// Touch updates the modification timestamp.
func (s *Session) Touch() {
	s.UpdatedAt = time.Now().UTC()
}

// SessionStore defines session persistence. Implementations must be safe for
// concurrent use; the orchestrator serializes turns per session, not per store.
type SessionStore interface {
	Save(session *Session) error
	Load(sessionID string) (*Session, error)
	Delete(sessionID string) error
	ListIDs() ([]string, error)
}
