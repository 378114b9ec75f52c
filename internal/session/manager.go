// Package session manages conversation session lifecycle over a pluggable
// store. The manager hands out sessions; serializing the turns within one
// session is the orchestrator's job.
package session

import (
	"time"

	"github.com/google/uuid"

	"assistant-chatbot/internal/common/logger"
	"assistant-chatbot/internal/models"
)

// Manager provides session creation, lookup, and persistence on top of a
// models.SessionStore.
type Manager struct {
	store    models.SessionStore
	maxTurns int
	logger   logger.Logger
}

func NewManager(store models.SessionStore, maxTurns int, log logger.Logger) *Manager {
	return &Manager{
		store:    store,
		maxTurns: maxTurns,
		logger:   log.With(map[string]interface{}{"component": "session-manager"}),
	}
}

// Create starts a new session with a fresh UUID.
func (m *Manager) Create(userID string) (*models.Session, error) {
	now := time.Now().UTC()
	session := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.store.Save(session); err != nil {
		return nil, err
	}
	m.logger.Info("created session", map[string]interface{}{
		"sessionId": session.ID,
		"userId":    userID,
	})
	return session, nil
}

// Get returns the session or nil when unknown or expired.
func (m *Manager) Get(sessionID string) (*models.Session, error) {
	return m.store.Load(sessionID)
}

// GetOrCreate resolves the session for a turn: an empty or unknown id yields
// a fresh session rather than an error, matching the transport contract.
func (m *Manager) GetOrCreate(sessionID, userID string) (*models.Session, error) {
	if sessionID != "" {
		session, err := m.store.Load(sessionID)
		if err != nil {
			return nil, err
		}
		if session != nil {
			return session, nil
		}
		m.logger.Warn("session not found, creating new", map[string]interface{}{
			"sessionId": sessionID,
		})
	}
	return m.Create(userID)
}

// AppendTurn records a completed turn and persists the session. The context
// window stays bounded at maxTurns.
func (m *Manager) AppendTurn(session *models.Session, turn models.Turn) error {
	session.Context.Append(turn, m.maxTurns)
	session.Touch()
	return m.store.Save(session)
}

// Delete removes a session.
func (m *Manager) Delete(sessionID string) error {
	return m.store.Delete(sessionID)
}
