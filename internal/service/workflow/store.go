package workflow

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/whuang/agentlab/internal/model/workflow"
)

// Store keeps sessions in memory for the process lifetime. Independent
// sessions may be driven concurrently; per-session mutation is sequential
// and owned by the engine.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]workflow.Session
}

// NewStore bootstraps the in-memory session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]workflow.Session)}
}

// Create provisions a session for one workflow run.
func (s *Store) Create(workflowType workflow.Type) workflow.Session {
	session := workflow.Session{
		ID:           uuid.NewString(),
		WorkflowType: workflowType,
		CreatedAt:    time.Now().UTC(),
		CurrentStage: workflow.StageNotStarted,
	}

	s.mu.Lock()
	s.sessions[session.ID] = session
	s.mu.Unlock()

	return session
}

// Get retrieves a session copy by identifier.
func (s *Store) Get(sessionID string) (workflow.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok {
		return workflow.Session{}, ErrSessionNotFound
	}
	return copySession(session), nil
}

// Save replaces the stored state for the session.
func (s *Store) Save(session workflow.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[session.ID]; !ok {
		return ErrSessionNotFound
	}
	s.sessions[session.ID] = copySession(session)
	return nil
}

// Count reports the number of live sessions.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func copySession(session workflow.Session) workflow.Session {
	history := make([]workflow.StepRecord, len(session.History))
	copy(history, session.History)
	session.History = history
	return session
}
