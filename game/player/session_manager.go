package player

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// SessionManager maintains the registry of live sessions.
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session // session id → session
	logger   *zap.Logger
}

// NewSessionManager creates a new SessionManager.
func NewSessionManager(logger *zap.Logger) *SessionManager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		logger:   logger,
	}
}

// Register adds a session, replacing any previous one with the same id.
func (sm *SessionManager) Register(s *Session) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if _, ok := sm.sessions[s.ID()]; ok {
		sm.logger.Info("session replaced", zap.String("session_id", s.ID()))
	}
	sm.sessions[s.ID()] = s
	sm.logger.Info("player session registered",
		zap.String("session_id", s.ID()),
		zap.String("class", s.ClassName()))
}

// Unregister removes the session for id.
func (sm *SessionManager) Unregister(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, id)
	sm.logger.Info("player session unregistered", zap.String("session_id", id))
}

// Get returns the session for id, or nil if not found.
func (sm *SessionManager) Get(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// With runs fn while holding the session's lock. It returns ErrNotFound
// when no session is registered under id.
func (sm *SessionManager) With(id string, fn func(*Session) error) error {
	s := sm.Get(id)
	if s == nil {
		return ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

// Count returns the number of live sessions.
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// All returns a snapshot slice of all current sessions.
func (sm *SessionManager) All() []*Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	out := make([]*Session, 0, len(sm.sessions))
	for _, s := range sm.sessions {
		out = append(out, s)
	}
	return out
}

// SaveAll persists every live session, each under its own lock. It
// returns the number saved and the first error.
func (sm *SessionManager) SaveAll(ctx context.Context, store *Store) (int, error) {
	var firstErr error
	saved := 0
	for _, s := range sm.All() {
		if err := ctx.Err(); err != nil {
			return saved, err
		}
		s.mu.Lock()
		err := store.Save(ctx, s)
		s.mu.Unlock()
		if err != nil {
			sm.logger.Error("session save failed", zap.String("session_id", s.ID()), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		saved++
	}
	return saved, firstErr
}
