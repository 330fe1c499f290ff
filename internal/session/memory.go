package session

import "sync"

// Store keeps sessions keyed by user identity. Entries are independent;
// access across different keys never interferes. Sessions are
// ephemeral: a process restart loses all in-flight conversations.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]Session
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{sessions: make(map[int64]Session)}
}

// Get returns the session for a user, creating an Idle one lazily.
// The returned value is a copy; mutations must be written back via Set.
func (s *Store) Get(userID int64) Session {
	s.mu.RLock()
	sess, ok := s.sessions[userID]
	s.mu.RUnlock()
	if ok {
		return sess
	}
	return Session{UserID: userID, Step: StepIdle}
}

// Set stores the session for a user.
func (s *Store) Set(userID int64, sess Session) {
	sess.UserID = userID
	s.mu.Lock()
	s.sessions[userID] = sess
	s.mu.Unlock()
}

// Clear removes the session for a user; the next Get starts from Idle.
func (s *Store) Clear(userID int64) {
	s.mu.Lock()
	delete(s.sessions, userID)
	s.mu.Unlock()
}

// InProgress reports whether the user currently has an active flow.
func (s *Store) InProgress(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[userID]
	return ok && sess.Step != StepIdle
}
