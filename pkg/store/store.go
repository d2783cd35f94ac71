// Package store provides in-memory storage for calculator sessions.
package store

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/lemonberrylabs/deskcalc/pkg/session"
	"github.com/lemonberrylabs/deskcalc/pkg/types"
)

// Session is a stored calculator session.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Calc *session.Session `json:"-"`

	seq int64 // creation order, for stable listing
}

// Store is a thread-safe in-memory collection of sessions. Individual
// sessions are single-threaded state machines; all mutation goes through
// WithSession so presses on the same session never interleave.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	// Counter for generating unique IDs
	counter int64
}

// New creates a new empty store.
func New() *Store {
	return &Store{
		sessions: make(map[string]*Session),
	}
}

// Create adds a new empty session and returns it.
func (s *Store) Create() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counter++
	now := time.Now()
	sess := &Session{
		ID:        fmt.Sprintf("s-%d", s.counter),
		CreatedAt: now,
		UpdatedAt: now,
		Calc:      session.New(),
		seq:       s.counter,
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Get retrieves a session by ID.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, types.NewNotFoundError(fmt.Sprintf("session '%s' not found", id))
	}
	return sess, nil
}

// List returns all sessions in creation order.
func (s *Store) List() []*Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		result = append(result, sess)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].seq < result[j].seq
	})
	return result
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return types.NewNotFoundError(fmt.Sprintf("session '%s' not found", id))
	}
	delete(s.sessions, id)
	return nil
}

// WithSession runs fn on the session while holding the store lock, then
// stamps the session's update time. The error from fn is returned as-is.
func (s *Store) WithSession(id string, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return types.NewNotFoundError(fmt.Sprintf("session '%s' not found", id))
	}

	err := fn(sess)
	sess.UpdatedAt = time.Now()
	return err
}
