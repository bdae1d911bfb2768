// Package session keeps one card and one exporter per page session.
//
// Sessions live in memory only. A janitor drops sessions that have been idle
// longer than the configured timeout, unless an export is still running.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/youruser/eidqr/internal/card"
	apperr "github.com/youruser/eidqr/internal/errors"
	"github.com/youruser/eidqr/internal/export"
	"github.com/youruser/eidqr/internal/logger"
)

// Session is the state of one page instance.
type Session struct {
	ID       string
	Card     *card.State
	Exporter *export.Exporter

	mu       sync.Mutex
	lastSeen time.Time
}

func (s *Session) touch(t time.Time) {
	s.mu.Lock()
	s.lastSeen = t
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Factory builds the card and exporter for a new session.
type Factory func() (*card.State, *export.Exporter)

// Store holds sessions by id.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	idle     time.Duration
	factory  Factory
	now      func() time.Time
}

// NewStore returns a Store whose sessions expire after idle.
func NewStore(idle time.Duration, factory Factory) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		idle:     idle,
		factory:  factory,
		now:      time.Now,
	}
}

// Create starts a new session with a random id.
func (s *Store) Create() *Session {
	c, e := s.factory()
	sess := &Session{ID: uuid.NewString(), Card: c, Exporter: e, lastSeen: s.now()}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

// Get returns the session with id and marks it as used.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.Lock()
	sess, ok := s.sessions[id]
	s.mu.Unlock()
	if !ok {
		return nil, apperr.New(apperr.ErrCodeSessionNotFound, "session %q not found", id)
	}
	sess.touch(s.now())
	return sess, nil
}

// GetOrCreate returns the session with id, or a new one if id is unknown.
// The boolean reports whether a session was created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, err := s.Get(id); err == nil {
			return sess, false
		}
	}
	return s.Create(), true
}

// Delete ends the session with id.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.idle)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.Exporter != nil && sess.Exporter.InProgress() {
			continue
		}
		if sess.idleSince().Before(cutoff) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	log := logger.FromContext(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				log.Debug("expired sessions", "count", n, "live", s.Len())
			}
		}
	}
}
