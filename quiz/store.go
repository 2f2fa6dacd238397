package quiz

import (
	"context"
	"sync"
	stdlibtime "time"

	"github.com/pkg/errors"
)

// MaxSessionsPerUser bounds the live sessions one user can hold.
const MaxSessionsPerUser = 5

var ErrSessionNotFound = errors.New("session not found")

// Store keeps quiz sessions in memory. Sessions idle longer than the TTL are
// dropped by Sweep.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      stdlibtime.Duration
	perUser  int
	now      func() stdlibtime.Time
}

func NewStore(ttl stdlibtime.Duration) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		perUser:  MaxSessionsPerUser,
		now:      stdlibtime.Now,
	}
}

// Create starts a session and runs fn on it under the store lock. When the
// user is at the session limit, their least recently used session is dropped.
func (s *Store) Create(userID int, ds *Dataset, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictOldest(userID)
	session := NewSession(userID, ds, s.now())
	s.sessions[session.ID] = session

	return fn(session)
}

// Do runs fn on the caller's session under the store lock. Sessions owned by
// another user are reported as not found.
func (s *Store) Do(id string, userID int, fn func(*Session) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, ok := s.sessions[id]
	if !ok || session.UserID != userID {
		return errors.Wrap(ErrSessionNotFound, id)
	}
	err := fn(session)
	session.UpdatedAt = s.now()

	return err
}

func (s *Store) evictOldest(userID int) {
	for {
		var (
			oldest *Session
			count  int
		)
		for _, session := range s.sessions {
			if session.UserID != userID {
				continue
			}
			count++
			if oldest == nil || session.UpdatedAt.Before(oldest.UpdatedAt) {
				oldest = session
			}
		}
		if count < s.perUser {
			return
		}
		delete(s.sessions, oldest.ID)
	}
}

func (s *Store) Delete(id string, userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session, ok := s.sessions[id]; ok && session.UserID == userID {
		delete(s.sessions, id)
	}
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

// Sweep removes idle sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	deadline := s.now().Add(-s.ttl)
	removed := 0
	for id, session := range s.sessions {
		if session.UpdatedAt.Before(deadline) {
			delete(s.sessions, id)
			removed++
		}
	}

	return removed
}

// Run sweeps periodically until ctx is done.
func (s *Store) Run(ctx context.Context, interval stdlibtime.Duration) {
	ticker := stdlibtime.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}
