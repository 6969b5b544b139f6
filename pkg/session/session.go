// Package session tracks per-visitor drawing state for the HTTP server.
//
// Every browser visitor gets an opaque session ID (a random UUID carried in a
// cookie) that owns exactly one [sketch.Controller]. Sessions expire after a
// period of inactivity; expiry is checked lazily on lookup and swept by
// [Store.Cleanup], which [Store.Run] calls on a ticker.
//
// # Concurrency
//
// A Controller is single-owner and not safe for concurrent use. The browser
// fires hover events far faster than the server answers them, so two
// requests for the same session routinely overlap. [Session.Do] serializes
// them behind a per-session mutex, while the store itself is guarded by its
// own lock so lookups for different visitors never contend on a drawing.
//
// # Usage
//
//	store := session.NewStore(session.DefaultTTL, func() *sketch.Controller {
//	    return sketch.New(sketch.WithLogger(logger))
//	})
//	sess, created, err := store.GetOrCreate(ctx, cookieValue)
//	err = sess.Do(func(c *sketch.Controller) error {
//	    _, err := c.Fill(row, col)
//	    return err
//	})
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/etchgrid/pkg/sketch"
)

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 2 * time.Hour

// Session is one visitor's drawing.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu       sync.Mutex
	ctl      *sketch.Controller
	lastSeen time.Time
}

// Do runs fn with exclusive access to the session's controller.
func (s *Session) Do(fn func(*sketch.Controller) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ctl)
}

// Factory builds the controller for a new session.
type Factory func() *sketch.Controller

// Store is an in-memory session table.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	factory  Factory
	now      func() time.Time
}

// NewStore creates a store. A non-positive ttl means DefaultTTL and a nil
// factory builds controllers with sketch.New defaults.
func NewStore(ttl time.Duration, factory Factory) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if factory == nil {
		factory = func() *sketch.Controller { return sketch.New() }
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		factory:  factory,
		now:      time.Now,
	}
}

// TTL returns the idle timeout.
func (s *Store) TTL() time.Duration { return s.ttl }

// GenerateID returns a fresh random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// ValidID reports whether id could have been issued by GenerateID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// Get returns a live session and refreshes its idle timer. Expired sessions
// are removed and reported as missing.
func (s *Store) Get(ctx context.Context, id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = now
	return sess, true
}

// Create starts a new session with a fresh controller.
func (s *Store) Create(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	now := s.now()
	sess := &Session{
		ID:        GenerateID(),
		CreatedAt: now,
		ctl:       s.factory(),
		lastSeen:  now,
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess, nil
}

// GetOrCreate returns the session for id, or a new one when id is unknown,
// malformed or expired. created reports whether a new session was made.
func (s *Store) GetOrCreate(ctx context.Context, id string) (sess *Session, created bool, err error) {
	if id != "" && ValidID(id) {
		if sess, ok := s.Get(ctx, id); ok {
			return sess, false, nil
		}
	}
	sess, err = s.Create(ctx)
	return sess, err == nil, err
}

// Delete drops a session.
func (s *Store) Delete(ctx context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of tracked sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Cleanup removes expired sessions and returns how many were dropped.
func (s *Store) Cleanup(ctx context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run calls Cleanup every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Cleanup(ctx)
		}
	}
}

func (s *Store) expired(sess *Session, now time.Time) bool {
	return now.Sub(sess.lastSeen) > s.ttl
}
