// Package sessions keeps browsing sessions in memory so that a client can
// page through one snapshot across several requests.
package sessions

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/aegis-aio/shellder/internal/browser"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

type entry struct {
	session   *browser.Session
	createdAt time.Time
	expiresAt time.Time
}

// Info describes a stored session.
type Info struct {
	ID        string    `json:"id"`
	Service   string    `json:"service"`
	Entries   int       `json:"entries"`
	Pages     int       `json:"pages"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store holds sessions until they are deleted or idle for longer than ttl.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	onChange func(n int)
	logger   *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// WithObserver registers a callback receiving the session count after
// every change.
func WithObserver(fn func(n int)) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates an empty store.
func NewStore(ttl time.Duration, opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*entry),
		ttl:      ttl,
		now:      time.Now,
		onChange: func(int) {},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores a session and returns its new ID.
func (s *Store) Put(session *browser.Session) Info {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := uuid.NewString()
	e := &entry{session: session, createdAt: now, expiresAt: now.Add(s.ttl)}
	s.sessions[id] = e
	s.onChange(len(s.sessions))

	return info(id, e)
}

// Get returns a live session and extends its expiry.
func (s *Store) Get(id string) (*browser.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	now := s.now()
	if now.After(e.expiresAt) {
		delete(s.sessions, id)
		s.onChange(len(s.sessions))
		return nil, ErrSessionNotFound
	}
	e.expiresAt = now.Add(s.ttl)
	return e.session, nil
}

// Delete removes a session.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	s.onChange(len(s.sessions))
	return nil
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, e := range s.sessions {
		if now.After(e.expiresAt) {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		s.onChange(len(s.sessions))
	}
	return removed
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
			}
		}
	}
}

func info(id string, e *entry) Info {
	return Info{
		ID:        id,
		Service:   e.session.Snapshot().Service,
		Entries:   e.session.Len(),
		Pages:     e.session.Pages(),
		CreatedAt: e.createdAt,
		ExpiresAt: e.expiresAt,
	}
}
