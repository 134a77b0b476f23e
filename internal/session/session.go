// Package session keeps the page instances of each browser session. A session is identified by
// a random UUID carried in a cookie and expires after an idle TTL.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Skufu/harmonycare/internal/pages"
)

// CookieName is the cookie carrying the session id.
const CookieName = "harmonycare_session"

// DefaultTTL is the idle lifetime of a session.
const DefaultTTL = 30 * time.Minute

// DefaultMaxSessions bounds the live sessions of a store.
const DefaultMaxSessions = 10000

// Session owns one instance per page key. Sessions never share instances.
type Session struct {
	id string

	mu        sync.Mutex
	lastSeen  time.Time
	instances map[string]*pages.Instance
}

func (s *Session) ID() string {
	return s.id
}

// Instance returns the instance stored under key, creating it from def on first use. The key
// separates two instances of the same page, such as the clinical and image tabs.
func (s *Session) Instance(key string, def *pages.Definition) *pages.Instance {
	s.mu.Lock()
	defer s.mu.Unlock()
	in, ok := s.instances[key]
	if !ok {
		in = pages.NewInstance(def)
		s.instances[key] = in
	}
	return in
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = now
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Store holds the live sessions. Expired sessions are swept on access.
type Store struct {
	ttl time.Duration
	max int
	now func() time.Time

	mu        sync.Mutex
	sessions  map[string]*Session
	lastSweep time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithMaxSessions caps the number of live sessions. When the store is full, creating a session
// evicts the one idle the longest.
func WithMaxSessions(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(ttl time.Duration, opts ...Option) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{ttl: ttl, max: DefaultMaxSessions, now: time.Now, sessions: map[string]*Session{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the live session for id, or a new one when id is unknown, malformed or
// expired. The second result reports whether a new session was created.
func (s *Store) Resolve(id string) (*Session, bool) {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)

	if sess, ok := s.sessions[id]; ok {
		if now.Sub(sess.idleSince()) < s.ttl {
			sess.touch(now)
			return sess, false
		}
		delete(s.sessions, id)
	}

	if len(s.sessions) >= s.max {
		s.evictLocked(now)
	}
	sess := &Session{id: uuid.NewString(), lastSeen: now, instances: map[string]*pages.Instance{}}
	s.sessions[sess.id] = sess
	return sess, true
}

// Len returns the number of stored sessions, expired or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// sweepLocked drops expired sessions, at most once per TTL/2.
func (s *Store) sweepLocked(now time.Time) {
	if now.Sub(s.lastSweep) < s.ttl/2 {
		return
	}
	s.dropExpiredLocked(now)
}

// evictLocked makes room for one session: expired sessions go first, then the one idle the
// longest.
func (s *Store) evictLocked(now time.Time) {
	s.dropExpiredLocked(now)
	if len(s.sessions) < s.max {
		return
	}
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if seen := sess.idleSince(); oldestID == "" || seen.Before(oldest) {
			oldestID, oldest = id, seen
		}
	}
	delete(s.sessions, oldestID)
}

func (s *Store) dropExpiredLocked(now time.Time) {
	s.lastSweep = now
	for id, sess := range s.sessions {
		if now.Sub(sess.idleSince()) >= s.ttl {
			delete(s.sessions, id)
		}
	}
}
