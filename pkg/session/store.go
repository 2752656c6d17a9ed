package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrSessionNotFound is returned when updating an unknown session
	ErrSessionNotFound = errors.New("session not found")
	// ErrCookieNameRequired is returned when no session cookie name is configured
	ErrCookieNameRequired = errors.New("session cookie name is required")
	// ErrInvalidMaxSessions is returned when the session cap is not positive
	ErrInvalidMaxSessions = errors.New("maxSessions must be positive")
)

// Config configures session handling
type Config struct {
	CookieName  string `yaml:"cookieName" default:"injuryboard_session"`
	MaxSessions int    `yaml:"maxSessions" default:"1000"`
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if c.CookieName == "" {
		return ErrCookieNameRequired
	}

	if c.MaxSessions <= 0 {
		return ErrInvalidMaxSessions
	}

	return nil
}

type entry struct {
	selection Selection
	lastSeen  time.Time
}

// Store keeps selections in memory. When full, the least recently seen session
// is dropped to make room for a new one.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*entry
	max      int
	now      func() time.Time
}

// NewStore creates an empty store
func NewStore(cfg *Config) *Store {
	return &Store{
		sessions: make(map[string]*entry),
		max:      cfg.MaxSessions,
		now:      time.Now,
	}
}

// Resolve returns the session id and its selection. An empty or unknown id
// starts a new session with the default selection.
func (s *Store) Resolve(id string) (string, Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[id]; ok && id != "" {
		e.lastSeen = s.now()
		return id, e.selection
	}

	if s.max > 0 && len(s.sessions) >= s.max {
		s.evictOldest()
	}

	id = uuid.NewString()
	s.sessions[id] = &entry{selection: DefaultSelection(), lastSeen: s.now()}

	return id, DefaultSelection()
}

// get returns the selection of id
func (s *Store) get(id string) (Selection, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return Selection{}, false
	}

	return e.selection, true
}

// Update applies fn to a copy of the selection of id and stores it when fn
// succeeds
func (s *Store) Update(id string, fn func(*Selection) error) (Selection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[id]
	if !ok {
		return Selection{}, ErrSessionNotFound
	}

	next := e.selection
	if err := fn(&next); err != nil {
		return e.selection, err
	}

	e.selection = next
	e.lastSeen = s.now()

	return next, nil
}

// size returns the number of live sessions
func (s *Store) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *Store) evictOldest() {
	var (
		oldestID string
		oldest   time.Time
	)

	for id, e := range s.sessions {
		if oldestID == "" || e.lastSeen.Before(oldest) {
			oldestID = id
			oldest = e.lastSeen
		}
	}

	delete(s.sessions, oldestID)
}
