// Package session holds per-conversation prompt history.
//
// The prompt path accumulates turns across requests. That history is kept
// in an explicit store keyed by session ID with a defined lifecycle, so
// concurrent conversations never share a buffer.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/merlinhq/merlin/pkg/metrics"
)

// Turn roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Default store configuration constants.
const (
	defaultTTL      = 30 * time.Minute
	defaultMaxTurns = 200
)

// Turn is one message in a conversation.
type Turn struct {
	Role    string
	Content string
}

// Session is one conversation: a system prompt followed by alternating
// user and assistant turns.
type Session struct {
	id string

	mu       sync.Mutex
	turns    []Turn
	maxTurns int
	lastUsed time.Time
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Append records a turn on the session. When the turn cap is reached, the
// oldest non-system turns are dropped first.
func (s *Session) Append(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.turns = append(s.turns, Turn{Role: role, Content: content})
	if s.maxTurns > 0 && len(s.turns) > s.maxTurns {
		// Keep the system turn at index 0.
		excess := len(s.turns) - s.maxTurns
		s.turns = append(s.turns[:1], s.turns[1+excess:]...)
	}
	s.lastUsed = time.Now()
}

// Turns returns a copy of the conversation so far.
func (s *Session) Turns() []Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = time.Now()
	out := make([]Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *Session) expired(ttl time.Duration, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed) > ttl
}

// Store keeps live sessions in memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	maxTurns int
}

// NewStore creates a session store with configuration options.
func NewStore(opts ...Option) *Store {
	st := &Store{
		sessions: make(map[string]*Session),
		ttl:      defaultTTL,
		maxTurns: defaultMaxTurns,
	}

	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Create starts a new session seeded with the given system prompt and
// returns it.
func (st *Store) Create(ctx context.Context, systemPrompt string) *Session {
	s := &Session{
		id:       uuid.NewString(),
		turns:    []Turn{{Role: RoleSystem, Content: systemPrompt}},
		maxTurns: st.maxTurns,
		lastUsed: time.Now(),
	}

	st.mu.Lock()
	st.sessions[s.id] = s
	size := len(st.sessions)
	st.mu.Unlock()

	metrics.UpdateActiveSessions(size)
	return s
}

// Get returns the session with the given ID, if it is still live.
func (st *Store) Get(ctx context.Context, id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete removes a session from the store.
func (st *Store) Delete(ctx context.Context, id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	size := len(st.sessions)
	st.mu.Unlock()

	metrics.UpdateActiveSessions(size)
}

// Len returns the number of live sessions.
func (st *Store) Len(ctx context.Context) int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep evicts sessions idle longer than the store TTL and returns how
// many were removed.
func (st *Store) Sweep(ctx context.Context) int {
	now := time.Now()

	st.mu.Lock()
	removed := 0
	for id, s := range st.sessions {
		if s.expired(st.ttl, now) {
			delete(st.sessions, id)
			removed++
		}
	}
	size := len(st.sessions)
	st.mu.Unlock()

	metrics.UpdateActiveSessions(size)
	return removed
}

// StartSweeper runs Sweep on the given interval until ctx is canceled.
func (st *Store) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.Sweep(ctx)
			}
		}
	}()
}
