// Package session keeps per-client session memory keyed by an opaque cookie id.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
)

// DefaultTTL is the inactivity horizon after which a session is forgotten.
const DefaultTTL = 24 * time.Hour

// Store maps session ids to their turn lists.
type Store interface {
	// Get returns the turns of id and whether the session exists.
	Get(id string) ([]domain.Turn, bool)
	// Put replaces the turns of id, creating the session if needed.
	Put(id string, turns []domain.Turn)
	Delete(id string)
}

type entry struct {
	turns    []domain.Turn
	lastSeen time.Time
}

// MemoryStore is an in-process Store with inactivity expiry.
//
// The mutex only protects the map. A Get/modify/Put sequence is not atomic,
// so concurrent requests on one session are last-writer-wins.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store; ttl <= 0 uses DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (s *MemoryStore) Get(id string) ([]domain.Turn, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if s.expired(e, now) {
		delete(s.entries, id)
		return nil, false
	}
	e.lastSeen = now
	return append([]domain.Turn{}, e.turns...), true
}

func (s *MemoryStore) Put(id string, turns []domain.Turn) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[id] = &entry{
		turns:    append([]domain.Turn{}, turns...),
		lastSeen: s.now(),
	}
}

func (s *MemoryStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, id)
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep removes expired sessions and returns how many were evicted.
func (s *MemoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	evicted := 0
	for id, e := range s.entries {
		if s.expired(e, now) {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, logger zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				logger.Debug().Int("evicted", n).Msg("expired sessions swept")
			}
		}
	}
}

func (s *MemoryStore) expired(e *entry, now time.Time) bool {
	return now.Sub(e.lastSeen) > s.ttl
}
