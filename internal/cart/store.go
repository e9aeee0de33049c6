package cart

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	cart     *Cart
	lastSeen time.Time
}

// Store keeps one cart per session, evicting carts that have been idle for
// longer than the TTL. The store itself is shared across sessions and locked;
// individual carts are not, since each belongs to a single session.
type Store struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the session's cart, creating an empty one on first use.
func (s *Store) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[sessionID]
	if !ok {
		e = &entry{cart: New()}
		s.entries[sessionID] = e
	}
	e.lastSeen = s.now()
	return e.cart
}

// Delete drops the session's cart entirely.
func (s *Store) Delete(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, sessionID)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// StartJanitor sweeps expired carts until ctx is cancelled.
func (s *Store) StartJanitor(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.purgeExpired()
			}
		}
	}()
}

func (s *Store) purgeExpired() {
	cutoff := s.now().Add(-s.ttl)
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, e := range s.entries {
		if e.lastSeen.Before(cutoff) {
			delete(s.entries, id)
		}
	}
}
