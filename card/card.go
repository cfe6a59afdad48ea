package card

import (
	"context"
	"fmt"
	"sync"

	"github.com/talecard/talecard/core"
)

var (
	// ErrNotFound is returned when no card exists for the given id.
	ErrNotFound = fmt.Errorf("card not found")
)

// Store looks up card descriptors by id.
type Store interface {
	Get(ctx context.Context, id string) (*core.Card, error)
}

// InMemoryStore is a volatile Store for tests and examples.
type InMemoryStore struct {
	mu    sync.RWMutex
	cards map[string]core.Card
}

// NewInMemoryStore constructs an empty in-memory card store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{cards: make(map[string]core.Card)}
}

// Put stores or replaces a card.
func (s *InMemoryStore) Put(c core.Card) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cards[c.ID] = c
}

// Get implements Store.
func (s *InMemoryStore) Get(_ context.Context, id string) (*core.Card, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cards[id]
	if !ok {
		return nil, fmt.Errorf("card %q: %w", id, ErrNotFound)
	}
	return &c, nil
}
