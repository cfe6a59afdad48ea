package conversation

import (
	"context"
	"sync"
	"time"

	"github.com/talecard/talecard/core"
)

// InMemoryStore is a volatile Store implementation keeping contexts in a
// process-local map. It is safe for concurrent access and suited to tests
// and single-process deployments. Every context crossing the boundary is
// cloned so callers and the store never share mutable state.
type InMemoryStore struct {
	mu       sync.RWMutex
	contexts map[string]*core.ConversationContext
}

// NewInMemoryStore constructs an empty in-memory context store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{contexts: make(map[string]*core.ConversationContext)}
}

// Get returns a snapshot of the context for key, or (nil, nil) when absent.
func (s *InMemoryStore) Get(_ context.Context, key string) (*core.ConversationContext, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cc, ok := s.contexts[key]
	if !ok {
		return nil, nil
	}
	return cc.Clone(), nil
}

// Upsert stores a clone of cc if its Version still matches the stored one.
// On success both the stored copy and cc carry the incremented version, so
// the caller can keep writing against its in-hand snapshot.
func (s *InMemoryStore) Upsert(_ context.Context, cc *core.ConversationContext) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cur, ok := s.contexts[cc.Key]; ok {
		if cur.Version != cc.Version {
			return ErrVersionConflict
		}
	} else if cc.Version != 0 {
		return ErrVersionConflict
	}

	stored := cc.Clone()
	stored.Version++
	stored.Updated = time.Now()
	s.contexts[cc.Key] = stored

	cc.Version = stored.Version
	cc.Updated = stored.Updated
	return nil
}

// Len reports the number of stored contexts.
func (s *InMemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.contexts)
}
