package conversation

import (
	"context"
	"errors"

	"github.com/talecard/talecard/core"
)

// ErrVersionConflict is returned by Upsert when the stored context has moved
// past the version the caller read, meaning another turn won the race. The
// caller re-reads and retries; nothing was written.
var ErrVersionConflict = errors.New("conversation context version conflict")

// Store persists conversation contexts keyed by their opaque conversation key.
//
// Contract:
//   - Get on an absent key returns (nil, nil); absence is not an error
//   - Get returns a snapshot the caller may mutate freely
//   - Upsert succeeds only when the caller's Version matches the stored one
//     (a fresh context with Version 0 matches an absent key); on success the
//     stored copy — and the caller's context — carry Version+1
//   - contexts are never destroyed by the core; eviction is external
type Store interface {
	Get(ctx context.Context, key string) (*core.ConversationContext, error)
	Upsert(ctx context.Context, cc *core.ConversationContext) error
}
