package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/talecard/talecard/logging"
)

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	// AdapterTimeout bounds each individual adapter call. It must sit below
	// the engine's per-turn timeout so the registry can try more than one
	// backend within a turn.
	AdapterTimeout time.Duration
	// Logger records failover decisions. Defaults to NoOp.
	Logger logging.Logger
}

// Registry composes adapters ranked by preference into a single Completer.
// It is stateless across calls apart from the static priority list, so one
// instance is freely shared by concurrent turns.
//
// Failover policy:
//   - retryable-class failure from adapter i (timeout, rate limit, 5xx,
//     empty response) → immediately try adapter i+1
//   - structural failure (invalid request, unauthorized, content rejected)
//     → propagate at once, no fallthrough: the next backend would reject the
//     same input for the same reason
//   - every adapter failed retryably → ErrAllProvidersExhausted wrapping the
//     last failure
type Registry struct {
	adapters       []Adapter
	adapterTimeout time.Duration
	logger         logging.Logger
}

// NewRegistry builds a Registry trying adapters in the given priority order.
func NewRegistry(adapters []Adapter, optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		AdapterTimeout: 30 * time.Second,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Registry{
		adapters:       adapters,
		adapterTimeout: opts.AdapterTimeout,
		logger:         opts.Logger,
	}
}

// Adapters returns the priority-ordered adapter list.
func (r *Registry) Adapters() []Adapter { return r.adapters }

// Complete implements Completer with priority-ordered fallback.
func (r *Registry) Complete(ctx context.Context, req Request) (*Result, error) {
	if len(r.adapters) == 0 {
		return nil, fmt.Errorf("registry has no adapters configured")
	}

	var lastErr error
	for _, adapter := range r.adapters {
		callCtx, cancel := context.WithTimeout(ctx, r.adapterTimeout)
		res, err := adapter.Complete(callCtx, req)
		cancel()

		if err == nil {
			return res, nil
		}
		// The caller's own deadline or cancellation ends the whole attempt;
		// falling over to another backend cannot help.
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !Retryable(err) {
			return nil, err
		}

		lastErr = err
		r.logger.Warn("provider failed, trying next",
			"provider", adapter.Info().ID,
			"kind", KindOf(err).String(),
			"error", err,
		)
	}
	return nil, fmt.Errorf("%w: last failure: %v", ErrAllProvidersExhausted, lastErr)
}
