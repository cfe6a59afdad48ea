package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/talecard/talecard/card"
	"github.com/talecard/talecard/conversation"
	"github.com/talecard/talecard/core"
	"github.com/talecard/talecard/goal"
	"github.com/talecard/talecard/logging"
	"github.com/talecard/talecard/provider"
)

var (
	// ErrInvalidInput marks a request rejected before any provider call:
	// empty message, missing key or missing card id.
	ErrInvalidInput = errors.New("invalid turn request")
	// ErrCardMismatch means the conversation key is already bound to a
	// different card. A caller bug, never resolved silently.
	ErrCardMismatch = errors.New("conversation is bound to a different card")
	// ErrCardNotFound means the referenced card does not exist in the
	// external card store.
	ErrCardNotFound = errors.New("card not found")
	// ErrTurnTimeout means the per-turn deadline expired. The context was
	// not mutated, so the same request is safe to resend.
	ErrTurnTimeout = errors.New("turn deadline exceeded")
)

// Options configure an Engine.
type Options struct {
	// Store holds conversation contexts. Defaults to in-memory.
	Store conversation.Store
	// Cards resolves card descriptors when a request carries only an id.
	// Optional: requests with complete cards never consult it.
	Cards card.Store
	// Evaluator decides goal achievement. Defaults to the keyword heuristic.
	Evaluator goal.Evaluator
	// Logger records turn outcomes and soft failures. Defaults to NoOp.
	Logger logging.Logger
	// TurnTimeout bounds one whole turn including generation and
	// evaluation. Must exceed the registry's per-adapter timeout or the
	// registry will never get to a second backend.
	TurnTimeout time.Duration
	// MaxConcurrentTurns bounds turns actively running across all keys.
	// Turns waiting on a conversation's serial order do not count against
	// it. Zero means unlimited.
	MaxConcurrentTurns int64
}

// Engine is the control-flow heart of the module: it owns the per-turn state
// machine and is the only reader and writer of the conversation store. Safe
// for concurrent use.
type Engine struct {
	completer   provider.Completer
	store       conversation.Store
	cards       card.Store
	evaluator   goal.Evaluator
	logger      logging.Logger
	turnTimeout time.Duration
	sem         *semaphore.Weighted
	keys        *keyedMutex
}

// New constructs an Engine generating through completer (a single adapter or
// a fallback registry) with optional overrides.
func New(completer provider.Completer, optFns ...func(o *Options)) *Engine {
	opts := Options{
		Store:              conversation.NewInMemoryStore(),
		Evaluator:          goal.NewHeuristic(),
		Logger:             logging.NoOpLogger{},
		TurnTimeout:        90 * time.Second,
		MaxConcurrentTurns: 64,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var sem *semaphore.Weighted
	if opts.MaxConcurrentTurns > 0 {
		sem = semaphore.NewWeighted(opts.MaxConcurrentTurns)
	}

	return &Engine{
		completer:   completer,
		store:       opts.Store,
		cards:       opts.Cards,
		evaluator:   opts.Evaluator,
		logger:      opts.Logger,
		turnTimeout: opts.TurnTimeout,
		sem:         sem,
		keys:        newKeyedMutex(),
	}
}

// PlayTurn runs one complete turn and returns the structured result. On any
// failure the stored context is left exactly as it was before the attempt.
func (e *Engine) PlayTurn(ctx context.Context, req core.TurnRequest) (*core.TurnResult, error) {
	start := time.Now()
	turnID := uuid.NewString()

	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	playCard, err := e.resolveCard(ctx, req.Card)
	if err != nil {
		return nil, err
	}

	// Key lock first, semaphore second: turns queued behind a hot key wait
	// without holding a global slot, so other keys keep getting admitted.
	e.keys.Lock(req.ConversationKey)
	defer e.keys.Unlock(req.ConversationKey)

	if e.sem != nil {
		if err := e.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
		defer e.sem.Release(1)
	}

	ctx, cancel := context.WithTimeout(ctx, e.turnTimeout)
	defer cancel()

	result, err := e.playLocked(ctx, turnID, req, playCard)

	turnCount := 0
	achieved := false
	if result != nil {
		turnCount = result.TurnCount
		achieved = result.IsGoalAchieved
	}
	if tl, ok := e.logger.(*logging.TurnLogger); ok {
		tl.WithConversation(req.ConversationKey, turnID).LogTurn(turnCount, achieved, time.Since(start), err)
	} else if err != nil {
		e.logger.Error("turn failed", "conversation_key", req.ConversationKey, "turn_id", turnID, "error", err)
	}
	return result, err
}

// playLocked runs the loading → generating → evaluating → persisting states.
// The caller holds the per-key lock and has bounded ctx by the turn timeout.
func (e *Engine) playLocked(ctx context.Context, turnID string, req core.TurnRequest, playCard core.Card) (*core.TurnResult, error) {
	// Loading.
	cc, err := e.store.Get(ctx, req.ConversationKey)
	if err != nil {
		return nil, fmt.Errorf("load conversation %q: %w", req.ConversationKey, err)
	}
	if cc == nil {
		cc = core.NewConversationContext(req.ConversationKey, playCard.ID)
	} else if cc.CardID != playCard.ID {
		return nil, fmt.Errorf("%w: context has %q, request has %q", ErrCardMismatch, cc.CardID, playCard.ID)
	}

	// Generating.
	genStart := time.Now()
	res, err := e.completer.Complete(ctx, provider.Request{
		System:      playCard.Description,
		History:     cc.Messages,
		UserMessage: req.UserMessage,
	})
	if err != nil {
		return nil, e.mapGenerationErr(ctx, err)
	}
	e.logger.Debug("reply generated",
		"turn_id", turnID,
		"provider", res.ProviderID,
		"duration", time.Since(genStart),
	)

	// Evaluating. An already achieved goal short-circuits: it can never
	// revert and skipping saves the judgment call.
	achieved := cc.GoalAchieved
	if !achieved {
		transcript := append(append([]core.Message{}, cc.Messages...),
			core.NewUserMessage(req.UserMessage),
			core.NewAssistantMessage(res.Text),
		)
		ok, evalErr := e.evaluator.Evaluate(ctx, playCard.Goal, transcript)
		if evalErr != nil {
			// Evaluator failures never fail the turn; not achieved is the
			// safe default.
			e.logger.Warn("goal evaluation failed, defaulting to not achieved",
				"turn_id", turnID, "error", evalErr)
			ok = false
		}
		achieved = ok
	}

	// A cancellation or expired deadline observed here means the caller is
	// gone; the generated reply must not be persisted.
	if err := ctx.Err(); err != nil {
		return nil, e.mapGenerationErr(ctx, err)
	}

	// Persisting.
	cc.RecordTurn(req.UserMessage, res.Text, achieved)
	if err := e.store.Upsert(ctx, cc); err != nil {
		return nil, fmt.Errorf("persist conversation %q: %w", req.ConversationKey, err)
	}

	return &core.TurnResult{
		CardID:          playCard.ID,
		CardDescription: playCard.Description,
		CardGoal:        playCard.Goal,
		UserMessage:     req.UserMessage,
		AIResponse:      res.Text,
		IsGoalAchieved:  cc.GoalAchieved,
		ProviderID:      res.ProviderID,
		TurnCount:       cc.TurnCount,
	}, nil
}

// resolveCard completes a partial card through the card store. A complete
// card on the request is trusted as-is: the card store already vetted it.
func (e *Engine) resolveCard(ctx context.Context, c core.Card) (core.Card, error) {
	if c.Complete() || e.cards == nil {
		return c, nil
	}
	stored, err := e.cards.Get(ctx, c.ID)
	if err != nil {
		if errors.Is(err, card.ErrNotFound) {
			return core.Card{}, fmt.Errorf("%w: %q", ErrCardNotFound, c.ID)
		}
		return core.Card{}, fmt.Errorf("resolve card %q: %w", c.ID, err)
	}
	return *stored, nil
}

// mapGenerationErr folds deadline expiry into ErrTurnTimeout and passes
// provider failures through unmodified — a hard failure is never downgraded
// into a fabricated success.
func (e *Engine) mapGenerationErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || provider.KindOf(err) == provider.KindTimeout {
		return fmt.Errorf("%w: %v", ErrTurnTimeout, err)
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("generate reply: %w", err)
}
