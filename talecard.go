// Package talecard provides a high-level façade over the turn engine and its
// service abstractions (providers, conversation store, card store, goal
// evaluation and logging). Most applications interact with this package by:
//  1. Creating a TaleCard via New() from a config (or with explicit overrides)
//  2. Playing turns directly (PlayTurn) or serving them over HTTP (Handler)
//
// The façade delegates orchestration to engine.Engine while keeping setup
// ergonomics concise. All defaults are safe for local development and
// testing; production deployments typically supply a durable conversation
// store, the real card store client and a structured logger.
package talecard

import (
	"context"
	"net/http"
	"time"

	"github.com/talecard/talecard/card"
	"github.com/talecard/talecard/config"
	"github.com/talecard/talecard/conversation"
	"github.com/talecard/talecard/core"
	"github.com/talecard/talecard/engine"
	"github.com/talecard/talecard/goal"
	"github.com/talecard/talecard/logging"
	"github.com/talecard/talecard/provider"
	"github.com/talecard/talecard/server"
)

// Options configure the TaleCard instance.
type Options struct {
	// Config drives provider ranking, timeouts and evaluator strategy.
	// Defaults to config.Default().
	Config *config.Config

	// Completer overrides the registry built from Config. Mainly for tests
	// and embedders that construct their own adapters.
	Completer provider.Completer

	// Store holds conversation contexts (defaults to in-memory).
	Store conversation.Store

	// Cards resolves card descriptors by id (defaults to an empty in-memory
	// store; production wires the external card service client here).
	Cards card.Store

	// Evaluator overrides the strategy Config would build.
	Evaluator goal.Evaluator

	// Logger (defaults to the logger Config builds).
	Logger logging.Logger
}

// TaleCard is the high-level façade aggregating the engine and its services.
type TaleCard struct {
	engine *engine.Engine
	server *server.Server
	logger logging.Logger
}

// New creates a TaleCard instance with optional overrides. Any unset service
// is initialized from the configuration or with an in-memory implementation.
func New(optFns ...func(o *Options)) (*TaleCard, error) {
	opts := Options{
		Config: config.Default(),
		Store:  conversation.NewInMemoryStore(),
		Cards:  card.NewInMemoryStore(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = opts.Config.BuildLogger()
	}

	completer := opts.Completer
	if completer == nil {
		registry, err := opts.Config.BuildRegistry(logger)
		if err != nil {
			return nil, err
		}
		completer = registry
	}

	evaluator := opts.Evaluator
	if evaluator == nil {
		var err error
		evaluator, err = opts.Config.BuildEvaluator(completer, logger)
		if err != nil {
			return nil, err
		}
	}

	turnTimeout, err := opts.Config.TurnTimeout()
	if err != nil {
		return nil, err
	}
	maxConcurrent := opts.Config.Turn.MaxConcurrent

	eng := engine.New(completer, func(o *engine.Options) {
		o.Store = opts.Store
		o.Cards = opts.Cards
		o.Evaluator = evaluator
		o.Logger = logger
		o.TurnTimeout = turnTimeout
		o.MaxConcurrentTurns = maxConcurrent
	})

	return &TaleCard{
		engine: eng,
		server: server.New(eng, func(o *server.Options) { o.Logger = logger }),
		logger: logger,
	}, nil
}

// PlayTurn runs one turn through the engine.
func (t *TaleCard) PlayTurn(ctx context.Context, req core.TurnRequest) (*core.TurnResult, error) {
	return t.engine.PlayTurn(ctx, req)
}

// Engine returns the underlying turn engine.
func (t *TaleCard) Engine() *engine.Engine { return t.engine }

// Handler returns the HTTP handler serving POST /play-turn.
func (t *TaleCard) Handler() http.Handler { return t.server.Handler() }

// ListenAndServe serves the HTTP surface on addr until the server fails.
func (t *TaleCard) ListenAndServe(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           t.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	t.logger.Info("listening", "addr", addr)
	return srv.ListenAndServe()
}
