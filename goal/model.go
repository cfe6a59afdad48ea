package goal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/talecard/talecard/core"
	"github.com/talecard/talecard/logging"
	"github.com/talecard/talecard/provider"
)

const judgeSystemPrompt = `You are a strict judge of conversation objectives.
Given a transcript and an objective, answer with a single word: YES if the
objective has clearly been satisfied by the conversation so far, NO otherwise.`

// ModelAssistedOptions configure the model-assisted strategy.
type ModelAssistedOptions struct {
	// Timeout bounds the secondary judgment call. It should be well below
	// the engine's per-turn timeout since this call happens after generation.
	Timeout time.Duration
	// Logger records soft failures. Defaults to NoOp.
	Logger logging.Logger
}

// ModelAssisted asks a provider to judge, yes or no, whether the goal was
// met given the transcript. Any failure of the secondary call degrades to
// "not achieved" and is logged as a soft failure; it never propagates.
type ModelAssisted struct {
	completer provider.Completer
	timeout   time.Duration
	logger    logging.Logger
}

// NewModelAssisted constructs the model-assisted evaluator on top of any
// Completer — typically the same registry the engine generates with, so the
// judgment call inherits the fallback ordering.
func NewModelAssisted(completer provider.Completer, optFns ...func(o *ModelAssistedOptions)) *ModelAssisted {
	opts := ModelAssistedOptions{
		Timeout: 15 * time.Second,
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &ModelAssisted{completer: completer, timeout: opts.Timeout, logger: opts.Logger}
}

// Evaluate implements Evaluator.
func (e *ModelAssisted) Evaluate(ctx context.Context, cardGoal string, history []core.Message) (bool, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	res, err := e.completer.Complete(callCtx, provider.Request{
		System:      judgeSystemPrompt,
		UserMessage: judgePrompt(cardGoal, history),
	})
	if err != nil {
		e.logger.Warn("goal judgment call failed, defaulting to not achieved", "error", err)
		return false, nil
	}
	answer := strings.ToUpper(strings.TrimSpace(res.Text))
	return strings.HasPrefix(answer, "YES"), nil
}

// judgePrompt renders the transcript and objective into the judgment request.
func judgePrompt(cardGoal string, history []core.Message) string {
	var sb strings.Builder
	sb.WriteString("Transcript:\n")
	for _, m := range history {
		fmt.Fprintf(&sb, "%s: %s\n", m.Role, m.Text)
	}
	fmt.Fprintf(&sb, "\nObjective: %s\n\nHas the objective been satisfied? Answer YES or NO.", cardGoal)
	return sb.String()
}
