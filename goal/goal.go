package goal

import (
	"context"

	"github.com/talecard/talecard/core"
)

// Evaluator judges whether the declared goal has been met given the
// conversation history including the newest exchange. Implementations must
// be safe for concurrent use.
type Evaluator interface {
	Evaluate(ctx context.Context, cardGoal string, history []core.Message) (bool, error)
}
