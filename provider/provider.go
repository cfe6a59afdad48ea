package provider

import (
	"context"

	"github.com/talecard/talecard/core"
)

// Request captures the normalized generation input: the card persona as the
// system instruction, the stored conversation history and the new user
// message. Adapters convert it into their vendor's wire format.
type Request struct {
	System      string         `json:"system"`
	History     []core.Message `json:"history"`
	UserMessage string         `json:"user_message"`
}

// Result is a successful completion normalized to plain text. ProviderID
// names the backend that produced it so callers can surface it.
type Result struct {
	Text       string `json:"text"`
	ProviderID string `json:"provider_id"`
}

// Info contains metadata about an adapter implementation.
type Info struct {
	ID    string `json:"id"`    // "openai", "anthropic", "gemini", "mock"
	Model string `json:"model"` // vendor model identifier
}

// Completer is the minimal generation contract: one prompt in, one text
// completion out. Both single adapters and the fallback Registry satisfy it,
// which is what lets the engine treat "one backend" and "ranked backends"
// identically.
type Completer interface {
	Complete(ctx context.Context, req Request) (*Result, error)
}

// Adapter is a Completer bound to one concrete backend. Implementations
// enforce the caller's context deadline, perform their own bounded retry for
// transient failures and never return blank text (empty output is a
// classified EmptyResponse failure instead).
type Adapter interface {
	Completer

	// Info returns information about the adapter implementation.
	Info() Info
}
