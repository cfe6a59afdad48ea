package core

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyUserMessage is returned by TurnRequest.Validate when the user
	// message is empty after trimming whitespace.
	ErrEmptyUserMessage = errors.New("user message is empty")
	// ErrMissingConversationKey is returned when no conversation key was supplied.
	ErrMissingConversationKey = errors.New("conversation key is empty")
	// ErrMissingCardID is returned when the request carries no card id.
	ErrMissingCardID = errors.New("card id is empty")
)

// TurnRequest is the input of one turn: the conversation to continue, the
// card being played and the player's new message.
type TurnRequest struct {
	ConversationKey string `json:"conversation_key"`
	Card            Card   `json:"card"`
	UserMessage     string `json:"user_message"`
}

// Validate rejects structurally unusable requests before any provider call.
// The user message is checked trimmed but echoed back verbatim later.
func (r TurnRequest) Validate() error {
	if r.ConversationKey == "" {
		return ErrMissingConversationKey
	}
	if r.Card.ID == "" {
		return ErrMissingCardID
	}
	if strings.TrimSpace(r.UserMessage) == "" {
		return ErrEmptyUserMessage
	}
	return nil
}

// TurnResult is the full response contract of a turn. It always echoes the
// card fields and the user message alongside the generated fields so a
// stateless caller can render the exchange without a second lookup.
type TurnResult struct {
	CardID          string `json:"card_id"`
	CardDescription string `json:"card_description"`
	CardGoal        string `json:"card_goal"`
	UserMessage     string `json:"user_message"`
	AIResponse      string `json:"ai_response"`
	IsGoalAchieved  bool   `json:"is_goal_achieved"`
	ProviderID      string `json:"provider_id,omitempty"`
	TurnCount       int    `json:"turn_count,omitempty"`
}
