package core

import "time"

// Role identifies the author of a message within a conversation.
type Role string

const (
	// RoleUser marks a message written by the human player.
	RoleUser Role = "user"
	// RoleAssistant marks a message generated by a model provider.
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation history.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// NewUserMessage builds a user message stamped with the current time.
func NewUserMessage(text string) Message {
	return Message{Role: RoleUser, Text: text, Timestamp: time.Now()}
}

// NewAssistantMessage builds an assistant message stamped with the current time.
func NewAssistantMessage(text string) Message {
	return Message{Role: RoleAssistant, Text: text, Timestamp: time.Now()}
}

// LastAssistantText returns the text of the most recent assistant message in
// history, or the empty string if no assistant has spoken yet.
func LastAssistantText(history []Message) string {
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == RoleAssistant {
			return history[i].Text
		}
	}
	return ""
}
