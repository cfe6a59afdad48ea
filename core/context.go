package core

import "time"

// ConversationContext is the per-conversation state accumulated across
// otherwise stateless turns, addressed by an opaque conversation key.
//
// Contract:
//   - Messages is append-only; entries are never rewritten or removed
//   - GoalAchieved is monotonic: once true it never reverts to false
//   - Version is the optimistic concurrency stamp used by stores to reject
//     lost updates; it is bumped by the store on every successful upsert
//
// A context is owned by exactly one in-flight turn at a time (the engine
// serializes turns per key), so the struct itself carries no lock. Stores
// hand out clones to keep their internal copy isolated.
type ConversationContext struct {
	Key          string    `json:"key"`
	CardID       string    `json:"card_id"`
	Messages     []Message `json:"messages"`
	GoalAchieved bool      `json:"goal_achieved"`
	TurnCount    int       `json:"turn_count"`
	Version      uint64    `json:"version"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
}

// NewConversationContext creates the first-turn context for a key bound to a card.
func NewConversationContext(key, cardID string) *ConversationContext {
	now := time.Now()
	return &ConversationContext{Key: key, CardID: cardID, Created: now, Updated: now}
}

// RecordTurn appends one completed exchange to the history, folds the goal
// determination in (true wins, a previously achieved goal stays achieved)
// and increments the turn counter.
func (c *ConversationContext) RecordTurn(userText, assistantText string, goalAchieved bool) {
	c.Messages = append(c.Messages, NewUserMessage(userText), NewAssistantMessage(assistantText))
	c.GoalAchieved = c.GoalAchieved || goalAchieved
	c.TurnCount++
	c.Updated = time.Now()
}

// Clone returns a deep copy safe for independent mutation.
func (c *ConversationContext) Clone() *ConversationContext {
	clone := *c
	clone.Messages = make([]Message, len(c.Messages))
	copy(clone.Messages, c.Messages)
	return &clone
}
