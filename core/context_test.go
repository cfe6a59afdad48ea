package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationContext_RecordTurn(t *testing.T) {
	cc := NewConversationContext("key-1", "card-1")

	cc.RecordTurn("hello", "hi there", false)

	require.Len(t, cc.Messages, 2)
	assert.Equal(t, RoleUser, cc.Messages[0].Role)
	assert.Equal(t, "hello", cc.Messages[0].Text)
	assert.Equal(t, RoleAssistant, cc.Messages[1].Role)
	assert.Equal(t, "hi there", cc.Messages[1].Text)
	assert.Equal(t, 1, cc.TurnCount)
	assert.False(t, cc.GoalAchieved)
}

func TestConversationContext_GoalMonotonic(t *testing.T) {
	cc := NewConversationContext("key-1", "card-1")

	cc.RecordTurn("a", "b", false)
	assert.False(t, cc.GoalAchieved)

	cc.RecordTurn("c", "d", true)
	assert.True(t, cc.GoalAchieved)

	// An unachieved determination never flips the flag back.
	cc.RecordTurn("e", "f", false)
	assert.True(t, cc.GoalAchieved)
	assert.Equal(t, 3, cc.TurnCount)
	assert.Len(t, cc.Messages, 6)
}

func TestConversationContext_CloneIsIndependent(t *testing.T) {
	cc := NewConversationContext("key-1", "card-1")
	cc.RecordTurn("a", "b", false)

	clone := cc.Clone()
	clone.RecordTurn("c", "d", true)

	assert.Len(t, cc.Messages, 2)
	assert.Len(t, clone.Messages, 4)
	assert.False(t, cc.GoalAchieved)
	assert.True(t, clone.GoalAchieved)
}

func TestLastAssistantText(t *testing.T) {
	history := []Message{
		NewUserMessage("q1"),
		NewAssistantMessage("a1"),
		NewUserMessage("q2"),
		NewAssistantMessage("a2"),
	}
	assert.Equal(t, "a2", LastAssistantText(history))
	assert.Equal(t, "", LastAssistantText(nil))
	assert.Equal(t, "", LastAssistantText([]Message{NewUserMessage("q")}))
}
