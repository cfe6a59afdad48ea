package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTurnRequest_Validate(t *testing.T) {
	valid := TurnRequest{
		ConversationKey: "card-1:sess-1",
		Card:            Card{ID: "card-1"},
		UserMessage:     "hello",
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name    string
		mutate  func(r *TurnRequest)
		wantErr error
	}{
		{"missing key", func(r *TurnRequest) { r.ConversationKey = "" }, ErrMissingConversationKey},
		{"missing card id", func(r *TurnRequest) { r.Card.ID = "" }, ErrMissingCardID},
		{"empty message", func(r *TurnRequest) { r.UserMessage = "" }, ErrEmptyUserMessage},
		{"whitespace message", func(r *TurnRequest) { r.UserMessage = "  \n\t " }, ErrEmptyUserMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			assert.ErrorIs(t, req.Validate(), tt.wantErr)
		})
	}
}

func TestCard_Complete(t *testing.T) {
	assert.True(t, Card{ID: "c", Description: "d", Goal: "g"}.Complete())
	assert.False(t, Card{ID: "c"}.Complete())
	assert.False(t, Card{Description: "d", Goal: "g"}.Complete())
}
