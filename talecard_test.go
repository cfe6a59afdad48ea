package talecard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talecard/talecard/card"
	"github.com/talecard/talecard/core"
	"github.com/talecard/talecard/provider"
)

func TestNew_PlayTurnThroughFacade(t *testing.T) {
	mock := provider.NewMockAdapter("mock")
	cards := card.NewInMemoryStore()
	cards.Put(core.Card{ID: "c1", Description: "A narrator.", Goal: "Tell a story about dragons."})

	tc, err := New(func(o *Options) {
		o.Completer = mock
		o.Cards = cards
	})
	require.NoError(t, err)

	result, err := tc.PlayTurn(context.Background(), core.TurnRequest{
		ConversationKey: "c1:s1",
		Card:            core.Card{ID: "c1"},
		UserMessage:     "Once upon a time?",
	})
	require.NoError(t, err)
	assert.Equal(t, "c1", result.CardID)
	assert.Equal(t, "mock", result.ProviderID)
	assert.NotNil(t, tc.Handler())
}
