package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talecard/talecard/card"
	"github.com/talecard/talecard/conversation"
	"github.com/talecard/talecard/core"
	"github.com/talecard/talecard/engine"
	"github.com/talecard/talecard/provider"
)

var chemCard = core.Card{
	ID:          "chem-101",
	Description: "You are Professor Kessler, a patient chemistry teacher.",
	Goal:        "Explain the concept of a chemical reaction.",
}

func newTestServer(completer provider.Completer) (*Server, *conversation.InMemoryStore) {
	cards := card.NewInMemoryStore()
	cards.Put(chemCard)
	store := conversation.NewInMemoryStore()
	e := engine.New(completer, func(o *engine.Options) {
		o.Cards = cards
		o.Store = store
	})
	return New(e), store
}

func postPlayTurn(t *testing.T, h http.Handler, body, sessionID string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/play-turn", strings.NewReader(body))
	if sessionID != "" {
		req.Header.Set(SessionHeader, sessionID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPlayTurn_OK(t *testing.T) {
	mock := provider.NewMockAdapter("mock")
	mock.AddResponse("Can you explain what a catalyst is?", "Happy to help!")
	srv, store := newTestServer(mock)

	rec := postPlayTurn(t, srv.Handler(),
		`{"card_id":"chem-101","user_message":"Can you explain what a catalyst is?"}`, "sess-1")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp playTurnResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "chem-101", resp.CardID)
	assert.Equal(t, chemCard.Description, resp.CardDescription)
	assert.Equal(t, chemCard.Goal, resp.CardGoal)
	assert.Equal(t, "Can you explain what a catalyst is?", resp.UserMessage)
	assert.Equal(t, "Happy to help!", resp.AIResponse)
	assert.False(t, resp.IsGoalAchieved)
	assert.Equal(t, "sess-1", resp.SessionID)

	// Conversation key derives from card id and session.
	cc, err := store.Get(context.Background(), "chem-101:sess-1")
	require.NoError(t, err)
	require.NotNil(t, cc)
	assert.Equal(t, 1, cc.TurnCount)
}

func TestPlayTurn_GeneratesSessionWhenMissing(t *testing.T) {
	srv, _ := newTestServer(provider.NewMockAdapter("mock"))

	rec := postPlayTurn(t, srv.Handler(), `{"card_id":"chem-101","user_message":"hi"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp playTurnResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.SessionID)
}

func TestPlayTurn_UnknownCard(t *testing.T) {
	srv, _ := newTestServer(provider.NewMockAdapter("mock"))

	rec := postPlayTurn(t, srv.Handler(), `{"card_id":"ghost","user_message":"hi"}`, "s")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assertErrorCode(t, rec, "not_found")
}

func TestPlayTurn_EmptyMessage(t *testing.T) {
	srv, _ := newTestServer(provider.NewMockAdapter("mock"))

	rec := postPlayTurn(t, srv.Handler(), `{"card_id":"chem-101","user_message":"   "}`, "s")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertErrorCode(t, rec, "invalid_input")
}

func TestPlayTurn_MalformedBody(t *testing.T) {
	srv, _ := newTestServer(provider.NewMockAdapter("mock"))

	rec := postPlayTurn(t, srv.Handler(), `{not json`, "s")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assertErrorCode(t, rec, "invalid_input")
}

func TestPlayTurn_OversizedBody(t *testing.T) {
	srv, _ := newTestServer(provider.NewMockAdapter("mock"))

	body := `{"card_id":"chem-101","user_message":"` + strings.Repeat("a", maxBodyBytes+1) + `"}`
	rec := postPlayTurn(t, srv.Handler(), body, "s")
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assertErrorCode(t, rec, "invalid_input")
}

func TestPlayTurn_UpstreamUnavailable(t *testing.T) {
	failing := provider.NewMockAdapter("a")
	failing.FailWith(provider.NewError(provider.KindUnavailable, "a", errors.New("503")))
	srv, _ := newTestServer(provider.NewRegistry([]provider.Adapter{failing}))

	rec := postPlayTurn(t, srv.Handler(), `{"card_id":"chem-101","user_message":"hi"}`, "s")
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assertErrorCode(t, rec, "upstream_unavailable")
}

func assertErrorCode(t *testing.T, rec *httptest.ResponseRecorder, want string) {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, want, resp.Error)
}
