package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/talecard/talecard/core"
	"github.com/talecard/talecard/engine"
	"github.com/talecard/talecard/logging"
	"github.com/talecard/talecard/provider"
)

// SessionHeader names the request header carrying the caller's session
// identifier. Together with the card id it derives the conversation key, so
// the same player keeps one conversation per card across stateless requests.
const SessionHeader = "X-Session-ID"

// playTurnRequest is the wire shape of POST /play-turn.
type playTurnRequest struct {
	CardID      string `json:"card_id"`
	UserMessage string `json:"user_message"`
}

// playTurnResponse is the wire shape of a successful turn.
type playTurnResponse struct {
	CardID          string `json:"card_id"`
	CardDescription string `json:"card_description"`
	CardGoal        string `json:"card_goal"`
	UserMessage     string `json:"user_message"`
	AIResponse      string `json:"ai_response"`
	IsGoalAchieved  bool   `json:"is_goal_achieved"`
	SessionID       string `json:"session_id"`
}

// errorResponse is the wire shape of a failed turn.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// maxBodyBytes caps the request body before decoding. A turn is a single
// user message, so 1 MiB leaves generous headroom.
const maxBodyBytes = 1 << 20

// Options configure a Server.
type Options struct {
	// Logger records request outcomes. Defaults to NoOp.
	Logger logging.Logger
}

// Server wires the engine to its HTTP surface.
type Server struct {
	engine *engine.Engine
	logger logging.Logger
}

// New constructs a Server around an engine.
func New(e *engine.Engine, optFns ...func(o *Options)) *Server {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Server{engine: e, logger: opts.Logger}
}

// Handler returns the route multiplexer for the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /play-turn", s.handlePlayTurn)
	return mux
}

func (s *Server) handlePlayTurn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req playTurnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.writeError(w, http.StatusRequestEntityTooLarge, "invalid_input", "request body exceeds the size limit")
			return
		}
		s.writeError(w, http.StatusBadRequest, "invalid_input", "request body is not valid JSON")
		return
	}

	// A caller without a session gets a fresh one; it comes back in the
	// response so subsequent turns can continue the conversation.
	sessionID := r.Header.Get(SessionHeader)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	result, err := s.engine.PlayTurn(r.Context(), core.TurnRequest{
		ConversationKey: req.CardID + ":" + sessionID,
		Card:            core.Card{ID: req.CardID},
		UserMessage:     req.UserMessage,
	})
	if err != nil {
		s.writeTurnError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, playTurnResponse{
		CardID:          result.CardID,
		CardDescription: result.CardDescription,
		CardGoal:        result.CardGoal,
		UserMessage:     result.UserMessage,
		AIResponse:      result.AIResponse,
		IsGoalAchieved:  result.IsGoalAchieved,
		SessionID:       sessionID,
	})
}

// writeTurnError maps the internal failure taxonomy to the externally
// visible statuses: not_found, invalid_input, upstream_unavailable,
// internal_error.
func (s *Server) writeTurnError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, engine.ErrCardNotFound):
		s.writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, engine.ErrInvalidInput), errors.Is(err, engine.ErrCardMismatch):
		s.writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, engine.ErrTurnTimeout), errors.Is(err, provider.ErrAllProvidersExhausted):
		s.writeError(w, http.StatusBadGateway, "upstream_unavailable", err.Error())
	default:
		if provider.KindOf(err) != provider.KindUnknown {
			s.writeError(w, http.StatusBadGateway, "upstream_unavailable", err.Error())
			return
		}
		s.logger.Error("unexpected turn failure", "error", err)
		s.writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, code, message string) {
	s.writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("write response failed", "error", err)
	}
}
