// Package chat is a small conversational proxy to a language model. It
// falls back to canned replies when no model is configured or a call fails,
// and keeps a transcript of every exchange.
package chat

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/daypoints/internal/constants"
	apperrors "github.com/julianstephens/daypoints/internal/errors"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/models"
	"github.com/julianstephens/daypoints/internal/storage"
)

type conversationStore interface {
	AddConversation(ctx context.Context, conv models.Conversation) (models.Conversation, error)
	GetConversations(ctx context.Context, filter storage.ConversationFilter) ([]models.Conversation, error)
	Ping(ctx context.Context) error
}

// Mode reports how replies are produced.
type Mode string

const (
	ModeModel     Mode = "model"
	ModeSimulated Mode = "simulated"
)

const (
	quotaReply   = "😿 Oops, my AI credits ran out. My human needs to top up the account. Until then I'll keep answering in simulated mode. Meow!"
	rateReply    = "😸 I'm a little busy right now, too many questions at once. Try again in a moment, meow!"
	failureReply = "😿 I hit a small technical snag, but I'm still here to help. What can I do for you?"
)

var simulatedReplies = []string{
	"Meow! 🐱 I'm in simulation mode, but I'm still your favourite companion. How can I help?",
	"🐾 Hi! I'm only practising right now, but my little cat brain is ready to help.",
	"😸 Great! I'm running in simulated mode with my cat personality fully intact.",
	"🐱 Meow meow! Simulation mode, but my curious cat spirit is here for you.",
	"🐾 I'm in training mode, yet my whiskers tell me you need a hand. Here I am!",
	"😻 Hello human! Simulation mode is on, but my cat heart is eager to help.",
	"🐱 Simulated purring activated! What adventure are we planning today?",
	"🐾 Practice mode, but full feline energy to assist you. Meow!",
}

// Request is one user message.
type Request struct {
	Text      string `json:"text"`
	SessionID string `json:"session_id,omitempty"`
	UserID    string `json:"user_id,omitempty"`
}

// Response is the answer to a Request.
type Response struct {
	ReceivedText   string    `json:"received_text"`
	Reply          string    `json:"reply"`
	SessionID      string    `json:"session_id"`
	ThreadID       string    `json:"thread_id"`
	TokensUsed     int       `json:"tokens_used"`
	Model          string    `json:"model"`
	Simulated      bool      `json:"simulated"`
	CharacterCount int       `json:"character_count"`
	Timestamp      time.Time `json:"timestamp"`
}

// Info describes the chat backend.
type Info struct {
	Mode           Mode   `json:"mode"`
	Model          string `json:"model"`
	StoreConnected bool   `json:"store_connected"`
	StoreError     string `json:"store_error,omitempty"`
}

// Service answers chat messages and records transcripts.
type Service struct {
	generator Generator
	store     conversationStore
	now       func() time.Time
}

// NewService builds a chat service. A nil generator selects simulated mode.
func NewService(generator Generator, store conversationStore) *Service {
	return &Service{generator: generator, store: store, now: time.Now}
}

// Mode reports whether a model is configured.
func (s *Service) Mode() Mode {
	if s.generator == nil {
		return ModeSimulated
	}
	return ModeModel
}

// Send answers req. Generator failures degrade to a canned reply and a
// failed transcript write is only logged; neither fails the call.
func (s *Service) Send(ctx context.Context, req Request) (Response, error) {
	const op = "chat.Send"
	if strings.TrimSpace(req.Text) == "" {
		return Response{}, apperrors.Validation(op, "message text must not be empty")
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}
	if req.UserID == "" {
		req.UserID = constants.DefaultChatUserID
	}

	resp := Response{
		ReceivedText:   req.Text,
		SessionID:      req.SessionID,
		ThreadID:       constants.ChatThreadPrefix + req.SessionID,
		CharacterCount: len([]rune(req.Text)),
		Timestamp:      s.now().UTC(),
	}

	if s.generator == nil {
		resp.Reply = SimulatedReply(req.Text)
		resp.Model = constants.SimulatedModelName
		resp.Simulated = true
		resp.TokensUsed = EstimateTokens(req.Text, resp.Reply)
	} else {
		reply, err := s.generator.Generate(ctx, req.Text)
		if err != nil {
			logger.Warn("Model call failed, using fallback reply", "session_id", req.SessionID, "error", err)
			resp.Reply = FallbackReply(err)
			resp.Model = s.generator.Model()
			resp.Simulated = true
			resp.TokensUsed = EstimateTokens(req.Text, resp.Reply)
		} else {
			resp.Reply = reply.Text
			resp.Model = reply.Model
			resp.TokensUsed = reply.TokensUsed
		}
	}

	_, err := s.store.AddConversation(ctx, models.Conversation{
		UserID:     req.UserID,
		SessionID:  req.SessionID,
		ThreadID:   resp.ThreadID,
		Message:    req.Text,
		Response:   resp.Reply,
		TokensUsed: resp.TokensUsed,
		ModelUsed:  resp.Model,
		Simulated:  resp.Simulated,
		CreatedAt:  resp.Timestamp,
	})
	if err != nil {
		logger.Error("Failed to save conversation", "session_id", req.SessionID, "error", err)
	}

	logger.Debug("Chat reply", "session_id", req.SessionID, "tokens", resp.TokensUsed, "simulated", resp.Simulated)
	return resp, nil
}

// History returns transcripts newest first. An empty userID means the
// default user; an empty sessionID means every session. limit <= 0 uses
// the default page size.
func (s *Service) History(ctx context.Context, userID, sessionID string, limit int) ([]models.Conversation, error) {
	if userID == "" {
		userID = constants.DefaultChatUserID
	}
	if limit <= 0 {
		limit = constants.DefaultHistoryLimit
	}
	convs, err := s.store.GetConversations(ctx, storage.ConversationFilter{
		UserID:    userID,
		SessionID: sessionID,
		Limit:     limit,
	})
	if err != nil {
		return nil, apperrors.Storage("chat.History", err)
	}
	return convs, nil
}

// Info reports the mode, model and whether the transcript store answers.
func (s *Service) Info(ctx context.Context) Info {
	info := Info{Mode: s.Mode(), Model: constants.SimulatedModelName}
	if s.generator != nil {
		info.Model = s.generator.Model()
	}
	if err := s.store.Ping(ctx); err != nil {
		info.StoreError = err.Error()
	} else {
		info.StoreConnected = true
	}
	return info
}

// SimulatedReply picks a canned answer from the message length.
func SimulatedReply(message string) string {
	return simulatedReplies[len(message)%len(simulatedReplies)]
}

// FallbackReply picks the canned answer for a generator failure.
func FallbackReply(err error) string {
	switch {
	case errors.Is(err, ErrQuotaExhausted):
		return quotaReply
	case errors.Is(err, ErrRateLimited):
		return rateReply
	default:
		return failureReply
	}
}

// EstimateTokens approximates usage as a quarter token per byte of each side.
func EstimateTokens(message, reply string) int {
	return len(message)/4 + len(reply)/4
}
