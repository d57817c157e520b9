package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/xiaot623/gogo/memorychat/internal/adapter/llm"
	"github.com/xiaot623/gogo/memorychat/internal/domain"
	"github.com/xiaot623/gogo/memorychat/internal/memory"
	"github.com/xiaot623/gogo/memorychat/internal/policy"
)

// Chat answers one user message for sessionID.
//
// The user turn is saved to the session before the provider is called and is
// kept if the call fails. The exchange is persisted only after a reply.
func (s *Service) Chat(ctx context.Context, sessionID, message string) (string, error) {
	requestID := "chat_" + uuid.New().String()[:8]
	logger := s.logger.With().Str("request_id", requestID).Str("session_id", sessionID).Logger()

	transition(logger, domain.ChatStateValidating)
	if strings.TrimSpace(message) == "" {
		return "", domain.ErrEmptyMessage
	}
	if err := s.checkPolicy(ctx, logger, message); err != nil {
		return "", err
	}

	turns, _ := s.sessions.Get(sessionID)
	mem := memory.NewSessionMemory(turns)
	mem.AppendUser(message)
	s.sessions.Put(sessionID, mem.Turns())
	transition(logger, domain.ChatStateSessionAppended)

	history := s.builder.Build(ctx)
	transition(logger, domain.ChatStateContextBuilt)

	req := s.completionRequest(history, mem.Turns())
	transition(logger, domain.ChatStateAwaitingCompletion)

	startTime := time.Now()
	resp, err := s.llmClient.CreateChatCompletion(ctx, req)
	var reply string
	if err == nil {
		reply, err = resp.Reply()
	}
	latency := time.Since(startTime)
	if err != nil {
		logger.Error().Err(err).Dur("latency", latency).Msg("completion failed")
		transition(logger, domain.ChatStateFailed)
		return "", &domain.ProviderError{Err: err}
	}

	event := logger.Info().
		Str("model", resp.Model).
		Dur("latency", latency).
		Int("context_messages", len(history)).
		Int("session_turns", mem.Len())
	if resp.Usage != nil {
		event = event.Int("total_tokens", resp.Usage.TotalTokens)
	}
	event.Msg("completion done")

	mem.AppendAssistant(reply)
	// The reply is already decided; a client disconnect must not cancel persistence.
	s.conversations.Append(context.WithoutCancel(ctx), message, reply)
	mem.Trim()
	s.sessions.Put(sessionID, mem.Turns())
	transition(logger, domain.ChatStateCompleted)

	return reply, nil
}

// completionRequest orders the messages as system prompt, replayed history,
// then the live session.
func (s *Service) completionRequest(history, live []domain.Turn) *llm.ChatCompletionRequest {
	messages := make([]llm.ChatMessage, 0, 1+len(history)+len(live))
	messages = append(messages, llm.ChatMessage{Role: string(domain.RoleSystem), Content: SystemPrompt})
	messages = append(messages, llm.MessagesFromTurns(history)...)
	messages = append(messages, llm.MessagesFromTurns(live)...)

	tokens := maxTokens
	temp := temperature
	return &llm.ChatCompletionRequest{
		Model:       s.opts.Model,
		Messages:    messages,
		MaxTokens:   &tokens,
		Temperature: &temp,
	}
}

// checkPolicy rejects blocked messages. Evaluation failures are logged and
// the message is allowed.
func (s *Service) checkPolicy(ctx context.Context, logger zerolog.Logger, message string) error {
	if s.policy == nil {
		return nil
	}

	decision, err := s.policy.Evaluate(ctx, policy.NewInput(message, s.opts.MaxMessageChars))
	if err != nil {
		logger.Warn().Err(err).Msg("input policy evaluation failed")
		return nil
	}
	if decision == domain.PolicyDecisionBlock {
		logger.Info().Msg("message blocked by input policy")
		return &domain.ValidationError{Reason: "message rejected by input policy"}
	}
	return nil
}

func transition(logger zerolog.Logger, state domain.ChatState) {
	logger.Debug().Str("state", string(state)).Msg("chat state")
}
