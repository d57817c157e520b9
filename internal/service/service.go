// Package service coordinates session memory, the conversation log and the
// completion provider for each chat request.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/xiaot623/gogo/memorychat/internal/adapter/llm"
	"github.com/xiaot623/gogo/memorychat/internal/domain"
	"github.com/xiaot623/gogo/memorychat/internal/memory"
	"github.com/xiaot623/gogo/memorychat/internal/policy"
	"github.com/xiaot623/gogo/memorychat/internal/session"
)

const (
	// SystemPrompt opens every completion request.
	SystemPrompt = "You are a helpful chatbot with perfect memory. You remember ALL previous conversations with the user and refer to them. Use earlier information to give better answers."

	maxTokens   = 500
	temperature = 0.7
)

// InputPolicy decides whether a message may be sent to the model.
type InputPolicy interface {
	Evaluate(ctx context.Context, input policy.Input) (domain.PolicyDecision, error)
}

// Options are the per-deployment completion settings.
type Options struct {
	Model           string
	MaxMessageChars int
}

type Service struct {
	conversations *memory.ConversationLog
	builder       *memory.ContextBuilder
	sessions      session.Store
	llmClient     llm.LLMClient
	policy        InputPolicy
	opts          Options
	logger        zerolog.Logger
}

// New wires the service. policyEngine may be nil to skip the input policy.
func New(conversations *memory.ConversationLog, sessions session.Store, llmClient llm.LLMClient, policyEngine InputPolicy, opts Options, logger zerolog.Logger) *Service {
	return &Service{
		conversations: conversations,
		builder:       memory.NewContextBuilder(conversations, domain.ContextExchanges),
		sessions:      sessions,
		llmClient:     llmClient,
		policy:        policyEngine,
		opts:          opts,
		logger:        logger.With().Str("component", "service").Logger(),
	}
}
