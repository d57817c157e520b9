// Package policy evaluates the chat input policy with OPA.
package policy

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/open-policy-agent/opa/rego"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
)

// Input is the document the policy sees as `input`.
type Input struct {
	Message   string `json:"message"`
	Length    int    `json:"length"`
	MaxLength int    `json:"max_length"`
}

// NewInput describes message for evaluation; maxLength <= 0 disables the length rule.
func NewInput(message string, maxLength int) Input {
	return Input{
		Message:   message,
		Length:    utf8.RuneCountInString(message),
		MaxLength: maxLength,
	}
}

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.chat_policy.decision"),
		rego.Module("chat_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// Evaluate returns the decision for input. A policy that yields nothing allows.
func (e *Engine) Evaluate(ctx context.Context, input Input) (domain.PolicyDecision, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return "", fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return domain.PolicyDecisionAllow, nil
	}

	s, ok := results[0].Expressions[0].Value.(string)
	if !ok {
		return "", fmt.Errorf("policy returned %T, want string", results[0].Expressions[0].Value)
	}
	return domain.PolicyDecision(s), nil
}

// DefaultPolicy is the default policy content.
const DefaultPolicy = `
package chat_policy

import rego.v1

default decision := "allow"

# Oversized messages are rejected before they reach the model.
decision := "block" if {
	input.max_length > 0
	input.length > input.max_length
}
`
