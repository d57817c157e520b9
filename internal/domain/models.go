// Package domain defines the core domain models for the chat service.
package domain

import "time"

// Role is the author of a session turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

const (
	// MaxSessionTurns caps the live session memory after each completed round.
	MaxSessionTurns = 30
	// ContextExchanges is how many persisted exchanges are replayed into a completion.
	ContextExchanges = 30
)

// Exchange is one persisted (user message, bot reply) pair.
type Exchange struct {
	Timestamp time.Time `json:"timestamp"`
	User      string    `json:"user"`
	Bot       string    `json:"bot"`
}

// Turn is one role-tagged message of a conversation.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}
