package domain

// ChatState is the lifecycle of a single chat request.
type ChatState string

const (
	ChatStateValidating         ChatState = "VALIDATING"
	ChatStateSessionAppended    ChatState = "SESSION_APPENDED"
	ChatStateContextBuilt       ChatState = "CONTEXT_BUILT"
	ChatStateAwaitingCompletion ChatState = "AWAITING_COMPLETION"
	ChatStateCompleted          ChatState = "COMPLETED"
	ChatStateFailed             ChatState = "FAILED"
)

// PolicyDecision is the outcome of the input policy for a message.
type PolicyDecision string

const (
	PolicyDecisionAllow PolicyDecision = "allow"
	PolicyDecisionBlock PolicyDecision = "block"
)
