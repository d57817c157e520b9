package memory

import "github.com/xiaot623/gogo/memorychat/internal/domain"

// SessionMemory is the live turn list of one session. It is a value that is
// loaded from and saved back to the session store by the caller.
type SessionMemory struct {
	turns []domain.Turn
	limit int
}

// NewSessionMemory starts from a copy of turns (nil is an empty session).
func NewSessionMemory(turns []domain.Turn) *SessionMemory {
	return &SessionMemory{
		turns: append([]domain.Turn{}, turns...),
		limit: domain.MaxSessionTurns,
	}
}

func (m *SessionMemory) AppendUser(text string) {
	m.turns = append(m.turns, domain.Turn{Role: domain.RoleUser, Content: text})
}

func (m *SessionMemory) AppendAssistant(text string) {
	m.turns = append(m.turns, domain.Turn{Role: domain.RoleAssistant, Content: text})
}

// Trim drops the oldest turns beyond the cap. It runs once per completed
// round, so a round may hold one turn over the cap until it is called.
func (m *SessionMemory) Trim() {
	m.turns = append([]domain.Turn{}, lastN(m.turns, m.limit)...)
}

func (m *SessionMemory) Reset() {
	m.turns = []domain.Turn{}
}

// Turns returns a copy of the current turns.
func (m *SessionMemory) Turns() []domain.Turn {
	return append([]domain.Turn{}, m.turns...)
}

func (m *SessionMemory) Len() int {
	return len(m.turns)
}
