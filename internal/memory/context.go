package memory

import (
	"context"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
)

// HistoryLoader reads the persisted exchanges.
type HistoryLoader interface {
	Load(ctx context.Context) []domain.Exchange
}

// ContextBuilder turns the most recent persisted exchanges into completion messages.
type ContextBuilder struct {
	history HistoryLoader
	window  int
}

// NewContextBuilder replays up to window exchanges; window <= 0 uses domain.ContextExchanges.
func NewContextBuilder(history HistoryLoader, window int) *ContextBuilder {
	if window <= 0 {
		window = domain.ContextExchanges
	}
	return &ContextBuilder{history: history, window: window}
}

// Build reads the log fresh on every call and returns one user and one
// assistant turn per exchange, oldest first. The result is never nil.
func (b *ContextBuilder) Build(ctx context.Context) []domain.Turn {
	recent := lastN(b.history.Load(ctx), b.window)

	turns := make([]domain.Turn, 0, 2*len(recent))
	for _, ex := range recent {
		turns = append(turns,
			domain.Turn{Role: domain.RoleUser, Content: ex.User},
			domain.Turn{Role: domain.RoleAssistant, Content: ex.Bot},
		)
	}
	return turns
}

// lastN returns the trailing n elements of s.
func lastN[T any](s []T, n int) []T {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
