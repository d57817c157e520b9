// Package memory implements the long-term conversation log, the context window
// derived from it, and the bounded per-session turn list.
package memory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
	"github.com/xiaot623/gogo/memorychat/internal/repository"
)

// ConversationLog is the durable record of every exchange across sessions.
//
// Every operation reads and/or rewrites the whole stored log. Concurrent
// Append calls race on load-modify-write and the later write wins; callers
// get no mutual exclusion from this type.
type ConversationLog struct {
	backend repository.Backend
	logger  zerolog.Logger
	now     func() time.Time
}

// NewConversationLog creates a log on top of backend.
func NewConversationLog(backend repository.Backend, logger zerolog.Logger) *ConversationLog {
	return &ConversationLog{
		backend: backend,
		logger:  logger.With().Str("component", "conversation_log").Logger(),
		now:     time.Now,
	}
}

// Load returns the full log. A missing store is an empty log; an unreadable or
// corrupt store is logged and also treated as empty.
func (l *ConversationLog) Load(ctx context.Context) []domain.Exchange {
	data, err := l.backend.Read(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNotExist) {
			l.logger.Error().Err(err).Msg("load conversations")
		}
		return []domain.Exchange{}
	}

	var exchanges []domain.Exchange
	if err := json.Unmarshal(data, &exchanges); err != nil {
		l.logger.Error().Err(err).Msg("decode conversations")
		return []domain.Exchange{}
	}
	if exchanges == nil {
		exchanges = []domain.Exchange{}
	}
	return exchanges
}

// Append adds one exchange and rewrites the store. Failures are logged only.
func (l *ConversationLog) Append(ctx context.Context, user, bot string) {
	exchanges := l.Load(ctx)
	exchanges = append(exchanges, domain.Exchange{
		Timestamp: l.now().UTC(),
		User:      user,
		Bot:       bot,
	})

	if err := l.write(ctx, exchanges); err != nil {
		l.logger.Error().Err(err).Int("exchanges", len(exchanges)).Msg("save conversation")
	}
}

// Clear empties the store.
func (l *ConversationLog) Clear(ctx context.Context) error {
	if err := l.write(ctx, []domain.Exchange{}); err != nil {
		return fmt.Errorf("clear conversations: %w", err)
	}
	return nil
}

func (l *ConversationLog) write(ctx context.Context, exchanges []domain.Exchange) error {
	data, err := json.Marshal(exchanges)
	if err != nil {
		return fmt.Errorf("encode conversations: %w", err)
	}
	return l.backend.Write(ctx, data)
}
