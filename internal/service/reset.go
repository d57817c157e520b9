package service

import (
	"context"
	"fmt"

	"github.com/xiaot623/gogo/memorychat/internal/domain"
	"github.com/xiaot623/gogo/memorychat/internal/memory"
)

// Reset clears the conversation log and the caller's session memory. The
// session is left alone if the log cannot be cleared.
func (s *Service) Reset(ctx context.Context, sessionID string) error {
	if err := s.conversations.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("reset failed")
		return err
	}

	turns, _ := s.sessions.Get(sessionID)
	mem := memory.NewSessionMemory(turns)
	mem.Reset()
	s.sessions.Put(sessionID, mem.Turns())

	s.logger.Info().Str("session_id", sessionID).Msg("conversations reset")
	return nil
}

// History returns up to limit of the most recent exchanges, oldest first.
// limit <= 0 returns everything.
func (s *Service) History(ctx context.Context, limit int) []domain.Exchange {
	exchanges := s.conversations.Load(ctx)
	if limit > 0 && len(exchanges) > limit {
		exchanges = exchanges[len(exchanges)-limit:]
	}
	return exchanges
}

// SessionTurns returns the live turns of sessionID.
func (s *Service) SessionTurns(sessionID string) []domain.Turn {
	turns, _ := s.sessions.Get(sessionID)
	return memory.NewSessionMemory(turns).Turns()
}

// ClearHistory empties the conversation log without touching any session.
func (s *Service) ClearHistory(ctx context.Context) error {
	if err := s.conversations.Clear(ctx); err != nil {
		return fmt.Errorf("clear history: %w", err)
	}
	return nil
}
