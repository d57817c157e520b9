package service

import (
	"context"

	"github.com/xiaot623/gogo/memorychat/internal/adapter/llm"
)

// ListModels retrieves the list of available models.
func (s *Service) ListModels(ctx context.Context) ([]llm.Model, error) {
	return s.llmClient.ListModels(ctx)
}
