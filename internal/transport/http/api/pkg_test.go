package api

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/xiaot623/gogo/memorychat/internal/adapter/llm"
	"github.com/xiaot623/gogo/memorychat/internal/memory"
	"github.com/xiaot623/gogo/memorychat/internal/repository"
	"github.com/xiaot623/gogo/memorychat/internal/service"
	"github.com/xiaot623/gogo/memorychat/internal/session"
)

// scriptedLLM replies with the queued answers, or fails when an error is queued.
type scriptedLLM struct {
	mu      sync.Mutex
	replies []any
}

func (s *scriptedLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replies) == 0 {
		return nil, errors.New("no scripted reply")
	}
	next := s.replies[0]
	s.replies = s.replies[1:]
	if err, ok := next.(error); ok {
		return nil, err
	}
	return &llm.ChatCompletionResponse{
		Choices: []llm.Choice{{Message: &llm.ChatMessage{Role: "assistant", Content: next.(string)}}},
	}, nil
}

func (s *scriptedLLM) ListModels(ctx context.Context) ([]llm.Model, error) {
	return []llm.Model{{ID: "scripted"}}, nil
}

type testDeps struct {
	backend  repository.Backend
	log      *memory.ConversationLog
	sessions *session.MemoryStore
}

func newTestHandler(t *testing.T, backend repository.Backend, replies ...any) (*Handler, *testDeps) {
	t.Helper()
	if backend == nil {
		backend = repository.NewMemoryBackend()
	}
	log := memory.NewConversationLog(backend, zerolog.Nop())
	sessions := session.NewMemoryStore(0)
	svc := service.New(log, sessions, &scriptedLLM{replies: replies}, nil, service.Options{Model: "m"}, zerolog.Nop())
	return NewHandler(svc), &testDeps{backend: backend, log: log, sessions: sessions}
}

func withSession(c echo.Context, id string) echo.Context {
	session.SetID(c, id)
	return c
}
