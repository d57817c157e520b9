package service

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/xiaot623/gogo/memorychat/internal/adapter/llm"
	"github.com/xiaot623/gogo/memorychat/internal/domain"
	"github.com/xiaot623/gogo/memorychat/internal/memory"
	"github.com/xiaot623/gogo/memorychat/internal/policy"
	"github.com/xiaot623/gogo/memorychat/internal/repository"
	"github.com/xiaot623/gogo/memorychat/internal/session"
)

var errProviderDown = errors.New("provider down")

// stubLLM answers from a queue of scripted replies and records every request.
type stubLLM struct {
	mu       sync.Mutex
	replies  []stubReply
	requests []*llm.ChatCompletionRequest
}

type stubReply struct {
	content string
	err     error
	empty   bool
}

func (s *stubLLM) CreateChatCompletion(ctx context.Context, req *llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)

	if len(s.replies) == 0 {
		return nil, errors.New("stub: no scripted reply")
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	if r.err != nil {
		return nil, r.err
	}
	if r.empty {
		return &llm.ChatCompletionResponse{Model: req.Model}, nil
	}
	return &llm.ChatCompletionResponse{
		Model: req.Model,
		Choices: []llm.Choice{{
			Message: &llm.ChatMessage{Role: "assistant", Content: r.content},
		}},
	}, nil
}

func (s *stubLLM) ListModels(ctx context.Context) ([]llm.Model, error) {
	return []llm.Model{{ID: "stub"}}, nil
}

func (s *stubLLM) lastRequest() *llm.ChatCompletionRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[len(s.requests)-1]
}

// writeFailBackend fails every write while reads succeed.
type writeFailBackend struct {
	*repository.MemoryBackend
}

func (b writeFailBackend) Write(context.Context, []byte) error {
	return errors.New("read-only filesystem")
}

type fixedPolicy struct {
	decision domain.PolicyDecision
	err      error
}

func (p fixedPolicy) Evaluate(context.Context, policy.Input) (domain.PolicyDecision, error) {
	return p.decision, p.err
}

type testEnv struct {
	svc      *Service
	log      *memory.ConversationLog
	sessions *session.MemoryStore
	llm      *stubLLM
}

func newTestEnv(backend repository.Backend, replies ...stubReply) *testEnv {
	if backend == nil {
		backend = repository.NewMemoryBackend()
	}
	log := memory.NewConversationLog(backend, zerolog.Nop())
	sessions := session.NewMemoryStore(0)
	stub := &stubLLM{replies: replies}
	svc := New(log, sessions, stub, nil, Options{Model: "gpt-test"}, zerolog.Nop())
	return &testEnv{svc: svc, log: log, sessions: sessions, llm: stub}
}

func reply(content string) stubReply {
	return stubReply{content: content}
}

func failure(err error) stubReply {
	return stubReply{err: err}
}
