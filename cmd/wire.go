package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/xiaot623/gogo/memorychat/internal/adapter/llm"
	"github.com/xiaot623/gogo/memorychat/internal/config"
	"github.com/xiaot623/gogo/memorychat/internal/logging"
	"github.com/xiaot623/gogo/memorychat/internal/memory"
	"github.com/xiaot623/gogo/memorychat/internal/policy"
	"github.com/xiaot623/gogo/memorychat/internal/repository"
	"github.com/xiaot623/gogo/memorychat/internal/service"
	"github.com/xiaot623/gogo/memorychat/internal/session"
)

type app struct {
	cfg      *config.Config
	logger   zerolog.Logger
	backend  repository.Backend
	sessions *session.MemoryStore
	service  *service.Service
}

func wireApp(ctx context.Context, envFile string, logOut io.Writer) (*app, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logOut, cfg.LogLevel, cfg.LogPretty && !cfg.Production())

	backend, err := repository.Open(cfg.StorageDriver, cfg.ConversationsFile, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageDriver, err)
	}

	policyContent := policy.DefaultPolicy
	if cfg.PolicyFile != "" {
		data, err := os.ReadFile(cfg.PolicyFile)
		if err != nil {
			backend.Close()
			return nil, fmt.Errorf("read policy file: %w", err)
		}
		policyContent = string(data)
	}
	policyEngine, err := policy.NewEngine(ctx, policyContent)
	if err != nil {
		backend.Close()
		return nil, fmt.Errorf("init policy engine: %w", err)
	}

	conversations := memory.NewConversationLog(backend, logger)
	sessions := session.NewMemoryStore(cfg.SessionTTL())
	llmClient := llm.NewLLMClient(cfg.Mode, cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.LLMTimeout(), logger)

	svc := service.New(conversations, sessions, llmClient, policyEngine, service.Options{
		Model:           cfg.OpenAIModel,
		MaxMessageChars: cfg.MaxMessageChars,
	}, logger)

	return &app{
		cfg:      cfg,
		logger:   logger,
		backend:  backend,
		sessions: sessions,
		service:  svc,
	}, nil
}

func (a *app) Close() error {
	return a.backend.Close()
}
