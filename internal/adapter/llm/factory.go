package llm

import (
	"time"

	"github.com/rs/zerolog"
)

// ModeMock selects the mock client.
const ModeMock = "MOCK"

// NewLLMClient creates an LLM client for mode.
// If mode is MOCK, returns a MockClient; otherwise returns a real Client.
func NewLLMClient(mode, baseURL, apiKey string, timeout time.Duration, logger zerolog.Logger) LLMClient {
	if mode == ModeMock {
		logger.Info().Msg("GOGO_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	if apiKey == "" {
		logger.Warn().Str("base_url", baseURL).Msg("no API key configured for the LLM client")
	}
	return NewClient(baseURL, apiKey, timeout)
}
