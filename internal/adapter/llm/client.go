package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	completionsPath = "/v1/chat/completions"
	modelsPath      = "/v1/models"
)

// Client talks to an OpenAI-compatible API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a client; timeout bounds each HTTP round trip.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// StatusError is a non-200 answer from the provider.
type StatusError struct {
	StatusCode int
	Message    string
	Type       string
}

func (e *StatusError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("LLM API error [%d]: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("LLM API error [%d]: %s (type: %s)", e.StatusCode, e.Message, e.Type)
}

// CreateChatCompletion sends a non-streaming completion request.
func (c *Client) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	var result ChatCompletionResponse
	if err := c.do(ctx, http.MethodPost, completionsPath, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListModels lists the models the provider serves.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	var result ModelsResponse
	if err := c.do(ctx, http.MethodGet, modelsPath, nil, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// do sends in as JSON (when non-nil) and decodes a 200 answer into out.
// Other statuses become a *StatusError.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return statusError(resp.StatusCode, data)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// statusError prefers the OpenAI error envelope and falls back to the raw body.
func statusError(code int, body []byte) *StatusError {
	var envelope ErrorResponse
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return &StatusError{StatusCode: code, Message: envelope.Error.Message, Type: envelope.Error.Type}
	}
	return &StatusError{StatusCode: code, Message: strings.TrimSpace(string(body))}
}
