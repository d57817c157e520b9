// Package config provides configuration for the chat service.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// DefaultEnvFile is read when present, before the process environment.
const DefaultEnvFile = ".env"

// Config holds the service configuration.
type Config struct {
	// Server settings
	Port   int    `mapstructure:"port"`
	AppEnv string `mapstructure:"app_env"`

	// LLM provider
	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`
	OpenAIModel   string `mapstructure:"openai_model"`
	LLMTimeoutMS  int    `mapstructure:"llm_timeout_ms"`
	Mode          string `mapstructure:"gogo_mode"`

	// Conversation storage
	StorageDriver     string `mapstructure:"storage_driver"`
	ConversationsFile string `mapstructure:"conversations_file"`
	DatabaseURL       string `mapstructure:"database_url"`

	// Sessions
	SessionTTLMS  int    `mapstructure:"session_ttl_ms"`
	SessionSecret string `mapstructure:"session_secret"`

	// Input policy
	MaxMessageChars int    `mapstructure:"max_message_chars"`
	PolicyFile      string `mapstructure:"policy_file"`

	// WebSocket
	WSPingIntervalMS  int   `mapstructure:"ws_ping_interval_ms"`
	WSWriteTimeoutMS  int   `mapstructure:"ws_write_timeout_ms"`
	WSReadTimeoutMS   int   `mapstructure:"ws_read_timeout_ms"`
	WSMaxMessageBytes int64 `mapstructure:"ws_max_message_bytes"`

	// Logging
	LogLevel  string `mapstructure:"log_level"`
	LogPretty bool   `mapstructure:"log_pretty"`
}

var defaults = map[string]any{
	"port":                 3000,
	"app_env":              "",
	"openai_api_key":       "",
	"openai_base_url":      "https://api.openai.com",
	"openai_model":         "gpt-4o-mini",
	"llm_timeout_ms":       60000,
	"gogo_mode":            "",
	"storage_driver":       "file",
	"conversations_file":   "/tmp/conversations.json",
	"database_url":         "file:memorychat.db?_journal_mode=WAL&_busy_timeout=5000",
	"session_ttl_ms":       86400000,
	"session_secret":       "geheim123",
	"max_message_chars":    0,
	"policy_file":          "",
	"ws_ping_interval_ms":  30000,
	"ws_write_timeout_ms":  10000,
	"ws_read_timeout_ms":   60000,
	"ws_max_message_bytes": 1048576,
	"log_level":            "info",
	"log_pretty":           false,
}

// Load loads configuration from envFile (if it exists) and environment
// variables, which take precedence. An empty envFile means DefaultEnvFile.
func Load(envFile string) (*Config, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	v := viper.New()
	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.AutomaticEnv()

	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// LLMTimeout is the provider HTTP client timeout.
func (c *Config) LLMTimeout() time.Duration {
	return millis(c.LLMTimeoutMS)
}

// SessionTTL is the session inactivity horizon.
func (c *Config) SessionTTL() time.Duration {
	return millis(c.SessionTTLMS)
}

// Production reports whether APP_ENV is "production".
func (c *Config) Production() bool {
	return c.AppEnv == "production"
}

func millis(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// WSPingInterval is how often the server pings WebSocket clients.
func (c *Config) WSPingInterval() time.Duration { return millis(c.WSPingIntervalMS) }

// WSWriteTimeout bounds a single WebSocket frame write.
func (c *Config) WSWriteTimeout() time.Duration { return millis(c.WSWriteTimeoutMS) }

// WSReadTimeout is the idle read horizon, extended by every pong.
func (c *Config) WSReadTimeout() time.Duration { return millis(c.WSReadTimeoutMS) }
