// Package groq builds OpenAI SDK clients pointed at Groq's OpenAI-compatible
// API, which serves both the chat models used for intent extraction and the
// whisper models used for voice transcription.
package groq

import (
	"strings"
	"time"

	openaisdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type Config struct {
	BaseURL      string        `envconfig:"BASE_URL" split_words:"true" default:"https://api.groq.com/openai/v1"`
	APIKey       string        `envconfig:"API_KEY" split_words:"true"`
	Model        string        `envconfig:"MODEL" split_words:"true" default:"llama-3.3-70b-versatile"`
	WhisperModel string        `envconfig:"WHISPER_MODEL" split_words:"true" default:"whisper-large-v3"`
	Temperature  float64       `envconfig:"TEMPERATURE" split_words:"true" default:"0"`
	Timeout      time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
}

// NewClient creates an OpenAI SDK client for the configured Groq endpoint.
// Returns nil when no API key is set so callers can fall back to offline
// strategies.
func NewClient(cfg Config) *openaisdk.Client {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil
	}

	opts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(cfg.APIKey)),
	}
	if trimmed := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"); trimmed != "" {
		opts = append(opts, option.WithBaseURL(trimmed))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	client := openaisdk.NewClient(opts...)
	return &client
}
