package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fbianco/edbot/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"EDBOT_RUNTIME_PATH" envDefault:".edbot"`

	// Model provider selection
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
	Model    string `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`

	OpenAIAPIKey        string `env:"OPENAI_API_KEY"`
	OpenRouterAPIKey    string `env:"OPENROUTER_API_KEY"`
	OllamaBaseURL       string `env:"OLLAMA_BASE_URL" envDefault:"http://localhost:11434"`
	OllamaAPIKey        string `env:"OLLAMA_API_KEY"`
	CustomOpenAIBaseURL string `env:"CUSTOM_OPENAI_BASE_URL"`
	CustomOpenAIAPIKey  string `env:"CUSTOM_OPENAI_API_KEY"`

	// Context management. HistoryWindowSize counts utterance/reply pairs.
	// MaxContextTokens of 0 leaves the window purely pair-count bounded.
	HistoryWindowSize int           `env:"HISTORY_WINDOW_SIZE" envDefault:"10"`
	MaxContextTokens  int           `env:"MAX_CONTEXT_TOKENS" envDefault:"0"`
	CompletionTimeout time.Duration `env:"COMPLETION_TIMEOUT" envDefault:"60s"`

	// Collaborators
	EnableVoice      bool          `env:"ENABLE_VOICE" envDefault:"false"`
	SpeechCommand    string        `env:"SPEECH_COMMAND" envDefault:"espeak"`
	ListenCommand    string        `env:"LISTEN_COMMAND"`
	ReminderInterval time.Duration `env:"REMINDER_INTERVAL" envDefault:"1m"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "edbot.db")
}
