package config

import (
	"errors"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds everything the bridge needs, loaded once in main and passed
// into constructors. No package-level state.
type Config struct {
	Port        string `envconfig:"PORT"`
	DatabaseURL string `envconfig:"DATABASE_URL"`

	LineChannelSecret      string `envconfig:"LINE_CHANNEL_SECRET"`
	LineChannelAccessToken string `envconfig:"LINE_CHANNEL_ACCESS_TOKEN"`

	OpenAIAPIKey      string `envconfig:"OPENAI_API_KEY"`
	OpenAIOrgID       string `envconfig:"OPENAI_ORG_ID"`
	OpenAIAssistantID string `envconfig:"OPENAI_ASSISTANT_ID"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.DatabaseURL == "" {
		return Config{}, errors.New("DATABASE_URL is not set")
	}
	if cfg.LineChannelSecret == "" {
		return Config{}, errors.New("LINE_CHANNEL_SECRET is not set")
	}
	if cfg.LineChannelAccessToken == "" {
		return Config{}, errors.New("LINE_CHANNEL_ACCESS_TOKEN is not set")
	}
	if cfg.OpenAIAPIKey == "" {
		return Config{}, errors.New("OPENAI_API_KEY is not set")
	}
	if cfg.OpenAIAssistantID == "" {
		return Config{}, errors.New("OPENAI_ASSISTANT_ID is not set")
	}

	return cfg, nil
}
