package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported AI providers
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all configuration values
type Config struct {
	DiscordToken string `env:"DISCORD_TOKEN"`

	AIProvider    string `env:"AI_PROVIDER" envDefault:"gemini"`
	GeminiAPIKey  string `env:"GEMINI_API_KEY"`
	GeminiAPIURL  string `env:"GEMINI_API_URL" envDefault:"https://generativelanguage.googleapis.com/v1beta/models"`
	GeminiModel   string `env:"GEMINI_MODEL" envDefault:"gemini-2.0-flash"`
	OpenAIAPIKey  string `env:"OPENAI_API_KEY"`
	OpenAIBaseURL string `env:"OPENAI_BASE_URL"`
	OpenAIModel   string `env:"OPENAI_MODEL" envDefault:"gpt-4o"`

	BotName        string `env:"BOT_NAME" envDefault:"Shiva"`
	BotOwner       string `env:"BOT_OWNER" envDefault:"xcho_"`
	BotTone        string `env:"BOT_TONE" envDefault:"playful, a little sarcastic, but always helpful"`
	BotAvatarURL   string `env:"BOT_AVATAR_URL"`
	PersonaEnabled bool   `env:"PERSONA_ENABLED" envDefault:"true"`
	PersonaFile    string `env:"PERSONA_FILE"`

	DatabasePath        string        `env:"DATABASE_PATH" envDefault:"shiva.db"`
	HistoryCapacity     int           `env:"HISTORY_CAPACITY" envDefault:"10"`
	HistoryMaxChannels  int           `env:"HISTORY_MAX_CHANNELS" envDefault:"10000"`
	ActivationTTL       time.Duration `env:"ACTIVATION_TTL" envDefault:"5m"`
	ActivationCacheSize int           `env:"ACTIVATION_CACHE_SIZE" envDefault:"10000"`

	HTTPTimeout     time.Duration `env:"HTTP_TIMEOUT" envDefault:"60s"`
	MaxOutputTokens int           `env:"MAX_OUTPUT_TOKENS" envDefault:"800"`
	Temperature     float64       `env:"TEMPERATURE" envDefault:"0.7"`

	HeartbeatURL string `env:"HEARTBEAT_URL"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
}

// LoadConfig loads environment variables from .env file and returns a Config struct
func LoadConfig() (*Config, error) {
	// Try to load .env file (optional - may not exist in production)
	_ = godotenv.Load(".env")

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	return config, nil
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.DiscordToken == "" {
		return NewConfigError("DISCORD_TOKEN", "environment variable is required")
	}

	switch c.AIProvider {
	case ProviderGemini:
		if c.GeminiAPIKey == "" {
			return NewConfigError("GEMINI_API_KEY", "required when AI_PROVIDER is gemini")
		}
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return NewConfigError("OPENAI_API_KEY", "required when AI_PROVIDER is openai")
		}
	default:
		return NewConfigError("AI_PROVIDER", fmt.Sprintf("unsupported provider %q", c.AIProvider))
	}

	return c.ValidateStorage()
}

// ValidateStorage checks only the settings needed to open the channel database
// and size the in-memory caches.
func (c *Config) ValidateStorage() error {
	if c.DatabasePath == "" {
		return NewConfigError("DATABASE_PATH", "cannot be empty")
	}

	if c.HistoryCapacity <= 0 {
		return NewConfigError("HISTORY_CAPACITY", "must be positive")
	}

	if c.HistoryMaxChannels <= 0 {
		return NewConfigError("HISTORY_MAX_CHANNELS", "must be positive")
	}

	if c.ActivationTTL <= 0 {
		return NewConfigError("ACTIVATION_TTL", "must be positive")
	}

	if c.ActivationCacheSize <= 0 {
		return NewConfigError("ACTIVATION_CACHE_SIZE", "must be positive")
	}

	return nil
}
