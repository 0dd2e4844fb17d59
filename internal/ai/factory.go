package ai

import (
	"log/slog"
	"net/http"
)

// Options selects and configures a backend
type Options struct {
	Provider      string
	GeminiAPIKey  string
	GeminiAPIURL  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
}

// NewClient builds the client for opts.Provider
func NewClient(opts Options, httpClient *http.Client, logger *slog.Logger) (Client, error) {
	switch opts.Provider {
	case ProviderGemini, "":
		return NewGeminiClient(opts.GeminiAPIKey, opts.GeminiAPIURL, opts.GeminiModel, httpClient, logger), nil
	case ProviderOpenAI:
		if opts.OpenAIAPIKey == "" {
			return nil, NewValidationError("OPENAI_API_KEY", "environment variable not set")
		}
		return NewOpenAIClient(opts.OpenAIAPIKey, opts.OpenAIBaseURL, opts.OpenAIModel, httpClient, logger), nil
	default:
		return nil, NewValidationError("AI_PROVIDER", "unsupported provider "+opts.Provider)
	}
}
