package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// GeminiClient calls the generateContent endpoint of the Gemini API
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGeminiClient creates a Gemini client. baseURL and model fall back to the
// public endpoint and DefaultGeminiModel when empty.
func NewGeminiClient(apiKey, baseURL, model string, httpClient *http.Client, logger *slog.Logger) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultGeminiAPIURL
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: httpClient,
		logger:     logger,
	}
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (c *GeminiClient) endpoint() string {
	return fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, url.QueryEscape(c.apiKey))
}

// GenerateContent sends a generateContent request and returns the first candidate's text
func (c *GeminiClient) GenerateContent(ctx context.Context, req *Request) (string, error) {
	if c.apiKey == "" {
		return "", NewValidationError("GEMINI_API_KEY", "environment variable not set")
	}

	c.logger.InfoContext(ctx, "sending AI request",
		"provider", ProviderGemini,
		"model", c.model,
		"contents", len(req.Contents),
		"max_tokens", req.GenerationConfig.MaxOutputTokens)

	jsonData, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(), bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.ErrorContext(ctx, "Gemini API request failed", "error", err)
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		c.logger.ErrorContext(ctx, "Gemini API error",
			"status_code", resp.StatusCode,
			"response_body", string(body))
		return "", NewAPIError("Gemini", resp.StatusCode, string(body), nil)
	}

	var result geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", NewAPIError("Gemini", resp.StatusCode, "invalid response format from Gemini", ErrEmptyResponse)
	}

	if len(result.Candidates) == 0 ||
		result.Candidates[0].Content == nil ||
		len(result.Candidates[0].Content.Parts) == 0 ||
		result.Candidates[0].Content.Parts[0].Text == nil {
		c.logger.ErrorContext(ctx, "no response from Gemini")
		return "", NewAPIError("Gemini", resp.StatusCode, "no response from Gemini", ErrEmptyResponse)
	}

	content := *result.Candidates[0].Content.Parts[0].Text
	c.logger.InfoContext(ctx, "received Gemini response",
		"response_length", len(content))

	return content, nil
}
