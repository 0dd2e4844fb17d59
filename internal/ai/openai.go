package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIClient talks to any OpenAI compatible chat completions endpoint
type OpenAIClient struct {
	client *openai.Client
	model  string
	logger *slog.Logger
}

// NewOpenAIClient creates a chat completions client. baseURL may point at an
// OpenAI compatible gateway; empty uses api.openai.com.
func NewOpenAIClient(apiKey, baseURL, model string, httpClient *http.Client, logger *slog.Logger) *OpenAIClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}
	if model == "" {
		model = DefaultOpenAIModel
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// GenerateContent maps the request onto a chat completion and returns the first choice
func (c *OpenAIClient) GenerateContent(ctx context.Context, req *Request) (string, error) {
	c.logger.InfoContext(ctx, "sending AI request",
		"provider", ProviderOpenAI,
		"model", c.model,
		"contents", len(req.Contents),
		"max_tokens", req.GenerationConfig.MaxOutputTokens)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   req.GenerationConfig.MaxOutputTokens,
		Temperature: float32(req.GenerationConfig.Temperature),
		TopP:        float32(req.GenerationConfig.TopP),
		Messages:    toChatMessages(req.Contents),
	})
	if err != nil {
		c.logger.ErrorContext(ctx, "OpenAI API error", "error", err)
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", NewAPIError("OpenAI", apiErr.HTTPStatusCode, apiErr.Message, err)
		}
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		c.logger.ErrorContext(ctx, "no response from OpenAI")
		return "", NewAPIError("OpenAI", 0, "no response from OpenAI", ErrEmptyResponse)
	}

	c.logger.InfoContext(ctx, "received OpenAI response",
		"response_length", len(resp.Choices[0].Message.Content),
		"finish_reason", resp.Choices[0].FinishReason)

	return resp.Choices[0].Message.Content, nil
}

// toChatMessages converts content turns into chat messages. Turns that carry
// inline data become multi-part messages with data URLs.
func toChatMessages(contents []Content) []openai.ChatCompletionMessage {
	messages := make([]openai.ChatCompletionMessage, 0, len(contents))
	for _, content := range contents {
		role := openai.ChatMessageRoleUser
		if content.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}

		if !hasInlineData(content.Parts) {
			text := ""
			for _, part := range content.Parts {
				text += part.Text
			}
			messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: text})
			continue
		}

		parts := make([]openai.ChatMessagePart, 0, len(content.Parts))
		for _, part := range content.Parts {
			if part.InlineData != nil {
				parts = append(parts, openai.ChatMessagePart{
					Type: openai.ChatMessagePartTypeImageURL,
					ImageURL: &openai.ChatMessageImageURL{
						URL:    fmt.Sprintf("data:%s;base64,%s", part.InlineData.MimeType, part.InlineData.Data),
						Detail: openai.ImageURLDetailAuto,
					},
				})
				continue
			}
			parts = append(parts, openai.ChatMessagePart{
				Type: openai.ChatMessagePartTypeText,
				Text: part.Text,
			})
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, MultiContent: parts})
	}
	return messages
}

func hasInlineData(parts []Part) bool {
	for _, part := range parts {
		if part.InlineData != nil {
			return true
		}
	}
	return false
}
