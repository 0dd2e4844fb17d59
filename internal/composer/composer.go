// Package composer builds generate requests from channel history and turns
// provider answers into user-facing replies.
package composer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/Dmetrikx/shiva/internal/ai"
	"github.com/Dmetrikx/shiva/internal/conversation"
	"github.com/Dmetrikx/shiva/internal/persona"
)

// Fixed replies used when the provider gives nothing usable
const (
	NoAnswerReply = "Sorry, I couldn't generate a response at this time."
	ErrorReply    = "Sorry, I encountered an error processing your request."
)

// DefaultVisionPrompt is used when an image arrives without text
const DefaultVisionPrompt = "What do you think of this image?"

// Options configure the persona and sampling of every request
type Options struct {
	BotName          string
	Owner            string
	Tone             string
	GenerationConfig ai.GenerationConfig
}

// Composer assembles requests and post-processes answers. It only reads
// history; callers record turns.
type Composer struct {
	client    ai.Client
	history   *conversation.Store
	transform *persona.Transformer
	opts      Options
	logger    *slog.Logger
}

// New creates a composer. transform may be nil to return answers unchanged.
func New(client ai.Client, history *conversation.Store, transform *persona.Transformer, opts Options, logger *slog.Logger) *Composer {
	if opts.GenerationConfig == (ai.GenerationConfig{}) {
		opts.GenerationConfig = ai.DefaultGenerationConfig()
	}
	return &Composer{
		client:    client,
		history:   history,
		transform: transform,
		opts:      opts,
		logger:    logger,
	}
}

// ComposeReply answers a text prompt using the channel's history
func (c *Composer) ComposeReply(ctx context.Context, prompt, channelID, username string) string {
	req := c.buildRequest(channelID, username, []ai.Part{ai.TextPart(prompt)})
	return c.generate(ctx, req, channelID)
}

// ComposeVision answers a prompt about one or more images
func (c *Composer) ComposeVision(ctx context.Context, prompt, channelID, username string, images []ai.InlineData) string {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultVisionPrompt
	}

	parts := make([]ai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, ai.ImagePart(img))
	}
	parts = append(parts, ai.TextPart(prompt))

	req := c.buildRequest(channelID, username, parts)
	return c.generate(ctx, req, channelID)
}

// buildRequest lays out the persona priming pair, the channel history and the
// new user turn, in that order.
func (c *Composer) buildRequest(channelID, username string, final []ai.Part) *ai.Request {
	turns := c.history.Get(channelID)

	contents := make([]ai.Content, 0, len(turns)+3)
	contents = append(contents,
		ai.Content{
			Role:  ai.RoleUser,
			Parts: []ai.Part{ai.TextPart(persona.SystemPrompt(c.opts.BotName, c.opts.Owner, c.opts.Tone, username))},
		},
		ai.Content{
			Role:  ai.RoleModel,
			Parts: []ai.Part{ai.TextPart(persona.Acknowledgement)},
		},
	)

	for _, turn := range turns {
		role := ai.RoleUser
		if turn.Role == conversation.RoleBot {
			role = ai.RoleModel
		}
		contents = append(contents, ai.Content{Role: role, Parts: []ai.Part{ai.TextPart(turn.Text)}})
	}

	contents = append(contents, ai.Content{Role: ai.RoleUser, Parts: final})

	return &ai.Request{
		Contents:         contents,
		GenerationConfig: c.opts.GenerationConfig,
	}
}

func (c *Composer) generate(ctx context.Context, req *ai.Request, channelID string) string {
	answer, err := c.client.GenerateContent(ctx, req)
	if errors.Is(err, ai.ErrEmptyResponse) {
		c.logger.WarnContext(ctx, "AI returned no usable answer", "channel_id", channelID, "error", err)
		return NoAnswerReply
	}
	if err != nil {
		c.logger.ErrorContext(ctx, "AI request failed", "channel_id", channelID, "error", err)
		return ErrorReply
	}

	if c.transform != nil {
		return c.transform.Apply(answer)
	}
	return answer
}
