package bot

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/Dmetrikx/shiva/internal/activation"
	"github.com/Dmetrikx/shiva/internal/ai"
	"github.com/Dmetrikx/shiva/internal/canned"
	"github.com/Dmetrikx/shiva/internal/conversation"
	"github.com/Dmetrikx/shiva/internal/discord"
	"github.com/Dmetrikx/shiva/internal/heartbeat"
	"github.com/Dmetrikx/shiva/internal/media"
)

// ReplyComposer turns prompts into reply text
type ReplyComposer interface {
	ComposeReply(ctx context.Context, prompt, channelID, username string) string
	ComposeVision(ctx context.Context, prompt, channelID, username string, images []ai.InlineData) string
}

// ImageFetcher downloads image attachments, skipping the ones that fail
type ImageFetcher interface {
	DownloadImages(ctx context.Context, attachments []media.Attachment) []ai.InlineData
}

// ChannelRegistry persists per-channel AI chat activation
type ChannelRegistry interface {
	EnableChannel(ctx context.Context, guildID, channelID, enabledBy string) error
	DisableChannel(ctx context.Context, guildID, channelID string) error
}

// Deps are the services the bot dispatches to
type Deps struct {
	Gate       *canned.Gate
	Activation *activation.Cache
	History    *conversation.Store
	Composer   ReplyComposer
	Images     ImageFetcher
	Channels   ChannelRegistry
}

// Options hold the startup announcement settings
type Options struct {
	HeartbeatURL string
	AvatarURL    string
	HTTPClient   *http.Client
}

// Bot represents the Discord bot
type Bot struct {
	session    discord.Session
	gate       *canned.Gate
	activation *activation.Cache
	history    *conversation.Store
	composer   ReplyComposer
	images     ImageFetcher
	channels   ChannelRegistry
	opts       Options
	logger     *slog.Logger
}

// NewBot creates a new bot instance and registers its message handler
func NewBot(session discord.Session, deps Deps, opts Options, logger *slog.Logger) *Bot {
	bot := &Bot{
		session:    session,
		gate:       deps.Gate,
		activation: deps.Activation,
		history:    deps.History,
		composer:   deps.Composer,
		images:     deps.Images,
		channels:   deps.Channels,
		opts:       opts,
		logger:     logger,
	}

	// Register message handler
	session.AddHandler(bot.messageHandler)

	return bot
}

// Start opens the gateway connection and announces the bot
func (b *Bot) Start(ctx context.Context) error {
	err := b.session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection: %w", err)
	}

	user, err := b.session.User("@me")
	if err != nil {
		if closeErr := b.session.Close(); closeErr != nil {
			b.logger.ErrorContext(ctx, "failed to close session", "error", closeErr)
		}
		return fmt.Errorf("error obtaining account details: %w", err)
	}

	b.logger.InfoContext(ctx, "bot started",
		"username", user.Username,
		"user_id", user.ID)

	avatar := b.opts.AvatarURL
	if avatar == "" {
		avatar = user.AvatarURL("")
	}
	heartbeat.Go(ctx, b.opts.HTTPClient, b.opts.HeartbeatURL, heartbeat.Status{
		Name:      user.Username,
		AvatarURL: avatar,
		Timestamp: time.Now().UTC(),
	}, b.logger)

	return nil
}

// Close closes the bot session
func (b *Bot) Close(ctx context.Context) error {
	b.logger.InfoContext(ctx, "closing bot session")
	return b.session.Close()
}

// messageHandler adapts discordgo's callback to handleMessage
func (b *Bot) messageHandler(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m == nil {
		return
	}
	b.handleMessage(context.Background(), m.Message)
}
