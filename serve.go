package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dmetrikx/shiva/internal/activation"
	"github.com/Dmetrikx/shiva/internal/ai"
	"github.com/Dmetrikx/shiva/internal/bot"
	"github.com/Dmetrikx/shiva/internal/canned"
	"github.com/Dmetrikx/shiva/internal/composer"
	"github.com/Dmetrikx/shiva/internal/config"
	"github.com/Dmetrikx/shiva/internal/conversation"
	"github.com/Dmetrikx/shiva/internal/discord"
	"github.com/Dmetrikx/shiva/internal/logging"
	"github.com/Dmetrikx/shiva/internal/media"
	"github.com/Dmetrikx/shiva/internal/persona"
	"github.com/Dmetrikx/shiva/internal/store"
)

// runServe wires every service, starts the bot and blocks until SIGINT/SIGTERM
func runServe(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := logging.NewLogger(cfg.LogLevel, cfg.LogFormat)

	if err := cfg.Validate(); err != nil {
		logger.ErrorContext(ctx, "invalid configuration", "error", err)
		return err
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	st, err := store.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open channel store: %w", err)
	}
	defer st.Close()

	history, err := conversation.NewStore(cfg.HistoryCapacity, cfg.HistoryMaxChannels)
	if err != nil {
		return fmt.Errorf("create conversation store: %w", err)
	}

	client, err := ai.NewClient(ai.Options{
		Provider:      cfg.AIProvider,
		GeminiAPIKey:  cfg.GeminiAPIKey,
		GeminiAPIURL:  cfg.GeminiAPIURL,
		GeminiModel:   cfg.GeminiModel,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		OpenAIModel:   cfg.OpenAIModel,
	}, httpClient, logger)
	if err != nil {
		return fmt.Errorf("create AI client: %w", err)
	}

	transform, err := newTransformer(cfg)
	if err != nil {
		return err
	}

	genConfig := ai.DefaultGenerationConfig()
	genConfig.MaxOutputTokens = cfg.MaxOutputTokens
	genConfig.Temperature = cfg.Temperature

	comp := composer.New(client, history, transform, composer.Options{
		BotName:          cfg.BotName,
		Owner:            cfg.BotOwner,
		Tone:             cfg.BotTone,
		GenerationConfig: genConfig,
	}, logger)

	session, err := discord.NewDiscordSession(cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("create Discord session: %w", err)
	}

	b := bot.NewBot(session, bot.Deps{
		Gate:       canned.NewGate(cfg.BotName, cfg.BotOwner),
		Activation: activation.NewCache(st, cfg.ActivationTTL, cfg.ActivationCacheSize, logger),
		History:    history,
		Composer:   comp,
		Images:     media.NewDownloader(httpClient, logger),
		Channels:   st,
	}, bot.Options{
		HeartbeatURL: cfg.HeartbeatURL,
		AvatarURL:    cfg.BotAvatarURL,
		HTTPClient:   httpClient,
	}, logger)

	if err := b.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "failed to start bot", "error", err)
		return err
	}

	logger.InfoContext(ctx, "bot is now running, press CTRL-C to exit",
		"provider", cfg.AIProvider,
		"persona_enabled", cfg.PersonaEnabled)

	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-sigCtx.Done()

	logger.InfoContext(ctx, "shutting down bot")
	return b.Close(context.Background())
}

// newTransformer returns nil when the persona transform is disabled
func newTransformer(cfg *config.Config) (*persona.Transformer, error) {
	if !cfg.PersonaEnabled {
		return nil, nil
	}

	pools := persona.DefaultPools()
	if cfg.PersonaFile != "" {
		loaded, err := persona.LoadPools(cfg.PersonaFile)
		if err != nil {
			return nil, err
		}
		pools = loaded
	}
	return persona.NewTransformer(pools, nil), nil
}
