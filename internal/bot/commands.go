package bot

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/Dmetrikx/shiva/internal/store"
)

const managePermissions = discordgo.PermissionManageChannels | discordgo.PermissionAdministrator

// parseCommand recognizes "!aichat ..." and returns its arguments
func parseCommand(content string) ([]string, bool) {
	parts := strings.Fields(content)
	if len(parts) == 0 || !strings.EqualFold(parts[0], CommandPrefix+AIChatCommand) {
		return nil, false
	}
	return parts[1:], true
}

// handleAIChatCommand toggles or reports AI chat for the current channel
func (b *Bot) handleAIChatCommand(ctx context.Context, logger *slog.Logger, m *discordgo.Message, args []string) {
	if len(args) != 1 {
		b.sendCommandReply(ctx, logger, m, AIChatUsageReply)
		return
	}

	action := strings.ToLower(args[0])
	if action == "status" {
		reply := AIChatStatusOff
		if b.activation.IsActive(ctx, m.ChannelID, m.GuildID) {
			reply = AIChatStatusOnReply
		}
		b.sendCommandReply(ctx, logger, m, reply)
		return
	}

	if action != "on" && action != "off" {
		b.sendCommandReply(ctx, logger, m, AIChatUsageReply)
		return
	}

	if !b.canManageChannel(ctx, logger, m) {
		b.sendCommandReply(ctx, logger, m, PermissionReply)
		return
	}

	logger.InfoContext(ctx, "received command",
		"command", AIChatCommand,
		"action", action,
		"username", m.Author.Username)

	var (
		reply string
		err   error
	)
	if action == "on" {
		err = b.channels.EnableChannel(ctx, m.GuildID, m.ChannelID, m.Author.ID)
		reply = AIChatEnabledReply
	} else {
		err = b.channels.DisableChannel(ctx, m.GuildID, m.ChannelID)
		reply = AIChatDisabledReply
		if errors.Is(err, store.ErrNotFound) {
			err = nil
			reply = AIChatNotOnReply
		}
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to update channel activation", "action", action, "error", err)
		b.sendCommandReply(ctx, logger, m, GenericErrorReply)
		return
	}

	b.activation.Forget(m.ChannelID, m.GuildID)
	b.sendCommandReply(ctx, logger, m, reply)
}

func (b *Bot) canManageChannel(ctx context.Context, logger *slog.Logger, m *discordgo.Message) bool {
	perms, err := b.session.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to fetch permissions", "error", err)
		return false
	}
	return perms&managePermissions != 0
}

func (b *Bot) sendCommandReply(ctx context.Context, logger *slog.Logger, m *discordgo.Message, reply string) {
	if err := b.sendLongResponse(ctx, m, reply); err != nil {
		logger.ErrorContext(ctx, "failed to send command reply", "error", err)
	}
}
