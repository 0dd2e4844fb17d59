package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"

	"github.com/Dmetrikx/shiva/internal/conversation"
	"github.com/Dmetrikx/shiva/internal/media"
)

// handleMessage runs one inbound message through the pipeline. Each step may
// end handling: sender checks, admin commands, canned answers, channel
// activation, then the vision or text reply.
func (b *Bot) handleMessage(ctx context.Context, m *discordgo.Message) {
	if m == nil || m.Author == nil || m.Author.Bot {
		return
	}
	if m.GuildID == "" || m.ChannelID == "" {
		return
	}
	if strings.TrimSpace(m.Content) == "" && len(m.Attachments) == 0 {
		return
	}

	logger := b.logger.With(
		"request_id", uuid.NewString(),
		"guild_id", m.GuildID,
		"channel_id", m.ChannelID,
		"user_id", m.Author.ID)

	if args, ok := parseCommand(m.Content); ok {
		b.handleAIChatCommand(ctx, logger, m, args)
		return
	}

	if answer, ok := b.gate.Classify(m.Content); ok {
		logger.InfoContext(ctx, "answering with canned reply", "category", answer.Category)
		if err := b.sendLongResponse(ctx, m, answer.Reply); err != nil {
			logger.ErrorContext(ctx, "failed to send canned reply", "error", err)
		}
		return
	}

	if !b.activation.IsActive(ctx, m.ChannelID, m.GuildID) {
		return
	}

	if err := b.respond(ctx, logger, m); err != nil {
		logger.ErrorContext(ctx, "failed to respond", "error", err)
		if _, sendErr := b.session.ChannelMessageSendReply(m.ChannelID, GenericErrorReply, m.Reference()); sendErr != nil {
			logger.ErrorContext(ctx, "failed to send error reply", "error", sendErr)
		}
	}
}

// respond produces and sends the AI reply. Panics are converted to errors so
// the caller can answer with the generic apology.
func (b *Bot) respond(ctx context.Context, logger *slog.Logger, m *discordgo.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while responding: %v", r)
		}
	}()

	attachments := imageAttachments(m.Attachments)
	if len(attachments) == 0 && strings.TrimSpace(m.Content) == "" {
		logger.DebugContext(ctx, "ignoring message without text or images", "attachments", len(m.Attachments))
		return nil
	}

	if typingErr := b.session.ChannelTyping(m.ChannelID); typingErr != nil {
		logger.WarnContext(ctx, "failed to send typing indicator", "error", typingErr)
	}

	username := displayName(m.Author)

	if len(attachments) > 0 {
		images := b.images.DownloadImages(ctx, attachments)
		if len(images) > 0 {
			logger.InfoContext(ctx, "composing vision reply", "images", len(images))
			reply := b.composer.ComposeVision(ctx, m.Content, m.ChannelID, username, images)
			return b.sendLongResponse(ctx, m, reply)
		}
		logger.WarnContext(ctx, "no image attachment could be downloaded", "attachments", len(attachments))
		if strings.TrimSpace(m.Content) == "" {
			return fmt.Errorf("all %d image downloads failed", len(attachments))
		}
	}

	logger.InfoContext(ctx, "composing text reply", "prompt_length", len(m.Content))
	b.history.Append(m.ChannelID, conversation.RoleUser, m.Content)
	reply := b.composer.ComposeReply(ctx, m.Content, m.ChannelID, username)
	b.history.Append(m.ChannelID, conversation.RoleBot, reply)

	return b.sendLongResponse(ctx, m, reply)
}

// imageAttachments keeps the attachments whose content type is an image
func imageAttachments(attachments []*discordgo.MessageAttachment) []media.Attachment {
	var out []media.Attachment
	for _, a := range attachments {
		if a == nil || !media.IsImage(a.ContentType) {
			continue
		}
		out = append(out, media.Attachment{URL: a.URL, ContentType: a.ContentType})
	}
	return out
}

// displayName prefers the user's global display name over the username
func displayName(u *discordgo.User) string {
	if u.GlobalName != "" {
		return u.GlobalName
	}
	return u.Username
}
