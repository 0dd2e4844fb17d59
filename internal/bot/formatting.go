package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// splitMessage cuts response into consecutive chunks of at most limit characters
func splitMessage(response string, limit int) []string {
	runes := []rune(response)
	var chunks []string
	for i := 0; i < len(runes); i += limit {
		end := i + limit
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// sendLongResponse replies to m in chunks that respect Discord's message length
// limit. Chunks are sent in order; the first failure stops the rest.
func (b *Bot) sendLongResponse(ctx context.Context, m *discordgo.Message, response string) error {
	for i, chunk := range splitMessage(response, MaxDiscordMessageLength) {
		_, err := b.session.ChannelMessageSendReply(m.ChannelID, chunk, m.Reference())
		if err != nil {
			b.logger.ErrorContext(ctx, "failed to send message chunk",
				"channel_id", m.ChannelID,
				"chunk_index", i,
				"error", err)
			return fmt.Errorf("send chunk %d: %w", i, err)
		}
	}
	return nil
}
