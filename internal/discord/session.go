package discord

import (
	"github.com/bwmarrin/discordgo"
)

// Session defines the Discord session operations the bot relies on
type Session interface {
	// Open opens a websocket connection to Discord
	Open() error

	// Close closes the websocket connection to Discord
	Close() error

	// User returns a user; "@me" is the bot account
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)

	// ChannelMessageSendReply sends a message as a reply to another message
	ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error)

	// ChannelTyping shows the typing indicator in a channel
	ChannelTyping(channelID string, options ...discordgo.RequestOption) error

	// UserChannelPermissions returns a user's permission bits in a channel
	UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error)

	// AddHandler adds an event handler
	AddHandler(handler interface{}) func()
}

// DiscordSession wraps discordgo.Session to implement the Session interface
type DiscordSession struct {
	*discordgo.Session
}

// NewDiscordSession creates a bot session that receives guild message content
func NewDiscordSession(token string) (*DiscordSession, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}

	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent

	return &DiscordSession{Session: session}, nil
}
