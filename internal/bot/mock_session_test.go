package bot

import (
	"errors"
	"sync"

	"github.com/bwmarrin/discordgo"
)

type sentMessage struct {
	channelID string
	content   string
	replyTo   string
}

// mockDiscordSession is a mock implementation for testing
type mockDiscordSession struct {
	mu           sync.Mutex
	sentMessages []sentMessage
	typing       int
	permissions  int64
	failSendAt   int
	sendCalls    int
	userErr      error
	opened       bool
	closed       bool
}

func (m *mockDiscordSession) Open() error {
	m.opened = true
	return nil
}

func (m *mockDiscordSession) Close() error {
	m.closed = true
	return nil
}

func (m *mockDiscordSession) User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error) {
	if m.userErr != nil {
		return nil, m.userErr
	}
	return &discordgo.User{ID: userID, Username: "testuser"}, nil
}

func (m *mockDiscordSession) ChannelMessageSendReply(channelID string, content string, reference *discordgo.MessageReference, options ...discordgo.RequestOption) (*discordgo.Message, error) {
	replyTo := ""
	if reference != nil {
		replyTo = reference.MessageID
	}
	return m.record(channelID, content, replyTo)
}

func (m *mockDiscordSession) record(channelID, content, replyTo string) (*discordgo.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendCalls++
	if m.failSendAt > 0 && m.sendCalls == m.failSendAt {
		return nil, errors.New("discord unavailable")
	}
	m.sentMessages = append(m.sentMessages, sentMessage{channelID: channelID, content: content, replyTo: replyTo})
	return &discordgo.Message{
		ID:        "msg-id",
		ChannelID: channelID,
		Content:   content,
	}, nil
}

func (m *mockDiscordSession) ChannelTyping(channelID string, options ...discordgo.RequestOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.typing++
	return nil
}

func (m *mockDiscordSession) UserChannelPermissions(userID, channelID string, fetchOptions ...discordgo.RequestOption) (int64, error) {
	return m.permissions, nil
}

func (m *mockDiscordSession) AddHandler(handler interface{}) func() {
	return func() {}
}

func (m *mockDiscordSession) contents() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, 0, len(m.sentMessages))
	for _, s := range m.sentMessages {
		out = append(out, s.content)
	}
	return out
}
