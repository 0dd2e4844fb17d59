package bot

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dmetrikx/shiva/internal/activation"
	"github.com/Dmetrikx/shiva/internal/ai"
	"github.com/Dmetrikx/shiva/internal/canned"
	"github.com/Dmetrikx/shiva/internal/conversation"
	"github.com/Dmetrikx/shiva/internal/media"
	"github.com/Dmetrikx/shiva/internal/store"
)

type fakeComposer struct {
	mu          sync.Mutex
	reply       string
	panicMsg    string
	textCalls   []string
	visionCalls int
	visionImgs  []ai.InlineData
}

func (f *fakeComposer) ComposeReply(ctx context.Context, prompt, channelID, username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.textCalls = append(f.textCalls, prompt)
	return f.reply
}

func (f *fakeComposer) ComposeVision(ctx context.Context, prompt, channelID, username string, images []ai.InlineData) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visionCalls++
	f.visionImgs = images
	return f.reply
}

type fakeImages struct {
	images []ai.InlineData
	got    []media.Attachment
}

func (f *fakeImages) DownloadImages(ctx context.Context, attachments []media.Attachment) []ai.InlineData {
	f.got = attachments
	return f.images
}

type harness struct {
	bot      *Bot
	session  *mockDiscordSession
	composer *fakeComposer
	images   *fakeImages
	history  *conversation.Store
	store    *store.Store
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(t.TempDir(), "shiva.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	history, err := conversation.NewStore(conversation.DefaultCapacity, 100)
	require.NoError(t, err)

	h := &harness{
		session:  &mockDiscordSession{},
		composer: &fakeComposer{reply: "ai reply"},
		images:   &fakeImages{},
		history:  history,
		store:    st,
	}
	h.bot = NewBot(h.session, Deps{
		Gate:       canned.NewGate(canned.DefaultBotName, canned.DefaultOwner),
		Activation: activation.NewCache(st, time.Minute, 100, logger),
		History:    history,
		Composer:   h.composer,
		Images:     h.images,
		Channels:   st,
	}, Options{}, logger)
	return h
}

func (h *harness) enable(t *testing.T, guildID, channelID string) {
	t.Helper()
	require.NoError(t, h.store.EnableChannel(context.Background(), guildID, channelID, "admin"))
}

func guildMessage(content string) *discordgo.Message {
	return &discordgo.Message{
		ID:        "m1",
		GuildID:   "g1",
		ChannelID: "c1",
		Content:   content,
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
	}
}

func TestHandleMessageIgnoresBotsAndDMs(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")

	fromBot := guildMessage("who owns you?")
	fromBot.Author.Bot = true
	h.bot.handleMessage(context.Background(), fromBot)

	dm := guildMessage("who owns you?")
	dm.GuildID = ""
	h.bot.handleMessage(context.Background(), dm)

	noAuthor := guildMessage("hello")
	noAuthor.Author = nil
	h.bot.handleMessage(context.Background(), noAuthor)

	h.bot.handleMessage(context.Background(), guildMessage("   "))

	assert.Empty(t, h.session.contents())
	assert.Empty(t, h.composer.textCalls)
}

func TestCannedAnswerPrecedesActivation(t *testing.T) {
	h := newHarness(t)

	h.bot.handleMessage(context.Background(), guildMessage("who owns you?"))

	assert.Equal(t, []string{"My owner is xcho_."}, h.session.contents())
	assert.Equal(t, "m1", h.session.sentMessages[0].replyTo)
	assert.Empty(t, h.history.Get("c1"), "canned answers are not recorded")
	assert.Empty(t, h.composer.textCalls)
	assert.Zero(t, h.session.typing)
}

func TestInactiveChannelIsSilent(t *testing.T) {
	h := newHarness(t)

	h.bot.handleMessage(context.Background(), guildMessage("tell me a joke"))

	assert.Empty(t, h.session.contents())
	assert.Empty(t, h.composer.textCalls)
	assert.Zero(t, h.session.typing)
}

func TestTextPathRecordsHistoryAndReplies(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")

	h.bot.handleMessage(context.Background(), guildMessage("tell me a joke"))

	assert.Equal(t, 1, h.session.typing)
	assert.Equal(t, []string{"tell me a joke"}, h.composer.textCalls)
	assert.Equal(t, []string{"ai reply"}, h.session.contents())
	assert.Equal(t, []conversation.Turn{
		{Role: conversation.RoleUser, Text: "tell me a joke"},
		{Role: conversation.RoleBot, Text: "ai reply"},
	}, h.history.Get("c1"))
}

func TestTextPathChunksLongReplies(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")
	h.composer.reply = strings.Repeat("z", 4500)

	h.bot.handleMessage(context.Background(), guildMessage("write an essay"))

	sent := h.session.contents()
	require.Len(t, sent, 3)
	assert.Len(t, sent[0], 2000)
	assert.Len(t, sent[1], 2000)
	assert.Len(t, sent[2], 500)
}

func TestImageAttachmentUsesVisionPath(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")
	h.images.images = []ai.InlineData{{MimeType: "image/png", Data: "AAA="}}

	msg := guildMessage("what is this?")
	msg.Attachments = []*discordgo.MessageAttachment{
		{URL: "https://cdn/a.png", ContentType: "image/png"},
		{URL: "https://cdn/notes.txt", ContentType: "text/plain"},
	}
	h.bot.handleMessage(context.Background(), msg)

	assert.Equal(t, 1, h.composer.visionCalls)
	assert.Empty(t, h.composer.textCalls)
	assert.Equal(t, []media.Attachment{{URL: "https://cdn/a.png", ContentType: "image/png"}}, h.images.got)
	assert.Equal(t, []string{"ai reply"}, h.session.contents())
	assert.Empty(t, h.history.Get("c1"))
}

func TestFailedImagesFallBackToTextPath(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")

	msg := guildMessage("what is this?")
	msg.Attachments = []*discordgo.MessageAttachment{{URL: "https://cdn/a.png", ContentType: "image/png"}}
	h.bot.handleMessage(context.Background(), msg)

	assert.Zero(t, h.composer.visionCalls)
	assert.Equal(t, []string{"what is this?"}, h.composer.textCalls)
}

func TestFailedImagesWithoutTextApologize(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")

	msg := guildMessage("")
	msg.Attachments = []*discordgo.MessageAttachment{{URL: "https://cdn/a.png", ContentType: "image/png"}}
	h.bot.handleMessage(context.Background(), msg)

	assert.Equal(t, []string{GenericErrorReply}, h.session.contents())
}

func TestPanicIsConvertedToApology(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")
	h.composer.panicMsg = "boom"

	assert.NotPanics(t, func() {
		h.bot.handleMessage(context.Background(), guildMessage("hello"))
	})
	assert.Equal(t, []string{GenericErrorReply}, h.session.contents())
}

func TestSendFailureIsConvertedToApology(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")
	h.session.failSendAt = 1

	h.bot.handleMessage(context.Background(), guildMessage("hello"))

	assert.Equal(t, []string{GenericErrorReply}, h.session.contents())
}

func TestNonImageAttachmentWithoutTextIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")

	msg := guildMessage("")
	msg.Attachments = []*discordgo.MessageAttachment{{URL: "https://cdn/report.pdf", ContentType: "application/pdf"}}
	h.bot.handleMessage(context.Background(), msg)

	assert.Empty(t, h.composer.textCalls)
	assert.Zero(t, h.composer.visionCalls)
	assert.Empty(t, h.session.contents())
	assert.Zero(t, h.session.typing)
	assert.Empty(t, h.history.Get("c1"))

	// The next message in the channel is unaffected.
	h.bot.handleMessage(context.Background(), guildMessage("hello"))
	assert.Equal(t, []conversation.Turn{
		{Role: conversation.RoleUser, Text: "hello"},
		{Role: conversation.RoleBot, Text: "ai reply"},
	}, h.history.Get("c1"))
}

func TestNonImageAttachmentWithTextUsesTextPath(t *testing.T) {
	h := newHarness(t)
	h.enable(t, "g1", "c1")

	msg := guildMessage("summarize this")
	msg.Attachments = []*discordgo.MessageAttachment{{URL: "https://cdn/report.pdf", ContentType: "application/pdf"}}
	h.bot.handleMessage(context.Background(), msg)

	assert.Equal(t, []string{"summarize this"}, h.composer.textCalls)
	assert.Nil(t, h.images.got)
	assert.Equal(t, []string{"ai reply"}, h.session.contents())
}
