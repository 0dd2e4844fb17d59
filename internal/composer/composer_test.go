package composer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dmetrikx/shiva/internal/ai"
	"github.com/Dmetrikx/shiva/internal/conversation"
	"github.com/Dmetrikx/shiva/internal/persona"
)

type fakeClient struct {
	answer string
	err    error
	got    *ai.Request
}

func (f *fakeClient) GenerateContent(ctx context.Context, req *ai.Request) (string, error) {
	f.got = req
	return f.answer, f.err
}

type fixedRand struct {
	float float64
}

func (r fixedRand) Float64() float64 { return r.float }
func (r fixedRand) IntN(n int) int   { return 0 }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestComposer(t *testing.T, client ai.Client, transform *persona.Transformer) (*Composer, *conversation.Store) {
	t.Helper()
	history, err := conversation.NewStore(conversation.DefaultCapacity, 100)
	require.NoError(t, err)
	c := New(client, history, transform, Options{BotName: "Shiva", Owner: "xcho_", Tone: "playful"}, quietLogger())
	return c, history
}

func TestComposeReplyBuildsRequestInOrder(t *testing.T) {
	client := &fakeClient{answer: "sure"}
	c, history := newTestComposer(t, client, nil)
	history.Append("c1", conversation.RoleUser, "earlier question")
	history.Append("c1", conversation.RoleBot, "earlier answer")

	got := c.ComposeReply(context.Background(), "new question", "c1", "alice")

	assert.Equal(t, "sure", got)
	require.NotNil(t, client.got)
	contents := client.got.Contents
	require.Len(t, contents, 5)

	assert.Equal(t, ai.RoleUser, contents[0].Role)
	assert.Contains(t, contents[0].Parts[0].Text, "You are Shiva")
	assert.Contains(t, contents[0].Parts[0].Text, "alice")
	assert.Equal(t, ai.RoleModel, contents[1].Role)
	assert.Equal(t, ai.Content{Role: ai.RoleUser, Parts: []ai.Part{{Text: "earlier question"}}}, contents[2])
	assert.Equal(t, ai.Content{Role: ai.RoleModel, Parts: []ai.Part{{Text: "earlier answer"}}}, contents[3])
	assert.Equal(t, ai.Content{Role: ai.RoleUser, Parts: []ai.Part{{Text: "new question"}}}, contents[4])

	assert.Equal(t, ai.DefaultGenerationConfig(), client.got.GenerationConfig)
}

func TestComposeReplyDoesNotRecordHistory(t *testing.T) {
	c, history := newTestComposer(t, &fakeClient{answer: "ok"}, nil)

	c.ComposeReply(context.Background(), "hi", "c1", "alice")

	assert.Empty(t, history.Get("c1"))
}

func TestComposeVisionPutsImagesBeforePrompt(t *testing.T) {
	client := &fakeClient{answer: "a cat"}
	c, _ := newTestComposer(t, client, nil)
	images := []ai.InlineData{
		{MimeType: "image/png", Data: "AAA="},
		{MimeType: "image/jpeg", Data: "BBB="},
	}

	got := c.ComposeVision(context.Background(), "", "c1", "alice", images)

	assert.Equal(t, "a cat", got)
	last := client.got.Contents[len(client.got.Contents)-1]
	require.Len(t, last.Parts, 3)
	assert.Equal(t, "image/png", last.Parts[0].InlineData.MimeType)
	assert.Equal(t, "image/jpeg", last.Parts[1].InlineData.MimeType)
	assert.Equal(t, DefaultVisionPrompt, last.Parts[2].Text)
}

func TestComposeFallbacks(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"empty response", ai.NewAPIError("Gemini", 200, "no response", ai.ErrEmptyResponse), NoAnswerReply},
		{"transport error", errors.New("connection refused"), ErrorReply},
		{"http error", ai.NewAPIError("Gemini", 500, "boom", nil), ErrorReply},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transform := persona.NewTransformer(persona.DefaultPools(), fixedRand{float: 0})
			c, _ := newTestComposer(t, &fakeClient{err: tt.err}, transform)

			assert.Equal(t, tt.want, c.ComposeReply(context.Background(), "hi", "c1", "alice"))
		})
	}
}

func TestComposeAppliesPersonaTransform(t *testing.T) {
	pools := persona.Pools{Intros: []string{"Hey."}, Outros: []string{"Bye."}, Refusals: []string{"Nope."}}

	wrapped, _ := newTestComposer(t, &fakeClient{answer: "42"}, persona.NewTransformer(pools, fixedRand{float: 0.2}))
	assert.Equal(t, "Hey.\n\n42\n\nBye.", wrapped.ComposeReply(context.Background(), "q", "c1", "alice"))

	refused, _ := newTestComposer(t, &fakeClient{answer: "42"}, persona.NewTransformer(pools, fixedRand{float: 0.9}))
	assert.Equal(t, "Nope.", refused.ComposeReply(context.Background(), "q", "c1", "alice"))
}
