package extraction

import (
	"context"
	"errors"
	"testing"

	"chatbot-be/pkg/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	reply   string
	err     error
	prompts []string
	options []llm.Options
}

func (s *stubProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return s.Generate(ctx, history[len(history)-1].Content, opts...)
}

func (s *stubProvider) Generate(_ context.Context, prompt string, opts ...llm.Option) (string, error) {
	o := llm.Options{}
	for _, opt := range opts {
		opt(&o)
	}
	s.prompts = append(s.prompts, prompt)
	s.options = append(s.options, o)
	return s.reply, s.err
}

var deliveryChat = []llm.Message{
	{Role: "assistant", Content: "What do you do for work?"},
	{Role: "user", Content: "main delivery boy hoon"},
}

func TestExtractProfile_RecoversJSONFromProse(t *testing.T) {
	stub := &stubProvider{reply: `Sure! Here is what I found:
{"<PersonalInfo>": "Works long shifts in the city", "<Profession>": "Delivery boy"}
Let me know if you need anything else.`}
	ex := NewExtractor(stub, Config{Model: "gpt-3.5-turbo"})

	profile := ex.ExtractProfile(context.Background(), deliveryChat)

	assert.False(t, profile.Degraded)
	assert.Equal(t, "Delivery boy", profile.Profession)
	assert.Equal(t, "Works long shifts in the city", profile.PersonalInfo)

	require.Len(t, stub.options, 1)
	assert.InDelta(t, 0.3, stub.options[0].Temperature, 0.0001)
	assert.Equal(t, 300, stub.options[0].MaxTokens)
	assert.Equal(t, "gpt-3.5-turbo", stub.options[0].Model)
	assert.Contains(t, stub.prompts[0], "\n\nConversation:\nassistant: What do you do for work?\nuser: main delivery boy hoon")
}

func TestExtractProfile_AcceptsPlainKeys(t *testing.T) {
	stub := &stubProvider{reply: `{"profession": " Nurse ", "personal_info": ""}`}

	profile := NewExtractor(stub, Config{}).ExtractProfile(context.Background(), deliveryChat)

	assert.Equal(t, "Nurse", profile.Profession)
	assert.Empty(t, profile.PersonalInfo)
}

func TestExtractProfile_DegradesOnFailure(t *testing.T) {
	cases := map[string]*stubProvider{
		"upstream error": {err: errors.New("401")},
		"no json":        {reply: "I could not find anything."},
		"broken json":    {reply: `{"<Profession>": unquoted}`},
	}
	for name, stub := range cases {
		t.Run(name, func(t *testing.T) {
			profile := NewExtractor(stub, Config{}).ExtractProfile(context.Background(), deliveryChat)
			assert.True(t, profile.Degraded)
			assert.True(t, profile.Empty())
		})
	}
}

func TestExtractSummary(t *testing.T) {
	t.Run("json reply", func(t *testing.T) {
		stub := &stubProvider{reply: "```json\n{\"summary\": \"User practiced greetings.\"}\n```"}
		s := NewExtractor(stub, Config{}).ExtractSummary(context.Background(), deliveryChat)
		assert.Equal(t, "User practiced greetings.", s.Text)
		assert.False(t, s.Degraded)
		assert.Equal(t, 200, stub.options[0].MaxTokens)
	})

	t.Run("plain reply is kept", func(t *testing.T) {
		stub := &stubProvider{reply: "  The user talked about work.  "}
		s := NewExtractor(stub, Config{}).ExtractSummary(context.Background(), deliveryChat)
		assert.Equal(t, "The user talked about work.", s.Text)
	})

	t.Run("malformed object is a failure", func(t *testing.T) {
		stub := &stubProvider{reply: `{"summary": {"topic": "work"}, "mood": "calm"}`}
		s := NewExtractor(stub, Config{}).ExtractSummary(context.Background(), deliveryChat)
		assert.True(t, s.Degraded)
		assert.Equal(t, SummaryFailed, s.Text)
	})

	t.Run("failure", func(t *testing.T) {
		stub := &stubProvider{err: &llm.NetworkError{Err: errors.New("refused")}}
		s := NewExtractor(stub, Config{}).ExtractSummary(context.Background(), deliveryChat)
		assert.True(t, s.Degraded)
		assert.Equal(t, SummaryFailed, s.Text)
	})
}

func TestExtract_CallerOptionsWin(t *testing.T) {
	stub := &stubProvider{reply: `{"summary":"x"}`}

	NewExtractor(stub, Config{Model: "gpt-3.5-turbo"}).
		ExtractSummary(context.Background(), deliveryChat, llm.WithAPIKey("req-key"), llm.WithModel("other"))

	assert.Equal(t, "req-key", stub.options[0].APIKey)
	assert.Equal(t, "other", stub.options[0].Model)
}

func TestFindJSONObject(t *testing.T) {
	obj, err := FindJSONObject("prefix {\"a\": \"b\"} suffix {\"c\": 1}")
	require.NoError(t, err)
	assert.Equal(t, map[string]interface{}{"a": "b"}, obj)

	_, err = FindJSONObject("no braces here")
	assert.ErrorIs(t, err, ErrNoJSONObject)

	_, err = FindJSONObject("{}")
	assert.ErrorIs(t, err, ErrNoJSONObject)

	_, err = FindJSONObject(`{"a": {"b": 1}}`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoJSONObject)
}
