package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-noticias/config"
	"portal-noticias/models"
)

type fakeClient struct {
	text   string
	deltas []string
	err    error
}

func (f *fakeClient) Complete(ctx context.Context, req Request) (*Response, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &Response{Text: f.text, Model: "fake", Usage: Usage{InputTokens: 3, OutputTokens: 4, TotalTokens: 7}}, nil
}

func (f *fakeClient) Stream(ctx context.Context, req Request, onDelta func(string) error) error {
	for _, d := range f.deltas {
		if err := onDelta(d); err != nil {
			return err
		}
	}
	return f.err
}

type memLogStore struct {
	logs []models.AILog
}

func (m *memLogStore) Insert(ctx context.Context, log models.AILog) error {
	m.logs = append(m.logs, log)
	return nil
}

func TestWithLoggingComplete(t *testing.T) {
	store := &memLogStore{}
	c := WithLogging(&fakeClient{text: "ok"}, "openai", store)

	resp, err := c.Complete(context.Background(), Request{Purpose: "generate", User: "prompt"})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Text)

	require.Len(t, store.logs, 1)
	l := store.logs[0]
	assert.Equal(t, "generate", l.Purpose)
	assert.Equal(t, "openai", l.Provider)
	assert.Equal(t, "fake", l.ModelName)
	assert.Equal(t, int64(7), l.TotalTokens)
	assert.Equal(t, "prompt", l.InputPrompt)
	assert.Nil(t, l.ErrorMessage)
}

func TestWithLoggingStreamRecordsError(t *testing.T) {
	store := &memLogStore{}
	c := WithLogging(&fakeClient{deltas: []string{"a", "b"}, err: errors.New("boom")}, "google", store)

	var got strings.Builder
	err := c.Stream(context.Background(), Request{}, func(d string) error {
		got.WriteString(d)
		return nil
	})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, "ab", got.String())
	require.Len(t, store.logs, 1)
	assert.Equal(t, "ab", store.logs[0].OutputResponse)
	require.NotNil(t, store.logs[0].ErrorMessage)
}

func TestNewRequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), config.LLMConfig{Provider: "openai"})
	assert.Error(t, err)

	_, err = New(context.Background(), config.LLMConfig{Provider: "anthropic", APIKey: "x"})
	assert.Error(t, err)
}

func TestOpenAIClientComplete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"olá"},"finish_reason":"stop"}],
			"usage":{"prompt_tokens":10,"completion_tokens":2,"total_tokens":12}}`)
	}))
	defer srv.Close()

	c := NewOpenAIClient(config.LLMConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", ModelName: "gpt-4o-mini"})
	resp, err := c.Complete(context.Background(), Request{System: "s", User: "u", JSON: true})
	require.NoError(t, err)
	assert.Equal(t, "olá", resp.Text)
	assert.Equal(t, int64(12), resp.Usage.TotalTokens)
}

func TestOpenAIClientStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		for _, d := range []string{"---TITULO---", "\\nDólar"} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"model\":\"m\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"%s\"}}]}\n\n", d)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	c := NewOpenAIClient(config.LLMConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", ModelName: "m"})
	var deltas []string
	err := c.Stream(context.Background(), Request{}, func(d string) error {
		deltas = append(deltas, d)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"---TITULO---", "\nDólar"}, deltas)
}
