// Package llm hides the chat-completion provider behind a small interface.
package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"portal-noticias/config"
	"portal-noticias/models"
)

type Request struct {
	// Purpose 는 ai_logs 에 기록되는 호출 목적이다. 예: "generate", "revise"
	Purpose     string
	System      string
	User        string
	Temperature float32
	MaxTokens   int
	// JSON 이 true 이면 provider 의 JSON 출력 모드를 사용한다.
	JSON bool
}

type Usage struct {
	InputTokens  int64
	OutputTokens int64
	TotalTokens  int64
}

type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Client is implemented by OpenAIClient and GeminiClient.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
	// Stream calls onDelta for every text fragment in arrival order.
	// An error from onDelta stops the stream and is returned.
	Stream(ctx context.Context, req Request, onDelta func(delta string) error) error
}

// New 는 설정의 provider 에 맞는 Client 를 만든다.
func New(ctx context.Context, cfg config.LLMConfig) (Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm: api key for provider %q is not set", cfg.Provider)
	}
	switch strings.ToLower(cfg.Provider) {
	case "openai", "":
		return NewOpenAIClient(cfg), nil
	case "google":
		return NewGeminiClient(ctx, cfg)
	}
	return nil, fmt.Errorf("llm: unsupported provider %q", cfg.Provider)
}

// LogStore receives one AILog per call.
type LogStore interface {
	Insert(ctx context.Context, log models.AILog) error
}

// WithLogging wraps c so that every call is recorded in store. Storage failures are only logged.
func WithLogging(c Client, provider string, store LogStore) Client {
	if store == nil {
		return c
	}
	return &loggingClient{inner: c, provider: provider, store: store}
}

type loggingClient struct {
	inner    Client
	provider string
	store    LogStore
}

const maxLoggedText = 4000

func (l *loggingClient) Complete(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Complete(ctx, req)
	entry := l.entry(req, start, err)
	if resp != nil {
		entry.ModelName = resp.Model
		entry.InputTokens = resp.Usage.InputTokens
		entry.OutputTokens = resp.Usage.OutputTokens
		entry.TotalTokens = resp.Usage.TotalTokens
		entry.OutputResponse = truncate(resp.Text, maxLoggedText)
	}
	l.save(ctx, entry)
	return resp, err
}

func (l *loggingClient) Stream(ctx context.Context, req Request, onDelta func(string) error) error {
	start := time.Now()
	var out strings.Builder
	err := l.inner.Stream(ctx, req, func(delta string) error {
		out.WriteString(delta)
		return onDelta(delta)
	})
	entry := l.entry(req, start, err)
	entry.OutputResponse = truncate(out.String(), maxLoggedText)
	l.save(ctx, entry)
	return err
}

func (l *loggingClient) entry(req Request, start time.Time, err error) models.AILog {
	now := time.Now()
	e := models.AILog{
		Purpose:     req.Purpose,
		Provider:    l.provider,
		DurationMs:  now.Sub(start).Milliseconds(),
		InputPrompt: truncate(req.User, maxLoggedText),
		RequestedAt: start,
		CompletedAt: now,
	}
	if err != nil {
		msg := err.Error()
		e.ErrorMessage = &msg
	}
	return e
}

func (l *loggingClient) save(ctx context.Context, e models.AILog) {
	// 요청 컨텍스트가 취소되어도 로그는 남긴다
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := l.store.Insert(ctx, e); err != nil {
		config.Logger.Errorf("failed to save ai log: %v", err)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
