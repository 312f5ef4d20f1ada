// Package revision asks the LLM for an editorial review of a draft article.
package revision

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"portal-noticias/config"
	"portal-noticias/llm"
)

const (
	MinTextRunes = 10
	MaxTextRunes = 50000
)

var (
	ErrInvalidText = fmt.Errorf("revision: text must have between %d and %d characters", MinTextRunes, MaxTextRunes)
	// ErrUpstream 는 LLM 호출 실패나 JSON 이 아닌 응답이다. API 에서는 502 로 응답한다.
	ErrUpstream = errors.New("revision: upstream failure")
)

// Revision is the structured review returned to the editor.
type Revision struct {
	RevisedText     string   `json:"revisedText"`
	IsUrgent        bool     `json:"isUrgent"`
	UrgentReason    string   `json:"urgentReason"`
	Changes         []string `json:"changes"`
	SEOImprovements []string `json:"seoImprovements"`
	Summary         string   `json:"summary"`
}

const systemPrompt = `Você é um editor-chefe de um portal de notícias brasileiro.
Revise o texto recebido: corrija ortografia, gramática e concordância, melhore a clareza e mantenha o estilo jornalístico imparcial.
Avalie se a notícia é urgente (breaking news).
Responda APENAS com um objeto JSON com os campos:
{"revisedText": string, "isUrgent": boolean, "urgentReason": string, "changes": [string], "seoImprovements": [string], "summary": string}`

type Service struct {
	client      llm.Client
	temperature float32
	maxTokens   int
}

func NewService(client llm.Client, cfg config.LLMConfig) *Service {
	maxTokens := cfg.StreamMaxTokens
	if maxTokens <= 0 {
		maxTokens = 4000
	}
	return &Service{client: client, temperature: 0.3, maxTokens: maxTokens}
}

// Validate 는 글자 수(룬 기준) 범위를 확인한다.
func Validate(text string) error {
	n := utf8.RuneCountInString(strings.TrimSpace(text))
	if n < MinTextRunes || n > MaxTextRunes {
		return ErrInvalidText
	}
	return nil
}

func (s *Service) Revise(ctx context.Context, text string) (*Revision, error) {
	if err := Validate(text); err != nil {
		return nil, err
	}
	resp, err := s.client.Complete(ctx, llm.Request{
		Purpose:     "revise",
		System:      systemPrompt,
		User:        "Texto para revisão:\n\n" + strings.TrimSpace(text),
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		JSON:        true,
	})
	if err != nil {
		return nil, errors.Join(ErrUpstream, err)
	}
	rev, err := Parse(resp.Text)
	if err != nil {
		config.Logger.Warnf("revision: invalid json from %s: %v", resp.Model, err)
		return nil, errors.Join(ErrUpstream, err)
	}
	return rev, nil
}

// Parse decodes the model reply, tolerating a markdown code fence.
func Parse(text string) (*Revision, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")

	var rev Revision
	if err := json.Unmarshal([]byte(strings.TrimSpace(cleaned)), &rev); err != nil {
		return nil, fmt.Errorf("decode revision: %w", err)
	}
	if strings.TrimSpace(rev.RevisedText) == "" {
		return nil, errors.New("decode revision: empty revisedText")
	}
	if rev.Changes == nil {
		rev.Changes = []string{}
	}
	if rev.SEOImprovements == nil {
		rev.SEOImprovements = []string{}
	}
	return &rev, nil
}
