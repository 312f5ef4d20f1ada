package revision

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portal-noticias/config"
	"portal-noticias/llm"
)

type stubLLM struct {
	text string
	err  error
	got  []llm.Request
}

func (s *stubLLM) Complete(ctx context.Context, req llm.Request) (*llm.Response, error) {
	s.got = append(s.got, req)
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Response{Text: s.text, Model: "stub"}, nil
}

func (s *stubLLM) Stream(ctx context.Context, req llm.Request, onDelta func(string) error) error {
	return errors.New("not used")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		text string
		ok   bool
	}{
		{"too short", "curto", false},
		{"whitespace only counts trimmed", "   abc      ", false},
		{"min accented", "ãéíõúçàâêô", true},
		{"max", strings.Repeat("a", MaxTextRunes), true},
		{"over max", strings.Repeat("a", MaxTextRunes+1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.text)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidText)
			}
		})
	}
}

func TestReviseParsesJSON(t *testing.T) {
	stub := &stubLLM{text: "```json\n" + `{"revisedText":"Texto revisado.","isUrgent":true,"urgentReason":"Tragédia","changes":["vírgula"],"summary":"ok"}` + "\n```"}
	svc := NewService(stub, config.LLMConfig{StreamMaxTokens: 2000})

	rev, err := svc.Revise(context.Background(), "Texto original com erros.")
	require.NoError(t, err)
	assert.Equal(t, "Texto revisado.", rev.RevisedText)
	assert.True(t, rev.IsUrgent)
	assert.Equal(t, "Tragédia", rev.UrgentReason)
	assert.Equal(t, []string{"vírgula"}, rev.Changes)
	assert.Equal(t, []string{}, rev.SEOImprovements)

	require.Len(t, stub.got, 1)
	assert.True(t, stub.got[0].JSON)
	assert.Equal(t, "revise", stub.got[0].Purpose)
}

func TestReviseErrors(t *testing.T) {
	t.Run("invalid text skips upstream", func(t *testing.T) {
		stub := &stubLLM{}
		_, err := NewService(stub, config.LLMConfig{}).Revise(context.Background(), "oi")
		assert.ErrorIs(t, err, ErrInvalidText)
		assert.Empty(t, stub.got)
	})
	t.Run("non json reply", func(t *testing.T) {
		stub := &stubLLM{text: "Claro! Aqui está o texto revisado."}
		_, err := NewService(stub, config.LLMConfig{}).Revise(context.Background(), "Texto original com erros.")
		assert.ErrorIs(t, err, ErrUpstream)
	})
	t.Run("llm failure", func(t *testing.T) {
		stub := &stubLLM{err: errors.New("429")}
		_, err := NewService(stub, config.LLMConfig{}).Revise(context.Background(), "Texto original com erros.")
		assert.ErrorIs(t, err, ErrUpstream)
		assert.ErrorContains(t, err, "429")
	})
}
