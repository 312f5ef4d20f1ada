// Package generator rewrites a source article into a portal post with an LLM.
package generator

import (
	"context"
	"errors"
	"strings"
	"time"

	"portal-noticias/classifier"
	"portal-noticias/config"
	"portal-noticias/llm"
	"portal-noticias/models"
)

// Article is a generated article ready to be stored.
type Article struct {
	Title    string          `json:"title"`
	Excerpt  string          `json:"excerpt"`
	Author   string          `json:"author"`
	Content  string          `json:"content"`
	IsUrgent bool            `json:"isUrgent"`
	Slug     string          `json:"slug"`
	Category models.Category `json:"category"`
}

type Options struct {
	Temperature      float32
	MaxTokens        int
	StreamMaxTokens  int
	StructuredOutput bool
	MarkdownLimit    int
}

// OptionsFromConfig 는 llm/collector 설정에서 생성 옵션을 만든다.
func OptionsFromConfig(l config.LLMConfig, c config.CollectorConfig) Options {
	return Options{
		Temperature:      l.Temperature,
		MaxTokens:        l.MaxTokens,
		StreamMaxTokens:  l.StreamMaxTokens,
		StructuredOutput: l.StructuredOutput,
		MarkdownLimit:    c.MarkdownLimit,
	}
}

type Generator struct {
	llm  llm.Client
	opts Options
	now  func() time.Time
}

func New(client llm.Client, opts Options) *Generator {
	return &Generator{llm: client, opts: opts, now: time.Now}
}

var ErrEmptyContent = errors.New("generator: empty content")

// Generate returns nil when the model call fails or yields no usable article.
// Failures are logged; callers skip the candidate.
func (g *Generator) Generate(ctx context.Context, src Source) *Article {
	parsed, err := g.generate(ctx, src)
	if err != nil {
		config.ErrorWithFields("article generation failed", config.Fields{
			"source_url": src.URL,
			"error":      err.Error(),
		})
		return nil
	}
	return g.finalize(parsed, "")
}

func (g *Generator) generate(ctx context.Context, src Source) (Parsed, error) {
	user := buildUserPrompt(src, g.opts.MarkdownLimit)

	if g.opts.StructuredOutput {
		resp, err := g.llm.Complete(ctx, llm.Request{
			Purpose:     "generate",
			System:      jsonSystemPrompt,
			User:        user,
			Temperature: g.opts.Temperature,
			MaxTokens:   g.opts.MaxTokens,
			JSON:        true,
		})
		if err != nil {
			return Parsed{}, err
		}
		if p, err := ParseJSON(resp.Text); err == nil {
			return checkContent(p)
		}
		// 모델이 구분자 형식으로 답한 경우
		if HasDelimiters(resp.Text) {
			return checkContent(ParseDelimited(resp.Text))
		}
		config.Logger.Warnf("structured output rejected, retrying with delimited prompt: %s", src.URL)
	}

	resp, err := g.llm.Complete(ctx, llm.Request{
		Purpose:     "generate",
		System:      delimitedSystemPrompt,
		User:        user,
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.MaxTokens,
	})
	if err != nil {
		return Parsed{}, err
	}
	return checkContent(ParseDelimited(resp.Text))
}

func checkContent(p Parsed) (Parsed, error) {
	if strings.TrimSpace(p.Content) == "" {
		return p, ErrEmptyContent
	}
	return p, nil
}

// Stream generates with the delimited prompt and forwards every delta to onDelta.
// The returned article is built from the complete buffer.
func (g *Generator) Stream(ctx context.Context, src Source, onDelta func(string) error) (*Article, error) {
	var buf strings.Builder
	err := g.llm.Stream(ctx, llm.Request{
		Purpose:     "generate_stream",
		System:      delimitedSystemPrompt,
		User:        buildUserPrompt(src, g.opts.MarkdownLimit),
		Temperature: g.opts.Temperature,
		MaxTokens:   g.opts.StreamMaxTokens,
	}, func(delta string) error {
		buf.WriteString(delta)
		return onDelta(delta)
	})
	if err != nil {
		return nil, err
	}
	parsed, err := checkContent(ParseDelimited(buf.String()))
	if err != nil {
		return nil, err
	}
	return g.finalize(parsed, models.Category(src.Category)), nil
}

// finalize 는 링크 제거/정제, 슬러그, 카테고리를 적용한다.
// category 가 유효하지 않으면 분류기를 사용한다.
func (g *Generator) finalize(p Parsed, category models.Category) *Article {
	a := &Article{
		Title:    StripLinks(p.Title),
		Excerpt:  StripLinks(p.Excerpt),
		Author:   StripLinks(p.Author),
		Content:  Clean(p.Content),
		IsUrgent: p.Urgent,
	}
	// 링크만 있던 필드는 제거 후 비게 된다
	if a.Title == "" {
		a.Title = DefaultTitle
	}
	if a.Author == "" {
		a.Author = DefaultAuthor
	}
	a.Slug = NewSlug(a.Title, g.now())
	if category.IsValid() {
		a.Category = category
	} else {
		a.Category = classifier.Classify(a.Title, a.Content)
	}
	return a
}
