package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"portal-noticias/config"
	"portal-noticias/httpclient"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, cfg config.LLMConfig) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpclient.New(httpclient.Config{Timeout: -1}),
	})
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: cfg.ModelName}, nil
}

func (c *GeminiClient) config(req Request) *genai.GenerateContentConfig {
	gc := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.System}}},
		Temperature:       genai.Ptr(req.Temperature),
		MaxOutputTokens:   int32(req.MaxTokens),
	}
	if req.JSON {
		gc.ResponseMIMEType = "application/json"
	}
	return gc
}

func (c *GeminiClient) Complete(ctx context.Context, req Request) (*Response, error) {
	result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.User), c.config(req))
	if err != nil {
		return nil, fmt.Errorf("gemini generate content: %w", err)
	}
	resp := &Response{Text: result.Text(), Model: c.model}
	if result.ModelVersion != "" {
		resp.Model = result.ModelVersion
	}
	if result.UsageMetadata != nil {
		resp.Usage = Usage{
			InputTokens:  int64(result.UsageMetadata.PromptTokenCount),
			OutputTokens: int64(result.UsageMetadata.CandidatesTokenCount),
			TotalTokens:  int64(result.UsageMetadata.TotalTokenCount),
		}
	}
	return resp, nil
}

func (c *GeminiClient) Stream(ctx context.Context, req Request, onDelta func(string) error) error {
	for chunk, err := range c.client.Models.GenerateContentStream(ctx, c.model, genai.Text(req.User), c.config(req)) {
		if err != nil {
			return fmt.Errorf("gemini stream: %w", err)
		}
		if delta := chunk.Text(); delta != "" {
			if err := onDelta(delta); err != nil {
				return err
			}
		}
	}
	return nil
}
