package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/collector"
	"portal-noticias/generator"
	"portal-noticias/httpclient"
)

// adminClient 는 관리자 API 를 호출한다. 스트리밍 때문에 클라이언트 타임아웃은 두지 않는다.
type adminClient struct {
	base  *httpclient.BaseClient
	token string
}

func newAdminClient(baseURL, token string) *adminClient {
	return &adminClient{
		base:  httpclient.NewBaseClient(baseURL, httpclient.Config{Timeout: -1, LogBody: false}),
		token: token,
	}
}

func (c *adminClient) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	var body []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = b
	}
	req, err := c.base.NewJSONRequest(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.base.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 300 {
		defer resp.Body.Close()
		return nil, httpclient.NewHTTPError(resp)
	}
	return resp, nil
}

// Generate 는 스트림을 끝까지 읽은 뒤에만 기사를 돌려준다.
func (c *adminClient) Generate(ctx context.Context, in dto.GenerateRequestDTO, onPreview func(generator.Parsed)) (*generator.Article, error) {
	resp, err := c.do(ctx, http.MethodPost, "/admin/generate/stream", in)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	return generator.ConsumeStream(ctx, resp.Body, onPreview)
}

func (c *adminClient) CreatePost(ctx context.Context, in dto.CreatePostRequestDTO) (*dto.PostDTO, error) {
	resp, err := c.do(ctx, http.MethodPost, "/admin/posts", in)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out dto.PostDTO
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode post: %w", err)
	}
	return &out, nil
}

func (c *adminClient) Collect(ctx context.Context) (*collector.RunResult, error) {
	resp, err := c.do(ctx, http.MethodPost, "/collect", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	var out collector.RunResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode run result: %w", err)
	}
	return &out, nil
}

// postFromArticle 는 생성 결과를 저장 요청으로 바꾼다. category 가 비면 분류기 결과를 쓴다.
func postFromArticle(a *generator.Article, category, sourceURL string) dto.CreatePostRequestDTO {
	req := dto.CreatePostRequestDTO{
		Title:      a.Title,
		Excerpt:    a.Excerpt,
		Content:    a.Content,
		Category:   category,
		Author:     a.Author,
		IsBreaking: a.IsUrgent,
	}
	if req.Category == "" {
		req.Category = string(a.Category)
	}
	if sourceURL != "" {
		req.Sources = []string{sourceURL}
	}
	return req
}
