package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/firecrawl"
	"portal-noticias/generator"
)

var (
	ErrMissingTopic = errors.New("topic_or_url_required")
	ErrNoSource     = errors.New("no_source_found")
)

type WebSearcher interface {
	Search(ctx context.Context, req firecrawl.SearchRequest) ([]firecrawl.SearchResult, error)
	Scrape(ctx context.Context, pageURL string) (*firecrawl.SearchResult, error)
}

type StreamGenerator interface {
	Stream(ctx context.Context, src generator.Source, onDelta func(string) error) (*generator.Article, error)
}

// GenerateService 는 관리자 검색과 스트리밍 생성을 담당한다.
type GenerateService struct {
	web       WebSearcher
	gen       StreamGenerator
	timeRange string
}

func NewGenerateService(web WebSearcher, gen StreamGenerator, timeFilter string) *GenerateService {
	return &GenerateService{web: web, gen: gen, timeRange: timeFilter}
}

// Search 는 관리자 화면의 원문 검색이다. site 가 있으면 해당 도메인으로 제한한다.
func (s *GenerateService) Search(ctx context.Context, req dto.SearchRequestDTO) (*dto.SearchResponseDTO, error) {
	var sites []string
	if strings.TrimSpace(req.Site) != "" {
		sites = []string{req.Site}
	}
	limit := req.Limit
	if limit <= 0 || limit > 20 {
		limit = 5
	}
	results, err := s.web.Search(ctx, firecrawl.SearchRequest{
		Query:          firecrawl.BuildQuery(req.Query, sites),
		Limit:          limit,
		TBS:            s.timeRange,
		ScrapeMarkdown: true,
	})
	if err != nil {
		return nil, err
	}
	out := &dto.SearchResponseDTO{Success: true, Results: make([]dto.SearchResultDTO, 0, len(results))}
	for _, r := range results {
		out.Results = append(out.Results, dto.SearchResultDTO{
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
			Source:      r.Source,
			Markdown:    r.Markdown,
		})
	}
	return out, nil
}

// ResolveSource 는 URL 이 있으면 스크랩하고, 없으면 주제로 검색해 본문이 있는 첫 결과를 고른다.
func (s *GenerateService) ResolveSource(ctx context.Context, req dto.GenerateRequestDTO) (generator.Source, error) {
	topic := strings.TrimSpace(req.Topic)
	pageURL := strings.TrimSpace(req.URL)
	if topic == "" && pageURL == "" {
		return generator.Source{}, ErrMissingTopic
	}

	var picked *firecrawl.SearchResult
	if pageURL != "" {
		r, err := s.web.Scrape(ctx, pageURL)
		if err != nil {
			return generator.Source{}, fmt.Errorf("scrape source: %w", err)
		}
		picked = r
	} else {
		results, err := s.web.Search(ctx, firecrawl.SearchRequest{
			Query:          topic,
			Limit:          3,
			TBS:            s.timeRange,
			ScrapeMarkdown: true,
		})
		if err != nil {
			return generator.Source{}, fmt.Errorf("search source: %w", err)
		}
		for i := range results {
			if strings.TrimSpace(results[i].Markdown) != "" {
				picked = &results[i]
				break
			}
		}
	}
	if picked == nil || (strings.TrimSpace(picked.Markdown) == "" && strings.TrimSpace(picked.Description) == "") {
		return generator.Source{}, ErrNoSource
	}
	return generator.Source{
		URL:         picked.URL,
		Title:       picked.Title,
		Description: picked.Description,
		Markdown:    picked.Markdown,
		Image:       picked.Image,
		Topic:       topic,
		Category:    req.Category,
	}, nil
}

func (s *GenerateService) Stream(ctx context.Context, src generator.Source, onDelta func(string) error) (*generator.Article, error) {
	return s.gen.Stream(ctx, src, onDelta)
}
