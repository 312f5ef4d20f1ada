// Package collector runs one automated news collection: search, dedup,
// generate, classify, store and log.
package collector

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"portal-noticias/config"
	"portal-noticias/dedup"
	"portal-noticias/firecrawl"
	"portal-noticias/generator"
	"portal-noticias/models"
	"portal-noticias/repositories"
)

// Candidate 는 한 번의 실행 동안만 존재하는 원문 후보이다.
type Candidate struct {
	URL         string
	Title       string
	Description string
	Markdown    string
	Image       string
}

type Searcher interface {
	Search(ctx context.Context, req firecrawl.SearchRequest) ([]firecrawl.SearchResult, error)
}

type ArticleGenerator interface {
	Generate(ctx context.Context, src generator.Source) *generator.Article
}

type PostStore interface {
	RecentTitles(ctx context.Context, n int) ([]string, error)
	Insert(ctx context.Context, p *models.Post) error
	SetBreaking(ctx context.Context, id primitive.ObjectID, breaking bool) error
}

type RunLogStore interface {
	Start(ctx context.Context, trigger models.RunTrigger) (primitive.ObjectID, error)
	Finish(ctx context.Context, id primitive.ObjectID, out repositories.RunOutcome) error
}

type ConfigStore interface {
	ActiveValues(ctx context.Context, t models.ConfigType) ([]string, error)
}

type Publisher interface {
	PostPublished(ctx context.Context, p *models.Post) error
}

// Quota 는 생성 호출 전 한도를 확인한다. false 면 이번 실행의 생성을 멈춘다.
type Quota interface {
	WaitAndReserve(ctx context.Context) (bool, error)
}

// CandidateSource 는 검색 외의 추가 후보(RSS 등)를 제공한다.
type CandidateSource interface {
	Candidates(ctx context.Context, feedURLs []string) []Candidate
}

// RunResult is the response body of the collection trigger.
type RunResult struct {
	Success   bool                        `json:"success"`
	Message   string                      `json:"message"`
	Collected int                         `json:"collected"`
	Posts     []models.CreatedPostSummary `json:"posts"`
	// Duration 은 밀리초 단위이다.
	Duration int64 `json:"duration"`
}

type Deps struct {
	Search    Searcher
	Generator ArticleGenerator
	Posts     PostStore
	Logs      RunLogStore
	Config    ConfigStore
	// 선택
	Feeds     CandidateSource
	Publisher Publisher
	Quota     Quota
}

type Service struct {
	deps  Deps
	cfg   config.CollectorConfig
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
	pick  func(n int) int
}

func NewService(deps Deps, cfg config.CollectorConfig) *Service {
	return &Service{
		deps:  deps,
		cfg:   cfg,
		now:   time.Now,
		sleep: sleepCtx,
		pick:  rand.IntN,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// runState 는 실행 중 누적되는 결과이다.
type runState struct {
	found   int
	created []models.CreatedPostSummary
}

// Run executes one collection. The log row is created first and finished exactly once.
// A returned error means the run ended with status error; per-candidate failures are only logged.
func (s *Service) Run(ctx context.Context, trigger models.RunTrigger) (*RunResult, error) {
	start := s.now()
	logID, err := s.deps.Logs.Start(ctx, trigger)
	if err != nil {
		return nil, fmt.Errorf("start collection log: %w", err)
	}
	config.InfoWithFields("collection started", config.Fields{"log_id": logID.Hex(), "trigger": string(trigger)})

	st := &runState{created: []models.CreatedPostSummary{}}
	runErr := s.collect(ctx, st)
	duration := s.now().Sub(start)

	out := repositories.RunOutcome{
		Status:            models.RunStatusSuccess,
		ArticlesFound:     st.found,
		ArticlesCollected: len(st.created),
		Duration:          duration,
		CreatedPosts:      st.created,
	}
	if runErr != nil {
		out.Status = models.RunStatusError
		out.ErrorMessage = runErr.Error()
	}

	// 요청이 끊겨도 로그는 반드시 마무리한다
	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.deps.Logs.Finish(finishCtx, logID, out); err != nil {
		config.Logger.Errorf("failed to finish collection log %s: %v", logID.Hex(), err)
	}

	fields := config.Fields{
		"log_id":    logID.Hex(),
		"status":    string(out.Status),
		"found":     st.found,
		"collected": len(st.created),
		"duration":  duration.String(),
	}
	if runErr != nil {
		fields["error"] = runErr.Error()
		config.ErrorWithFields("collection failed", fields)
		return nil, runErr
	}
	config.InfoWithFields("collection finished", fields)

	msg := fmt.Sprintf("%d notícia(s) coletada(s)", len(st.created))
	if st.found == 0 {
		msg = "Nenhuma notícia encontrada"
	}
	return &RunResult{
		Success:   true,
		Message:   msg,
		Collected: len(st.created),
		Posts:     st.created,
		Duration:  duration.Milliseconds(),
	}, nil
}

func (s *Service) collect(ctx context.Context, st *runState) error {
	topics, err := s.deps.Config.ActiveValues(ctx, models.ConfigTopic)
	if err != nil {
		return fmt.Errorf("load topics: %w", err)
	}
	sites, err := s.deps.Config.ActiveValues(ctx, models.ConfigSite)
	if err != nil {
		return fmt.Errorf("load sites: %w", err)
	}
	timeFilters, err := s.deps.Config.ActiveValues(ctx, models.ConfigTimeFilter)
	if err != nil {
		return fmt.Errorf("load time filter: %w", err)
	}

	topic := s.cfg.DefaultTopic
	if len(topics) > 0 {
		topic = topics[s.pick(len(topics))]
	}
	tbs := s.cfg.DefaultTimeFilter
	if len(timeFilters) > 0 && strings.TrimSpace(timeFilters[0]) != "" {
		tbs = strings.TrimSpace(timeFilters[0])
	}

	query := firecrawl.BuildQuery(topic, sites)
	config.Logger.Infof("searching: %s (tbs=%s)", query, tbs)
	results, err := s.deps.Search.Search(ctx, firecrawl.SearchRequest{
		Query:          query,
		Limit:          s.cfg.SearchLimit,
		TBS:            tbs,
		ScrapeMarkdown: true,
	})
	if err != nil {
		return fmt.Errorf("search: %w", err)
	}

	candidates := make([]Candidate, 0, len(results))
	for _, r := range results {
		candidates = append(candidates, Candidate{
			URL:         r.URL,
			Title:       r.Title,
			Description: r.Description,
			Markdown:    r.Markdown,
			Image:       r.Image,
		})
	}
	if s.deps.Feeds != nil {
		feeds, err := s.deps.Config.ActiveValues(ctx, models.ConfigFeed)
		if err != nil {
			config.Logger.Warnf("load feeds: %v", err)
		} else if len(feeds) > 0 {
			candidates = append(candidates, s.deps.Feeds.Candidates(ctx, feeds)...)
		}
	}

	st.found = len(candidates)
	if st.found == 0 {
		return nil
	}

	titles, err := s.deps.Posts.RecentTitles(ctx, s.cfg.RecentTitleWindow)
	if err != nil {
		return fmt.Errorf("load recent titles: %w", err)
	}
	seen := dedup.NewFromTitles(titles)

	generated := 0
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.TrimSpace(c.Title) == "" || strings.TrimSpace(c.URL) == "" ||
			(strings.TrimSpace(c.Markdown) == "" && strings.TrimSpace(c.Description) == "") {
			config.Logger.Infof("skip candidate with missing fields: %q", c.URL)
			continue
		}
		if seen.IsDuplicate(c.Title) {
			config.Logger.Infof("skip duplicate: %s", c.Title)
			continue
		}

		if generated > 0 {
			if err := s.sleep(ctx, s.cfg.GenerationDelay); err != nil {
				return err
			}
		}
		generated++

		if s.deps.Quota != nil {
			ok, err := s.deps.Quota.WaitAndReserve(ctx)
			if err != nil {
				return err
			}
			if !ok {
				config.Logger.Warn("generation daily quota exhausted, stop this run")
				return nil
			}
		}

		article := s.deps.Generator.Generate(ctx, generator.Source{
			URL:         c.URL,
			Title:       c.Title,
			Description: c.Description,
			Markdown:    c.Markdown,
			Image:       c.Image,
		})
		if article == nil {
			continue
		}
		if seen.IsDuplicate(article.Title) {
			config.Logger.Infof("skip duplicate generated title: %s", article.Title)
			continue
		}

		if summary, ok := s.store(ctx, c, article); ok {
			seen.Add(article.Title)
			st.created = append(st.created, summary)
		}
	}
	return nil
}

// store 는 포스트를 저장하고 속보 지정/이벤트 발행까지 처리한다. 저장 실패는 false.
func (s *Service) store(ctx context.Context, c Candidate, a *generator.Article) (models.CreatedPostSummary, bool) {
	post := &models.Post{
		Title:      a.Title,
		Slug:       a.Slug,
		Excerpt:    a.Excerpt,
		Content:    a.Content,
		CoverImage: c.Image,
		Category:   a.Category,
		Author:     a.Author,
		Sources:    []string{c.URL},
		Origin:     models.OriginAI,
	}
	if err := s.deps.Posts.Insert(ctx, post); err != nil {
		config.ErrorWithFields("failed to insert post", config.Fields{"slug": post.Slug, "error": err.Error()})
		return models.CreatedPostSummary{}, false
	}

	if a.IsUrgent {
		if err := s.deps.Posts.SetBreaking(ctx, post.ID, true); err != nil {
			config.Logger.Errorf("failed to set breaking for %s: %v", post.Slug, err)
		} else {
			post.IsBreaking = true
		}
	}

	if s.deps.Publisher != nil {
		if err := s.deps.Publisher.PostPublished(ctx, post); err != nil && !errors.Is(err, context.Canceled) {
			config.Logger.Errorf("failed to publish post.published for %s: %v", post.Slug, err)
		}
	}

	config.InfoWithFields("post created", config.Fields{
		"post_id":  post.ID.Hex(),
		"slug":     post.Slug,
		"category": string(post.Category),
		"breaking": post.IsBreaking,
	})
	return models.CreatedPostSummary{
		ID:       post.ID,
		Title:    post.Title,
		Slug:     post.Slug,
		Category: post.Category,
	}, true
}
