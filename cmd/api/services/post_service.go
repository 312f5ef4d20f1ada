package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/config"
	"portal-noticias/generator"
	"portal-noticias/models"
	"portal-noticias/repositories"
)

var ErrInvalidCategory = errors.New("invalid_category")

type PostStore interface {
	List(ctx context.Context, opt repositories.ListPostsOptions) ([]models.Post, int64, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	FindBreaking(ctx context.Context, now time.Time) (*models.Post, error)
	IncrementViewCount(ctx context.Context, slug string) error
	Insert(ctx context.Context, p *models.Post) error
	UpdateFields(ctx context.Context, id primitive.ObjectID, updates bson.M) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	SetFeatured(ctx context.Context, id primitive.ObjectID, featured bool) error
	SetBreaking(ctx context.Context, id primitive.ObjectID, breaking bool) error
}

type PostEventPublisher interface {
	PostPublished(ctx context.Context, p *models.Post) error
}

type PostService struct {
	repo   PostStore
	events PostEventPublisher
	now    func() time.Time
}

// NewPostService 는 events 가 nil 이면 이벤트를 발행하지 않는다.
func NewPostService(repo PostStore, events PostEventPublisher) *PostService {
	return &PostService{repo: repo, events: events, now: time.Now}
}

type ListPostsInput struct {
	Page     int
	PageSize int
	Category string
	Featured *bool
	Breaking *bool
	Query    string
}

// List 는 독자용 목록이다. 예약 시각이 지나지 않은 포스트는 제외한다.
func (s *PostService) List(ctx context.Context, in ListPostsInput) (*dto.PaginationPostDTO, error) {
	return s.list(ctx, in, true)
}

// AdminList 는 예약 포스트까지 모두 보여준다.
func (s *PostService) AdminList(ctx context.Context, in ListPostsInput) (*dto.PaginationPostDTO, error) {
	return s.list(ctx, in, false)
}

func (s *PostService) list(ctx context.Context, in ListPostsInput, publishedOnly bool) (*dto.PaginationPostDTO, error) {
	opt := repositories.ListPostsOptions{
		Page:          in.Page,
		PageSize:      in.PageSize,
		Category:      in.Category,
		Featured:      in.Featured,
		Breaking:      in.Breaking,
		Query:         in.Query,
		PublishedOnly: publishedOnly,
		Now:           s.now(),
	}
	items, total, err := s.repo.List(ctx, opt)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PostDTO, 0, len(items))
	for _, p := range items {
		out = append(out, dto.NewPostSummaryDTO(p))
	}
	page, pageSize := in.Page, in.PageSize
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return &dto.PaginationPostDTO{Data: out, Page: page, PageSize: pageSize, Total: total}, nil
}

func (s *PostService) GetBySlug(ctx context.Context, slug string) (*dto.PostDTO, error) {
	p, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsPublishedAt(s.now()) {
		return nil, repositories.ErrNotFound
	}
	d := dto.NewPostDTO(*p)
	return &d, nil
}

// Breaking 은 현재 속보를 돌려준다. 없으면 (nil, nil).
func (s *PostService) Breaking(ctx context.Context) (*dto.PostDTO, error) {
	p, err := s.repo.FindBreaking(ctx, s.now())
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d := dto.NewPostSummaryDTO(*p)
	return &d, nil
}

func (s *PostService) IncrementViewCount(ctx context.Context, slug string) error {
	return s.repo.IncrementViewCount(ctx, slug)
}

func (s *PostService) Get(ctx context.Context, idHex string) (*dto.PostDTO, error) {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := dto.NewPostDTO(*p)
	return &d, nil
}

// Create 는 편집자 포스트를 저장한다. 속보 지정은 저장 후 단일 슬롯 갱신으로 처리한다.
func (s *PostService) Create(ctx context.Context, req dto.CreatePostRequestDTO) (*dto.PostDTO, error) {
	category := models.Category(strings.TrimSpace(req.Category))
	if !category.IsValid() {
		return nil, ErrInvalidCategory
	}
	now := s.now()
	slug := generator.NewSlug(req.Title, now)
	if strings.TrimSpace(req.Slug) != "" {
		slug = generator.Slugify(req.Slug)
	}
	author := strings.TrimSpace(req.Author)
	if author == "" {
		author = generator.DefaultAuthor
	}
	sources := req.Sources
	if sources == nil {
		sources = []string{}
	}

	post := &models.Post{
		Title:       strings.TrimSpace(req.Title),
		Slug:        slug,
		Excerpt:     strings.TrimSpace(req.Excerpt),
		Content:     generator.SanitizeHTML(req.Content),
		CoverImage:  req.CoverImage,
		Category:    category,
		Author:      author,
		IsFeatured:  req.IsFeatured,
		IsSensitive: req.IsSensitive,
		ScheduledAt: req.ScheduledAt,
		Sources:     sources,
		Origin:      models.OriginEditor,
	}
	if err := s.repo.Insert(ctx, post); err != nil {
		return nil, err
	}
	if req.IsBreaking {
		if err := s.repo.SetBreaking(ctx, post.ID, true); err != nil {
			return nil, err
		}
		post.IsBreaking = true
	}
	if post.IsPublishedAt(now) {
		s.publish(ctx, post)
	}
	d := dto.NewPostDTO(*post)
	return &d, nil
}

func (s *PostService) Update(ctx context.Context, idHex string, req dto.UpdatePostRequestDTO) (*dto.PostDTO, error) {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	updates := bson.M{}
	setString := func(key string, v *string) {
		if v != nil {
			updates[key] = strings.TrimSpace(*v)
		}
	}
	setString("title", req.Title)
	setString("excerpt", req.Excerpt)
	setString("cover_image", req.CoverImage)
	setString("author", req.Author)
	if req.Content != nil {
		updates["content"] = generator.SanitizeHTML(*req.Content)
	}
	if req.Category != nil {
		c := models.Category(strings.TrimSpace(*req.Category))
		if !c.IsValid() {
			return nil, ErrInvalidCategory
		}
		updates["category"] = c
	}
	if req.IsSensitive != nil {
		updates["is_sensitive"] = *req.IsSensitive
	}
	switch {
	case req.ClearSchedule:
		updates["scheduled_at"] = nil
	case req.ScheduledAt != nil:
		updates["scheduled_at"] = *req.ScheduledAt
	}
	if req.Sources != nil {
		updates["sources"] = req.Sources
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateFields(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	d := dto.NewPostDTO(*p)
	return &d, nil
}

func (s *PostService) Delete(ctx context.Context, idHex string) error {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *PostService) SetFeatured(ctx context.Context, idHex string, featured bool) error {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return err
	}
	return s.repo.SetFeatured(ctx, id, featured)
}

// SetBreaking 은 속보 지정 시 알림을 위해 post.published 를 다시 발행한다.
func (s *PostService) SetBreaking(ctx context.Context, idHex string, breaking bool) error {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return err
	}
	if err := s.repo.SetBreaking(ctx, id, breaking); err != nil {
		return err
	}
	if !breaking {
		return nil
	}
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.IsPublishedAt(s.now()) {
		s.publish(ctx, p)
	}
	return nil
}

func (s *PostService) publish(ctx context.Context, p *models.Post) {
	if s.events == nil {
		return
	}
	if err := s.events.PostPublished(ctx, p); err != nil {
		config.Logger.Errorf("failed to publish post.published for %s: %v", p.Slug, err)
	}
}
