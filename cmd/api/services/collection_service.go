package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"portal-noticias/cmd/api/dto"
	"portal-noticias/models"
	"portal-noticias/repositories"
)

var (
	ErrInvalidConfigType  = errors.New("invalid_config_type")
	ErrInvalidConfigValue = errors.New("invalid_config_value")
)

type CollectionLogStore interface {
	List(ctx context.Context, page, pageSize int) ([]models.CollectionLog, int64, error)
}

type CollectionConfigStore interface {
	List(ctx context.Context, t models.ConfigType) ([]models.CollectionConfig, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.CollectionConfig, error)
	Insert(ctx context.Context, row *models.CollectionConfig) error
	Update(ctx context.Context, id primitive.ObjectID, value *string, active *bool) (*models.CollectionConfig, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// CollectionService 는 수집 로그 조회와 수집 설정 CRUD 를 담당한다.
type CollectionService struct {
	logs   CollectionLogStore
	config CollectionConfigStore
}

func NewCollectionService(logs CollectionLogStore, cfg CollectionConfigStore) *CollectionService {
	return &CollectionService{logs: logs, config: cfg}
}

func (s *CollectionService) Logs(ctx context.Context, page, pageSize int) (*dto.PaginationCollectionLogDTO, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	items, total, err := s.logs.List(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CollectionLogDTO, 0, len(items))
	for _, l := range items {
		out = append(out, dto.NewCollectionLogDTO(l))
	}
	return &dto.PaginationCollectionLogDTO{Data: out, Page: page, PageSize: pageSize, Total: total}, nil
}

// ListConfig 는 typ 이 비어 있으면 전체를 돌려준다.
func (s *CollectionService) ListConfig(ctx context.Context, typ string) ([]dto.CollectionConfigDTO, error) {
	t := models.ConfigType(typ)
	if typ != "" && !t.IsValid() {
		return nil, ErrInvalidConfigType
	}
	rows, err := s.config.List(ctx, t)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CollectionConfigDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.NewCollectionConfigDTO(r))
	}
	return out, nil
}

// validateValue 는 타입별 값 형식을 확인하고 정규화한 값을 돌려준다.
func validateValue(t models.ConfigType, value string) (string, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return "", ErrInvalidConfigValue
	}
	switch t {
	case models.ConfigScheduleInterval:
		m, err := strconv.Atoi(v)
		if err != nil || m <= 0 {
			return "", ErrInvalidConfigValue
		}
	case models.ConfigFeed:
		if !strings.HasPrefix(v, "http://") && !strings.HasPrefix(v, "https://") {
			return "", ErrInvalidConfigValue
		}
	}
	return v, nil
}

func (s *CollectionService) CreateConfig(ctx context.Context, req dto.CreateCollectionConfigRequestDTO) (*dto.CollectionConfigDTO, error) {
	t := models.ConfigType(req.Type)
	if !t.IsValid() {
		return nil, ErrInvalidConfigType
	}
	value, err := validateValue(t, req.Value)
	if err != nil {
		return nil, err
	}
	row := &models.CollectionConfig{Type: t, Value: value, IsActive: true}
	if req.IsActive != nil {
		row.IsActive = *req.IsActive
	}
	if err := s.config.Insert(ctx, row); err != nil {
		return nil, err
	}
	d := dto.NewCollectionConfigDTO(*row)
	return &d, nil
}

// UpdateConfig 는 값을 바꿀 때 현재 행의 타입 기준으로 형식을 검증한다.
func (s *CollectionService) UpdateConfig(ctx context.Context, idHex string, req dto.UpdateCollectionConfigRequestDTO) (*dto.CollectionConfigDTO, error) {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return nil, err
	}
	if req.Value != nil {
		current, err := s.config.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		v, err := validateValue(current.Type, *req.Value)
		if err != nil {
			return nil, err
		}
		req.Value = &v
	}
	row, err := s.config.Update(ctx, id, req.Value, req.IsActive)
	if err != nil {
		return nil, err
	}
	d := dto.NewCollectionConfigDTO(*row)
	return &d, nil
}

func (s *CollectionService) DeleteConfig(ctx context.Context, idHex string) error {
	id, err := repositories.ParseObjectID(idHex)
	if err != nil {
		return err
	}
	return s.config.Delete(ctx, id)
}
