package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type regionRepository interface {
	FindByCode(ctx context.Context, code string) (*models.Region, error)
	List(ctx context.Context, filter models.RegionFilter) ([]models.Region, error)
	Create(ctx context.Context, region *models.Region) error
	Update(ctx context.Context, region *models.Region) error
	Delete(ctx context.Context, code string) error
}

type regionCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// RegionPayload carries region fields for writes.
type RegionPayload struct {
	Code       string  `json:"code" validate:"required"`
	Name       string  `json:"name" validate:"required"`
	ParentCode *string `json:"parent_code"`
	Level      int     `json:"level" validate:"required,min=1,max=4"`
}

// RegionService serves the wilayah hierarchy. Listings are cached in Redis
// because the dataset changes rarely and is read on every registration
// form.
type RegionService struct {
	repo      regionRepository
	cache     regionCache
	metrics   *MetricsService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewRegionService constructs RegionService.
func NewRegionService(repo regionRepository, cache regionCache, metrics *MetricsService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *RegionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegionService{
		repo:      repo,
		cache:     cache,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		validator: validate,
		logger:    logger,
	}
}

// Get returns one region by code.
func (s *RegionService) Get(ctx context.Context, code string) (*models.Region, error) {
	region, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "region not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load region")
	}
	return region, nil
}

// List returns regions matching the filter, served from cache when
// possible. Search queries bypass the cache.
func (s *RegionService) List(ctx context.Context, filter models.RegionFilter) ([]models.Region, error) {
	cacheable := s.cache != nil && filter.Search == ""
	key := fmt.Sprintf("regions:l%d:p%s", filter.Level, filter.ParentCode)

	if cacheable {
		started := time.Now()
		var cached []models.Region
		err := s.cache.Get(ctx, key, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(started))
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("region cache read failed", zap.Error(err))
		}
	}

	regions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list regions")
	}

	if cacheable {
		if err := s.cache.Set(ctx, key, regions, s.cacheTTL); err != nil {
			s.logger.Warn("region cache write failed", zap.Error(err))
		}
	}
	return regions, nil
}

// Create inserts a region and invalidates cached listings.
func (s *RegionService) Create(ctx context.Context, req RegionPayload) (*models.Region, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid region payload")
	}
	if req.ParentCode != nil {
		if _, err := s.Get(ctx, *req.ParentCode); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "parent region does not exist")
		}
	}

	region := &models.Region{
		Code:       req.Code,
		Name:       req.Name,
		ParentCode: req.ParentCode,
		Level:      req.Level,
	}
	if err := s.repo.Create(ctx, region); err != nil {
		var typed *appErrors.Error
		if errors.As(err, &typed) {
			return nil, typed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create region")
	}
	s.invalidate(ctx)
	return region, nil
}

// Update modifies a region and invalidates cached listings.
func (s *RegionService) Update(ctx context.Context, code string, req RegionPayload) (*models.Region, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid region payload")
	}

	region, err := s.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	region.Name = req.Name
	region.ParentCode = req.ParentCode
	region.Level = req.Level

	if err := s.repo.Update(ctx, region); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update region")
	}
	s.invalidate(ctx)
	return region, nil
}

// Delete removes a region and invalidates cached listings.
func (s *RegionService) Delete(ctx context.Context, code string) error {
	if _, err := s.Get(ctx, code); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, code); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete region")
	}
	s.invalidate(ctx)
	return nil
}

func (s *RegionService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "regions:*"); err != nil {
		s.logger.Warn("region cache invalidation failed", zap.Error(err))
	}
}
