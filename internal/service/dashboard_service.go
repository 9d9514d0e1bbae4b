package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/arsipkampus/arsip-akademik-api/internal/models"
	appErrors "github.com/arsipkampus/arsip-akademik-api/pkg/errors"
)

type statsRepository interface {
	Overview(ctx context.Context) (*models.DashboardStats, error)
	StudentsPerProgram(ctx context.Context) ([]models.ProgramStudentCount, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// DashboardOverview bundles entity counts with the per-program breakdown.
type DashboardOverview struct {
	Stats       models.DashboardStats        `json:"stats"`
	PerProgram  []models.ProgramStudentCount `json:"per_prodi"`
	GeneratedAt time.Time                    `json:"generated_at"`
}

// DashboardService serves aggregate counts for the admin landing page. The
// overview is cached briefly; counts lagging by a minute is acceptable.
type DashboardService struct {
	statsRepo statsRepository
	cache     dashboardCache
	metrics   *MetricsService
	cacheTTL  time.Duration
	logger    *zap.Logger
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(statsRepo statsRepository, c dashboardCache, metrics *MetricsService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}
	return &DashboardService{
		statsRepo: statsRepo,
		cache:     c,
		metrics:   metrics,
		cacheTTL:  cacheTTL,
		logger:    logger,
	}
}

const dashboardOverviewKey = "dashboard:overview"

// Overview returns the cached dashboard counts, computing them on miss.
func (s *DashboardService) Overview(ctx context.Context) (*DashboardOverview, error) {
	if s.cache != nil {
		start := time.Now()
		var cached DashboardOverview
		err := s.cache.Get(ctx, dashboardOverviewKey, &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(start))
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		}
	}

	stats, err := s.statsRepo.Overview(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard stats")
	}
	perProgram, err := s.statsRepo.StudentsPerProgram(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load per program counts")
	}

	overview := &DashboardOverview{
		Stats:       *stats,
		PerProgram:  perProgram,
		GeneratedAt: time.Now().UTC(),
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, dashboardOverviewKey, overview, s.cacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return overview, nil
}

// Metrics returns the in-process runtime snapshot.
func (s *DashboardService) Metrics() models.SystemMetrics {
	return s.metrics.Snapshot()
}
