package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"maintenance-system/internal/authz"
	"maintenance-system/internal/entities"
	"maintenance-system/internal/repositories"
	"maintenance-system/pkg/config"
	apperrors "maintenance-system/pkg/errors"
	"maintenance-system/pkg/utils"

	"go.uber.org/zap"
)

const StatsCacheKey = "reports:stats"

type ReportServiceInterface interface {
	GetStats(ctx context.Context) (*entities.Stats, error)
	GetRequestsForExport(ctx context.Context, start, end time.Time) ([]entities.MaintenanceRequest, error)
	InvalidateStats(ctx context.Context) error
}

type reportService struct {
	*BaseService
	equipmentRepo repositories.EquipmentRepositoryInterface
	requestRepo   repositories.MaintenanceRequestRepositoryInterface
	userRepo      repositories.UserRepositoryInterface
	capacity      uint64
	statsTTL      time.Duration
	logger        *zap.Logger

	// generation moves on every invalidation so a computation that raced
	// with one does not write its result back.
	generation atomic.Uint64
}

func NewReportService(
	equipmentRepo repositories.EquipmentRepositoryInterface,
	requestRepo repositories.MaintenanceRequestRepositoryInterface,
	userRepo repositories.UserRepositoryInterface,
	cacheRepo repositories.CacheRepositoryInterface,
	authCfg config.AuthConfig,
	cacheCfg config.CacheConfig,
	logger *zap.Logger,
) ReportServiceInterface {
	capacity := authCfg.TechnicianCapacity
	if capacity <= 0 {
		capacity = 5
	}
	return &reportService{
		BaseService:   NewBaseService(cacheRepo, logger),
		equipmentRepo: equipmentRepo,
		requestRepo:   requestRepo,
		userRepo:      userRepo,
		capacity:      uint64(capacity),
		statsTTL:      cacheCfg.StatsTTL,
		logger:        logger,
	}
}

func (s *reportService) GetStats(ctx context.Context) (*entities.Stats, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ReportView); err != nil {
		return nil, err
	}

	var cached entities.Stats
	if s.CacheGet(ctx, StatsCacheKey, &cached) {
		return &cached, nil
	}
	generation := s.generation.Load()

	critical, err := s.equipmentRepo.CountNotInStatus(ctx, entities.StatusActive)
	if err != nil {
		return nil, err
	}
	active, err := s.requestRepo.CountByStages(ctx, entities.ActiveStages)
	if err != nil {
		return nil, err
	}
	technicians, err := s.userRepo.CountByRole(ctx, entities.RoleTechnician)
	if err != nil {
		return nil, err
	}

	stats := BuildStats(critical, active, technicians, s.capacity)
	if s.generation.Load() == generation {
		s.CacheSet(ctx, StatsCacheKey, stats, s.statsTTL)
	} else {
		s.logger.Debug("stats invalidated while computing, not caching")
	}
	return stats, nil
}

// BuildStats assembles the dashboard figures. Load is floored and is 0 when
// there are no technicians.
func BuildStats(critical, active, technicians, capacity uint64) *entities.Stats {
	load := 0
	if technicians > 0 && capacity > 0 {
		load = int(active * 100 / (technicians * capacity))
	}
	return &entities.Stats{
		CriticalEquipment: entities.CountStat{Count: critical, Label: "Units (Not Active)"},
		TechnicianLoad: entities.LoadStat{
			Percentage: load,
			Label:      fmt.Sprintf("%d%% Utilized", load),
			Details:    "(Based on active requests)",
		},
		OpenRequests: entities.CountStat{Count: active, Label: "Pending Requests"},
	}
}

func (s *reportService) GetRequestsForExport(ctx context.Context, start, end time.Time) ([]entities.MaintenanceRequest, error) {
	actor, err := utils.GetActorFromCtx(ctx)
	if err != nil {
		return nil, err
	}
	if err := authz.Authorize(actor, authz.ReportExport); err != nil {
		return nil, err
	}
	if start.After(end) {
		return nil, apperrors.NewValidationError("start_date must not be after end_date")
	}
	items, err := s.requestRepo.ListInRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	s.logger.Info("requests exported", zap.Uint64("actor_id", actor.ID), zap.Int("count", len(items)))
	return items, nil
}

func (s *reportService) InvalidateStats(ctx context.Context) error {
	s.generation.Add(1)
	return s.CacheDel(ctx, StatsCacheKey)
}
