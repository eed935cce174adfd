package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/omegaopinmthechat/highwaydelite/internal/cache"
	"github.com/omegaopinmthechat/highwaydelite/internal/model"
	"github.com/omegaopinmthechat/highwaydelite/internal/repository"
	apperrors "github.com/omegaopinmthechat/highwaydelite/pkg/app_errors"
	"github.com/omegaopinmthechat/highwaydelite/pkg/logger"
	"go.uber.org/zap"
)

type ExperienceService interface {
	List(ctx context.Context) ([]*model.Experience, error)
	Search(ctx context.Context, query string) ([]*model.Experience, error)
	GetByExperienceID(ctx context.Context, experienceID uuid.UUID) (*model.Experience, error)
	// GetAvailability returns time label -> remaining count, served from the
	// Redis cache when possible.
	GetAvailability(ctx context.Context, experienceID uuid.UUID) (map[string]int, error)
	Create(ctx context.Context, req *model.CreateExperienceRequest) (*model.Experience, error)
	UpdateByExperienceID(ctx context.Context, experienceID uuid.UUID, params model.UpdateExperienceParams) (*model.Experience, error)
	// BulkReplace discards the whole catalog and installs the given set.
	BulkReplace(ctx context.Context, reqs []model.CreateExperienceRequest) ([]*model.Experience, error)
}

type ExperienceServiceImpl struct {
	repo         repository.ExperienceRepository
	availability cache.AvailabilityCache
}

func NewExperienceService(repo repository.ExperienceRepository, availability cache.AvailabilityCache) ExperienceService {
	return &ExperienceServiceImpl{repo: repo, availability: availability}
}

func (s *ExperienceServiceImpl) List(ctx context.Context) ([]*model.Experience, error) {
	return s.repo.List(ctx)
}

func (s *ExperienceServiceImpl) Search(ctx context.Context, query string) ([]*model.Experience, error) {
	return s.repo.Search(ctx, query)
}

func (s *ExperienceServiceImpl) GetByExperienceID(ctx context.Context, experienceID uuid.UUID) (*model.Experience, error) {
	return s.repo.FindByExperienceID(ctx, experienceID)
}

func (s *ExperienceServiceImpl) GetAvailability(ctx context.Context, experienceID uuid.UUID) (map[string]int, error) {
	cached, err := s.availability.Get(ctx, experienceID)
	if err == nil {
		return cached, nil
	}
	if err != cache.ErrCacheMiss {
		// Redis being down must not fail a read; fall through to Postgres
		logger.WithComponent("experience-service").Warn("availability cache read failed",
			zap.String("experience_id", experienceID.String()), zap.Error(err))
	}

	exp, err := s.repo.FindByExperienceID(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	if err := s.availability.Warm(ctx, experienceID, exp.TimeSlots); err != nil {
		logger.WithComponent("experience-service").Warn("availability cache warm failed",
			zap.String("experience_id", experienceID.String()), zap.Error(err))
	}

	availability := make(map[string]int, len(exp.TimeSlots))
	for _, slot := range exp.TimeSlots {
		availability[slot.TimeLabel] = slot.Available
	}
	return availability, nil
}

func (s *ExperienceServiceImpl) Create(ctx context.Context, req *model.CreateExperienceRequest) (*model.Experience, error) {
	if err := validateExperienceRequest(req); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, req)
}

func (s *ExperienceServiceImpl) UpdateByExperienceID(ctx context.Context, experienceID uuid.UUID, params model.UpdateExperienceParams) (*model.Experience, error) {
	if params.TaxRate != nil && (*params.TaxRate < 0 || *params.TaxRate > 1) {
		return nil, apperrors.ErrInvalidInput
	}
	if params.Price != nil && *params.Price < 0 {
		return nil, apperrors.ErrInvalidInput
	}

	exp, err := s.repo.FindByExperienceID(ctx, experienceID)
	if err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, exp.ID, params)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, experienceID)

	return updated, nil
}

func (s *ExperienceServiceImpl) BulkReplace(ctx context.Context, reqs []model.CreateExperienceRequest) ([]*model.Experience, error) {
	for i := range reqs {
		if err := validateExperienceRequest(&reqs[i]); err != nil {
			return nil, err
		}
	}

	experiences, err := s.repo.BulkReplace(ctx, reqs)
	if err != nil {
		return nil, err
	}

	if err := s.availability.InvalidateAll(ctx); err != nil {
		logger.WithComponent("experience-service").Warn("availability cache flush failed", zap.Error(err))
	}

	return experiences, nil
}

func (s *ExperienceServiceImpl) invalidate(ctx context.Context, experienceID uuid.UUID) {
	if err := s.availability.Invalidate(ctx, experienceID); err != nil {
		logger.WithComponent("experience-service").Warn("availability cache invalidation failed",
			zap.String("experience_id", experienceID.String()), zap.Error(err))
	}
}

func validateExperienceRequest(req *model.CreateExperienceRequest) error {
	if req.Price < 0 {
		return apperrors.ErrInvalidInput
	}
	if req.BasePrice != nil && *req.BasePrice < 0 {
		return apperrors.ErrInvalidInput
	}
	if req.TaxRate != nil && (*req.TaxRate < 0 || *req.TaxRate > 1) {
		return apperrors.ErrInvalidInput
	}
	seen := make(map[string]bool, len(req.Times))
	for _, slot := range req.Times {
		if slot.Available < 0 || slot.Time == "" || seen[slot.Time] {
			return apperrors.ErrInvalidInput
		}
		seen[slot.Time] = true
	}
	return nil
}
