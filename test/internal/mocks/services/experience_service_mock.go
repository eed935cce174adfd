package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/omegaopinmthechat/highwaydelite/internal/model"

	"github.com/stretchr/testify/mock"
)

type ExperienceServiceMock struct {
	mock.Mock
}

func NewExperienceServiceMock() *ExperienceServiceMock {
	return &ExperienceServiceMock{}
}

func (m *ExperienceServiceMock) List(ctx context.Context) ([]*model.Experience, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Experience), args.Error(1)
}

func (m *ExperienceServiceMock) Search(ctx context.Context, query string) ([]*model.Experience, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Experience), args.Error(1)
}

func (m *ExperienceServiceMock) GetByExperienceID(ctx context.Context, experienceID uuid.UUID) (*model.Experience, error) {
	args := m.Called(ctx, experienceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Experience), args.Error(1)
}

func (m *ExperienceServiceMock) GetAvailability(ctx context.Context, experienceID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, experienceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *ExperienceServiceMock) Create(ctx context.Context, req *model.CreateExperienceRequest) (*model.Experience, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Experience), args.Error(1)
}

func (m *ExperienceServiceMock) UpdateByExperienceID(ctx context.Context, experienceID uuid.UUID, params model.UpdateExperienceParams) (*model.Experience, error) {
	args := m.Called(ctx, experienceID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Experience), args.Error(1)
}

func (m *ExperienceServiceMock) BulkReplace(ctx context.Context, reqs []model.CreateExperienceRequest) ([]*model.Experience, error) {
	args := m.Called(ctx, reqs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Experience), args.Error(1)
}
