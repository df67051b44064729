package http

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shortlinks/internal/entity"
)

type MockURLUseCase struct {
	mock.Mock
}

func (m *MockURLUseCase) CreateShortURL(ctx context.Context, req entity.ShortenRequest) (*entity.URL, error) {
	args := m.Called(ctx, req)
	url, _ := args.Get(0).(*entity.URL)
	return url, args.Error(1)
}

func (m *MockURLUseCase) ResolveRedirect(ctx context.Context, shortCode string, visit entity.Visit) (string, error) {
	args := m.Called(ctx, shortCode, visit)
	return args.String(0), args.Error(1)
}

func (m *MockURLUseCase) GetStats(ctx context.Context, shortCode string) (*entity.StatsSnapshot, error) {
	args := m.Called(ctx, shortCode)
	snapshot, _ := args.Get(0).(*entity.StatsSnapshot)
	return snapshot, args.Error(1)
}

func (m *MockURLUseCase) CountURLs(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockURLUseCase) Now() time.Time {
	args := m.Called()
	return args.Get(0).(time.Time)
}
