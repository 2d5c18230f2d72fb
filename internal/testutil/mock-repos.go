package testutil

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"digital-liver/internal/core/domain"
	ports "digital-liver/internal/core/ports/output"
)

// MockRunRepo is a mock of RunRepository.
type MockRunRepo struct {
	mock.Mock
}

func (m *MockRunRepo) Save(ctx context.Context, run *domain.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Run, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Run), args.Error(1)
}

func (m *MockRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.Run, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Run), args.Int(1), args.Error(2)
}

func (m *MockRunRepo) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRunRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockReportRenderer is a mock of ReportRenderer.
type MockReportRenderer struct {
	mock.Mock
}

func (m *MockReportRenderer) Render(result *domain.SimulationResult) ([]byte, error) {
	args := m.Called(result)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReportRenderer) ContentType() string {
	return m.Called().String(0)
}

func (m *MockReportRenderer) FileName(result *domain.SimulationResult) string {
	return m.Called(result).String(0)
}
