package usecase_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
)

// MockRosterRepository is a mock of RosterRepository
type MockRosterRepository struct {
	mock.Mock
}

func (m *MockRosterRepository) LoadStations(ctx context.Context, q repository.RosterQuery) ([]domain.StationRecord, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StationRecord), args.Error(1)
}

func (m *MockRosterRepository) LoadPassengers(ctx context.Context, q repository.RosterQuery) ([]domain.PassengerRecord, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PassengerRecord), args.Error(1)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	args := m.Called(ctx, stream, group, messageID)
	return args.Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	args := m.Called(ctx, stream, data)
	return args.Error(0)
}

// published - типы событий в порядке публикации
func (m *MockStreamRepository) published() []domain.EventType {
	var out []domain.EventType
	for _, call := range m.Calls {
		if call.Method != "PublishToStream" {
			continue
		}
		if ev, ok := call.Arguments.Get(2).(domain.TrainEvent); ok {
			out = append(out, ev.Type)
		}
	}
	return out
}

// MockSnapshotRepository is a mock of SnapshotRepository
type MockSnapshotRepository struct {
	mock.Mock
}

func (m *MockSnapshotRepository) Save(ctx context.Context, snapshot *domain.TrainSnapshot) error {
	args := m.Called(ctx, snapshot)
	return args.Error(0)
}

func (m *MockSnapshotRepository) Latest(ctx context.Context, trainNo string) (*domain.TrainSnapshot, error) {
	args := m.Called(ctx, trainNo)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrainSnapshot), args.Error(1)
}

// MockReallocationRepository is a mock of ReallocationRepository
type MockReallocationRepository struct {
	mock.Mock
}

func (m *MockReallocationRepository) SaveDecisions(ctx context.Context, records []*domain.PendingReallocation) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

func (m *MockReallocationRepository) ListByTrain(ctx context.Context, trainNo string, limit int) ([]*domain.PendingReallocation, error) {
	args := m.Called(ctx, trainNo, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PendingReallocation), args.Error(1)
}

func (m *MockReallocationRepository) ListByPNRs(ctx context.Context, trainNo string, pnrs []string) ([]*domain.PendingReallocation, error) {
	args := m.Called(ctx, trainNo, pnrs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PendingReallocation), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetView(ctx context.Context, trainNo string, version uint64, view string) ([]byte, error) {
	args := m.Called(ctx, trainNo, version, view)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) SetView(ctx context.Context, trainNo string, version uint64, view string, data []byte, ttl time.Duration) error {
	args := m.Called(ctx, trainNo, version, view, data, ttl)
	return args.Error(0)
}

func (m *MockCacheRepository) InvalidateTrain(ctx context.Context, trainNo string) error {
	args := m.Called(ctx, trainNo)
	return args.Error(0)
}
