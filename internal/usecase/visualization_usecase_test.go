package usecase_test

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/usecase"
	"github.com/rac-reallocation/internal/usecase/dto"
)

const viewTTL = 30 * time.Second

func newVisualization(t *testing.T, cache *MockCacheRepository) (*trainFixture, *usecase.VisualizationUseCase) {
	t.Helper()
	f := newTrainFixture(t, domain.ModeAuto)
	f.initialize(t)
	if cache == nil {
		return f, usecase.NewVisualizationUseCase(f.registry, f.engine, nil, viewTTL, zap.NewNop())
	}
	return f, usecase.NewVisualizationUseCase(f.registry, f.engine, cache, viewTTL, zap.NewNop())
}

func TestVisualizationUseCase_CacheMissStoresView(t *testing.T) {
	cache := &MockCacheRepository{}
	_, uc := newVisualization(t, cache)
	ctx := context.Background()

	cache.On("GetView", ctx, "12951", uint64(1), usecase.ViewSummary).Return(nil, nil)
	cache.On("SetView", ctx, "12951", uint64(1), usecase.ViewSummary, mock.Anything, viewTTL).Return(nil)

	summary, version, err := uc.Summary(ctx, "12951")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), version)
	assert.Equal(t, "12951", summary.TrainNo)
	assert.Equal(t, 4, summary.Stats.TotalPassengers)
	cache.AssertExpectations(t)

	stored := cache.Calls[1].Arguments.Get(4).([]byte)
	var decoded dto.TrainSummary
	require.NoError(t, json.Unmarshal(stored, &decoded))
	assert.Equal(t, "Mumbai Rajdhani", decoded.TrainName)
}

func TestVisualizationUseCase_CacheHit(t *testing.T) {
	cache := &MockCacheRepository{}
	_, uc := newVisualization(t, cache)
	ctx := context.Background()

	cached, err := json.Marshal(domain.Stats{TotalPassengers: 42})
	require.NoError(t, err)
	cache.On("GetView", ctx, "12951", uint64(1), usecase.ViewStats).Return(cached, nil)

	stats, _, err := uc.Stats(ctx, "12951")
	require.NoError(t, err)
	assert.Equal(t, 42, stats.TotalPassengers)
	cache.AssertNotCalled(t, "SetView", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestVisualizationUseCase_VersionChangesKey(t *testing.T) {
	cache := &MockCacheRepository{}
	f, uc := newVisualization(t, cache)
	ctx := context.Background()

	cache.On("GetView", ctx, "12951", mock.Anything, usecase.ViewRACQueue).Return(nil, nil)
	cache.On("SetView", ctx, "12951", mock.Anything, usecase.ViewRACQueue, mock.Anything, viewTTL).Return(nil)

	queue, v1, err := uc.RACQueue(ctx, "12951")
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, 1, queue[0].Position)
	assert.Equal(t, "RAC 1", queue[0].Passenger.RACStatus)

	_, err = f.uc.ProcessArrival(ctx, "12951")
	require.NoError(t, err)

	_, v2, err := uc.RACQueue(ctx, "12951")
	require.NoError(t, err)
	assert.Greater(t, v2, v1)
	cache.AssertCalled(t, "GetView", ctx, "12951", v2, usecase.ViewRACQueue)
}

func TestVisualizationUseCase_CacheErrorsFallThrough(t *testing.T) {
	cache := &MockCacheRepository{}
	_, uc := newVisualization(t, cache)
	ctx := context.Background()

	cache.On("GetView", ctx, "12951", uint64(1), usecase.ViewSegments).Return(nil, stderrors.New("redis down"))
	cache.On("SetView", ctx, "12951", uint64(1), usecase.ViewSegments, mock.Anything, viewTTL).Return(stderrors.New("redis down"))

	view, _, err := uc.Segments(ctx, "12951")
	require.NoError(t, err)
	require.Len(t, view.Segments, 2)
	require.Len(t, view.Coaches, 1)
	assert.Len(t, view.Coaches[0].Berths, domain.SleeperBerthsPerCoach)
	assert.Equal(t, []string{"1000000001"}, view.Coaches[0].Berths[0].SegmentOccupancy[0])
}

func TestVisualizationUseCase_WithoutCache(t *testing.T) {
	f, uc := newVisualization(t, nil)
	ctx := context.Background()

	_, err := f.uc.ProcessArrival(ctx, "12951")
	require.NoError(t, err)
	_, err = f.uc.Advance(ctx, "12951")
	require.NoError(t, err)

	vacancies, _, err := uc.Vacancies(ctx, "12951")
	require.NoError(t, err)
	require.NotEmpty(t, vacancies)
	for _, v := range vacancies {
		assert.Equal(t, "AGC", v.FromStation)
		assert.Equal(t, "GWL", v.ToStation)
	}

	events, _, err := uc.Events(ctx, "12951")
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, domain.EventTrainInitialized, events[0].Type)
	assert.Equal(t, domain.EventTrainAdvanced, events[2].Type)

	assert.Equal(t, []string{"12951"}, uc.Trains())

	_, _, err = uc.Summary(ctx, "99999")
	assert.ErrorIs(t, err, errors.ErrTrainNotFound)
}

func TestVisualizationUseCase_Passenger(t *testing.T) {
	_, uc := newVisualization(t, nil)
	ctx := context.Background()

	p, err := uc.Passenger(ctx, "12951", "1000000002")
	require.NoError(t, err)
	assert.Equal(t, "S1-2", p.FullBerthNo)
	assert.Equal(t, domain.PNRStatusCNF, p.PNRStatus)
	assert.Equal(t, "NDLS", p.From)

	_, err = uc.Passenger(ctx, "12951", "9999999999")
	assert.ErrorIs(t, err, errors.ErrPassengerNotFound)
}
