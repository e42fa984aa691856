package usecase_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/usecase"
	"github.com/rac-reallocation/internal/usecase/dto"
)

type trainFixture struct {
	uc        *usecase.TrainUseCase
	registry  *usecase.Registry
	engine    *engine.Engine
	clock     *testClock
	roster    *MockRosterRepository
	streams   *MockStreamRepository
	cache     *MockCacheRepository
	publisher *usecase.EventPublisher
}

func newTrainFixture(t *testing.T, mode domain.ReallocationMode) *trainFixture {
	t.Helper()
	eng, clock := newEngine(mode)
	f := &trainFixture{
		registry: usecase.NewRegistry(),
		engine:   eng,
		clock:    clock,
		roster:   &MockRosterRepository{},
		streams:  &MockStreamRepository{},
		cache:    &MockCacheRepository{},
	}
	f.roster.On("LoadStations", mock.Anything, mock.Anything).Return(stationRecords(), nil)
	f.roster.On("LoadPassengers", mock.Anything, mock.Anything).Return(passengerRecords(), nil)
	f.streams.On("PublishToStream", mock.Anything, domain.StreamTrainEvents, mock.Anything).Return(nil)

	f.publisher = usecase.NewEventPublisher(f.streams, nil, nil, sequential(), zap.NewNop())
	rosters := map[string]repository.RosterRepository{dto.SourceMongo: f.roster}
	f.uc = usecase.NewTrainUseCase(f.registry, eng, rosters, f.publisher, f.cache, trainDefaults(), zap.NewNop())
	return f
}

func (f *trainFixture) initialize(t *testing.T) {
	t.Helper()
	_, err := f.uc.Initialize(context.Background(), initRequest())
	require.NoError(t, err)
}

func TestTrainUseCase_Initialize(t *testing.T) {
	f := newTrainFixture(t, domain.ModeAuto)
	ctx := context.Background()

	resp, err := f.uc.Initialize(ctx, initRequest())
	require.NoError(t, err)
	f.publisher.Wait()

	assert.Equal(t, "12951", resp.Summary.TrainNo)
	assert.Equal(t, "Mumbai Rajdhani", resp.Summary.TrainName)
	assert.Equal(t, domain.ModeAuto, resp.Summary.Mode)
	assert.Equal(t, 1, resp.Summary.CoachCount)
	assert.Len(t, resp.Summary.Stations, 3)
	assert.Equal(t, 3, resp.Report.Placed)
	assert.Equal(t, 1, resp.Report.Queued)
	assert.Empty(t, resp.Report.Rejected)

	f.roster.AssertCalled(t, "LoadStations", mock.Anything, repository.RosterQuery{TrainNo: "12951", JourneyDate: "2025-01-10"})
	assert.Equal(t, []domain.EventType{domain.EventTrainInitialized}, f.streams.published())
	assert.Equal(t, []string{"12951"}, f.registry.TrainNumbers())

	_, err = f.uc.Initialize(ctx, initRequest())
	assert.ErrorIs(t, err, errors.ErrTrainAlreadyExists)
}

func TestTrainUseCase_InitializeErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown source", func(t *testing.T) {
		f := newTrainFixture(t, domain.ModeAuto)
		req := initRequest()
		req.Source = dto.SourceCSV

		_, err := f.uc.Initialize(ctx, req)
		assert.ErrorIs(t, err, errors.ErrInvalidRequest)
		assert.Empty(t, f.registry.TrainNumbers())
	})

	t.Run("roster unavailable", func(t *testing.T) {
		eng, _ := newEngine(domain.ModeAuto)
		roster := &MockRosterRepository{}
		roster.On("LoadStations", mock.Anything, mock.Anything).Return(nil, stderrors.New("server selection timeout"))

		publisher := usecase.NewEventPublisher(nil, nil, nil, usecase.PublisherOptions{}, zap.NewNop())
		uc := usecase.NewTrainUseCase(usecase.NewRegistry(), eng,
			map[string]repository.RosterRepository{dto.SourceMongo: roster},
			publisher, nil, trainDefaults(), zap.NewNop())

		_, err := uc.Initialize(ctx, initRequest())
		require.ErrorIs(t, err, errors.ErrInvalidRoster)
		assert.Equal(t, "server selection timeout", err.(*errors.AppError).Details["cause"])
		roster.AssertNotCalled(t, "LoadPassengers", mock.Anything, mock.Anything)
	})

	t.Run("explicit coach counts override defaults", func(t *testing.T) {
		f := newTrainFixture(t, domain.ModeAuto)
		req := initRequest()
		req.SleeperCoaches = 2
		req.ThreeTierACCoaches = 1

		resp, err := f.uc.Initialize(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 3, resp.Summary.CoachCount)
	})
}

func TestTrainUseCase_JourneyWithAutoUpgrade(t *testing.T) {
	f := newTrainFixture(t, domain.ModeAuto)
	ctx := context.Background()
	f.initialize(t)

	first, err := f.uc.ProcessArrival(ctx, "12951")
	require.NoError(t, err)
	assert.Equal(t, "NDLS", first.Station.Code)
	assert.ElementsMatch(t, []string{"1000000001", "1000000002", "2000000001"}, first.Boarded)
	assert.Empty(t, first.RACAllocated)

	_, err = f.uc.ProcessArrival(ctx, "12951")
	assert.ErrorIs(t, err, errors.ErrStationAlreadyProcessed)

	adv, err := f.uc.Advance(ctx, "12951")
	require.NoError(t, err)
	assert.Equal(t, "AGC", adv.Station.Code)
	assert.Equal(t, 1, adv.Summary.CurrentStationIdx)

	second, err := f.uc.ProcessArrival(ctx, "12951")
	require.NoError(t, err)
	assert.Equal(t, []string{"1000000001"}, second.Deboarded)
	require.Len(t, second.RACAllocated, 1)
	assert.Equal(t, "2000000001", second.RACAllocated[0].PNR)
	assert.Equal(t, "S1-1", second.RACAllocated[0].ToBerth)
	assert.Equal(t, 1, second.Stats.TotalRACUpgraded)

	f.publisher.Wait()
	assert.Equal(t, []domain.EventType{
		domain.EventTrainInitialized,
		domain.EventStationArrival,
		domain.EventTrainAdvanced,
		domain.EventStationArrival,
		domain.EventRACUpgraded,
	}, f.streams.published())
}

func TestTrainUseCase_ArrivalResultIsDetached(t *testing.T) {
	f := newTrainFixture(t, domain.ModeAuto)
	ctx := context.Background()
	f.initialize(t)

	res, err := f.uc.ProcessArrival(ctx, "12951")
	require.NoError(t, err)
	res.Boarded[0] = "tampered"
	res.Stats.TotalBoarded = 100

	sess, err := f.registry.Get("12951")
	require.NoError(t, err)
	_ = sess.Read(func(s *domain.TrainState) error {
		assert.Equal(t, 3, s.Stats.TotalBoarded)
		return nil
	})
}

func TestTrainUseCase_NoShow(t *testing.T) {
	f := newTrainFixture(t, domain.ModeAuto)
	ctx := context.Background()
	f.initialize(t)

	marked, err := f.uc.MarkNoShow(ctx, "12951", "1000000003")
	require.NoError(t, err)
	assert.True(t, marked.Passenger.NoShow)
	assert.Equal(t, "S1-4", marked.Passenger.FullBerthNo)

	_, err = f.uc.MarkNoShow(ctx, "12951", "1000000003")
	assert.ErrorIs(t, err, errors.ErrAlreadyNoShow)

	reverted, err := f.uc.RevertNoShow(ctx, "12951", "1000000003")
	require.NoError(t, err)
	assert.False(t, reverted.Passenger.NoShow)

	_, err = f.uc.MarkNoShow(ctx, "12951", "9999999999")
	assert.ErrorIs(t, err, errors.ErrPassengerNotFound)

	_, err = f.uc.MarkNoShow(ctx, "99999", "1000000003")
	assert.ErrorIs(t, err, errors.ErrTrainNotFound)

	f.publisher.Wait()
	assert.Equal(t, []domain.EventType{
		domain.EventTrainInitialized,
		domain.EventNoShow,
		domain.EventNoShowReverted,
	}, f.streams.published())
}

func TestTrainUseCase_ResetAndDelete(t *testing.T) {
	f := newTrainFixture(t, domain.ModeAuto)
	ctx := context.Background()
	f.initialize(t)
	f.cache.On("InvalidateTrain", mock.Anything, "12951").Return(nil)

	_, err := f.uc.ProcessArrival(ctx, "12951")
	require.NoError(t, err)

	resp, err := f.uc.Reset(ctx, "12951")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.Summary.CurrentStationIdx)
	assert.Equal(t, -1, resp.Summary.ProcessedStationIdx)
	assert.Equal(t, 0, resp.Summary.Stats.TotalBoarded)
	f.roster.AssertNumberOfCalls(t, "LoadPassengers", 2)

	require.NoError(t, f.uc.Delete(ctx, "12951"))
	assert.Empty(t, f.registry.TrainNumbers())
	f.cache.AssertNumberOfCalls(t, "InvalidateTrain", 2)

	err = f.uc.Delete(ctx, "12951")
	assert.ErrorIs(t, err, errors.ErrTrainNotFound)

	_, err = f.uc.Reset(ctx, "12951")
	assert.ErrorIs(t, err, errors.ErrTrainNotFound)
}

func TestTrainUseCase_CacheFailureDoesNotFailDelete(t *testing.T) {
	f := newTrainFixture(t, domain.ModeAuto)
	f.initialize(t)
	f.cache.On("InvalidateTrain", mock.Anything, "12951").Return(stderrors.New("redis down"))

	assert.NoError(t, f.uc.Delete(context.Background(), "12951"))
}
