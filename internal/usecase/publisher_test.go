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
	"github.com/rac-reallocation/internal/usecase"
)

func publisherState() *domain.TrainState {
	stations := []domain.Station{
		{Idx: 0, Code: "NDLS", Distance: 0},
		{Idx: 1, Code: "AGC", Distance: 195},
	}
	coaches := domain.BuildCoaches(1, 0, 1)
	s := domain.NewTrainState("12951", "Test Express", "2025-01-10", stations, coaches, journeyStart)
	s.Version = 7
	return s
}

func TestEventPublisher_CaptureAndPublish(t *testing.T) {
	streams := &MockStreamRepository{}
	snapshots := &MockSnapshotRepository{}
	decisions := &MockReallocationRepository{}

	streams.On("PublishToStream", mock.Anything, domain.StreamTrainEvents, mock.AnythingOfType("domain.TrainEvent")).Return(nil)
	snapshots.On("Save", mock.Anything, mock.MatchedBy(func(s *domain.TrainSnapshot) bool {
		return s.TrainNo == "12951" && s.Version == 7
	})).Return(nil)
	decisions.On("SaveDecisions", mock.Anything, mock.MatchedBy(func(records []*domain.PendingReallocation) bool {
		return len(records) == 1 && records[0].ID == "r-1"
	})).Return(nil)

	p := usecase.NewEventPublisher(streams, snapshots, decisions, usecase.PublisherOptions{}, zap.NewNop())
	state := publisherState()
	rec := &domain.PendingReallocation{ID: "r-1", PNR: "2000000001", Status: domain.ReallocationPending}
	events := []domain.TrainEvent{
		domain.NewTrainEvent(domain.EventStationArrival, state, "", nil, journeyStart),
		domain.NewTrainEvent(domain.EventReallocationPending, state, rec.PNR, nil, journeyStart),
	}

	fx := p.Capture(state, domain.ModeApproval, events, []*domain.PendingReallocation{rec})
	require.NotNil(t, fx.Snapshot)
	assert.Equal(t, uint64(7), fx.Version)
	assert.NotSame(t, rec, fx.Decisions[0])

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(fx.Snapshot.Payload, &payload))
	assert.Contains(t, payload, "summary")
	assert.Contains(t, payload, "coaches")

	// изменение после Capture не попадает в эффекты
	rec.Status = domain.ReallocationApproved
	assert.Equal(t, domain.ReallocationPending, fx.Decisions[0].Status)

	p.Publish(fx)
	p.Wait()

	assert.Equal(t, []domain.EventType{domain.EventStationArrival, domain.EventReallocationPending}, streams.published())
	streams.AssertExpectations(t)
	snapshots.AssertExpectations(t)
	decisions.AssertExpectations(t)
}

func TestEventPublisher_SnapshotRetried(t *testing.T) {
	snapshots := &MockSnapshotRepository{}
	snapshots.On("Save", mock.Anything, mock.Anything).Return(stderrors.New("connection reset")).Once()
	snapshots.On("Save", mock.Anything, mock.Anything).Return(nil).Once()

	p := usecase.NewEventPublisher(nil, snapshots, nil, usecase.PublisherOptions{SnapshotMaxElapsed: 5 * time.Second}, zap.NewNop())
	p.Publish(p.Capture(publisherState(), domain.ModeAuto, nil, nil))
	p.Wait()

	snapshots.AssertNumberOfCalls(t, "Save", 2)
}

func TestEventPublisher_FailuresAreNotFatal(t *testing.T) {
	streams := &MockStreamRepository{}
	streams.On("PublishToStream", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("redis down"))

	p := usecase.NewEventPublisher(streams, nil, nil, usecase.PublisherOptions{}, zap.NewNop())
	state := publisherState()
	fx := p.Capture(state, domain.ModeAuto, []domain.TrainEvent{
		domain.NewTrainEvent(domain.EventTrainAdvanced, state, "", nil, journeyStart),
		domain.NewTrainEvent(domain.EventNoShow, state, "1000000001", nil, journeyStart),
	}, nil)
	assert.Nil(t, fx.Snapshot)

	p.Publish(fx)
	p.Wait()

	// ошибка первого события не отменяет второе
	streams.AssertNumberOfCalls(t, "PublishToStream", 2)
}

func TestSideEffects_IsEmpty(t *testing.T) {
	var fx *usecase.SideEffects
	assert.True(t, fx.IsEmpty())
	assert.True(t, (&usecase.SideEffects{TrainNo: "12951"}).IsEmpty())
	assert.False(t, (&usecase.SideEffects{Events: []domain.TrainEvent{{}}}).IsEmpty())

	p := usecase.NewEventPublisher(nil, nil, nil, usecase.PublisherOptions{}, zap.NewNop())
	p.Publish(nil)
	p.Wait()
}

func TestEventPublisher_SnapshotGivesUp(t *testing.T) {
	snapshots := &MockSnapshotRepository{}
	snapshots.On("Save", mock.Anything, mock.Anything).Return(context.DeadlineExceeded)

	p := usecase.NewEventPublisher(nil, snapshots, nil, usecase.PublisherOptions{
		SnapshotMaxElapsed: 300 * time.Millisecond,
	}, zap.NewNop())
	p.Publish(p.Capture(publisherState(), domain.ModeAuto, nil, nil))
	p.Wait()

	assert.GreaterOrEqual(t, len(snapshots.Calls), 1)
}
