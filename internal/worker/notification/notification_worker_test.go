package notification_test

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
	"github.com/rac-reallocation/internal/worker/notification"
)

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

// MockNotifier is a mock of Notifier
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Send(ctx context.Context, n domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func message(t *testing.T, id string, ev domain.TrainEvent) domain.StreamMessage {
	t.Helper()
	data, err := json.Marshal(ev)
	require.NoError(t, err)
	return domain.StreamMessage{ID: id, Data: string(data)}
}

func upgradeEvent() domain.TrainEvent {
	return domain.TrainEvent{
		Type:        domain.EventRACUpgraded,
		TrainNo:     "12951",
		StationIdx:  1,
		StationCode: "AGC",
		PNR:         "2000000001",
		Payload:     map[string]interface{}{"rac_status": "RAC 1", "to_berth": "S1-1"},
		OccurredAt:  time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC),
	}
}

func runWorker(t *testing.T, maxRetries int, msgs []domain.StreamMessage, notifier *MockNotifier) *MockStreamRepository {
	t.Helper()
	streams := &MockStreamRepository{}

	ch := make(chan domain.StreamMessage, len(msgs))
	for _, m := range msgs {
		ch <- m
	}
	close(ch)

	streams.On("CreateConsumerGroup", mock.Anything, domain.StreamTrainEvents, "notifications").Return(nil)
	streams.On("ConsumeStream", mock.Anything, domain.StreamTrainEvents, "notifications", mock.Anything).
		Return((<-chan domain.StreamMessage)(ch), nil)
	streams.On("AckMessage", mock.Anything, domain.StreamTrainEvents, "notifications", mock.Anything).Return(nil)

	w := notification.NewNotificationWorker(streams, notifier, "notifications", maxRetries, zap.NewNop())
	require.NoError(t, w.Start(context.Background()))
	return streams
}

func TestNotificationWorker_DeliversNotifiableEvents(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("Send", mock.Anything, mock.MatchedBy(func(n domain.Notification) bool {
		return n.PNR == "2000000001" && n.Title == "Berth confirmed"
	})).Return(nil).Once()

	arrival := domain.TrainEvent{Type: domain.EventStationArrival, TrainNo: "12951"}
	streams := runWorker(t, 0, []domain.StreamMessage{
		message(t, "1-0", upgradeEvent()),
		message(t, "2-0", arrival),
		{ID: "3-0", Data: "{broken"},
	}, notifier)

	notifier.AssertExpectations(t)
	streams.AssertNumberOfCalls(t, "AckMessage", 3)
}

func TestNotificationWorker_RetriesThenAcks(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("Send", mock.Anything, mock.Anything).Return(stderrors.New("unavailable")).Twice()
	notifier.On("Send", mock.Anything, mock.Anything).Return(nil).Once()

	streams := runWorker(t, 3, []domain.StreamMessage{message(t, "1-0", upgradeEvent())}, notifier)

	notifier.AssertNumberOfCalls(t, "Send", 3)
	streams.AssertCalled(t, "AckMessage", mock.Anything, domain.StreamTrainEvents, "notifications", "1-0")
}

func TestNotificationWorker_GivesUpAfterMaxRetries(t *testing.T) {
	notifier := &MockNotifier{}
	notifier.On("Send", mock.Anything, mock.Anything).Return(stderrors.New("unavailable"))

	streams := runWorker(t, 1, []domain.StreamMessage{message(t, "1-0", upgradeEvent())}, notifier)

	notifier.AssertNumberOfCalls(t, "Send", 2)
	streams.AssertNumberOfCalls(t, "AckMessage", 1)
}

func TestNotificationWorker_ConsumerGroupError(t *testing.T) {
	streams := &MockStreamRepository{}
	streams.On("CreateConsumerGroup", mock.Anything, mock.Anything, mock.Anything).Return(stderrors.New("NOAUTH"))

	w := notification.NewNotificationWorker(streams, &MockNotifier{}, "notifications", 0, zap.NewNop())
	assert.Error(t, w.Start(context.Background()))
	streams.AssertNotCalled(t, "ConsumeStream", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuildNotification(t *testing.T) {
	tests := []struct {
		name  string
		event domain.TrainEvent
		title string
		body  string
	}{
		{
			name:  "upgrade",
			event: upgradeEvent(),
			title: "Berth confirmed",
			body:  "Your RAC 1 ticket on train 12951 is confirmed. New berth: S1-1.",
		},
		{
			name: "pending offer",
			event: domain.TrainEvent{
				Type: domain.EventReallocationPending, TrainNo: "12951", PNR: "2000000001",
				Payload: map[string]interface{}{"berth": "S1-1"},
			},
			title: "Berth upgrade offered",
			body:  "Berth S1-1 on train 12951 is offered to you and awaits TTE approval.",
		},
		{
			name:  "no-show",
			event: domain.TrainEvent{Type: domain.EventNoShow, TrainNo: "12951", StationCode: "NDLS", PNR: "1000000001"},
			title: "Marked as no-show",
			body:  "You were marked as not boarded at NDLS on train 12951. Contact the TTE if you are on board.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := notification.BuildNotification(tt.event)
			assert.Equal(t, tt.event.PNR, n.PNR)
			assert.Equal(t, tt.title, n.Title)
			assert.Equal(t, tt.body, n.Body)
			assert.Equal(t, string(tt.event.Type), n.Data["type"])
		})
	}

	n := notification.BuildNotification(upgradeEvent())
	assert.Equal(t, "S1-1", n.Data["to_berth"])
	assert.Equal(t, "AGC", n.Data["station_code"])
	assert.Equal(t, "1", n.Data["station_idx"])
}
