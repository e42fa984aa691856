package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/worker"
	"go.uber.org/zap"
)

const (
	retryInitialInterval = 200 * time.Millisecond
	consumeRetryDelay    = time.Second
)

// NotificationWorker читает события поездов и отправляет push пассажирам
type NotificationWorker struct {
	*worker.BaseWorker
	streamRepo repository.StreamRepository
	notifier   repository.Notifier
	maxRetries int
}

// NewNotificationWorker создает новый NotificationWorker
func NewNotificationWorker(
	streamRepo repository.StreamRepository,
	notifier repository.Notifier,
	consumerGroup string,
	maxRetries int,
	logger *zap.Logger,
) *NotificationWorker {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &NotificationWorker{
		BaseWorker: worker.NewBaseWorker("passenger-notifications", consumerGroup, logger),
		streamRepo: streamRepo,
		notifier:   notifier,
		maxRetries: maxRetries,
	}
}

// Start запускает воркер
func (w *NotificationWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting NotificationWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.ConsumerName()),
		zap.Int("max_retries", w.maxRetries))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamTrainEvents, w.ConsumerGroup()); err != nil {
		logger.Error("Failed to create consumer group", zap.Error(err))
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	runCtx, cancel := w.Context(ctx)
	defer cancel()

	for {
		messages, err := w.streamRepo.ConsumeStream(runCtx, domain.StreamTrainEvents, w.ConsumerGroup(), w.ConsumerName())
		if err != nil {
			logger.Error("Failed to start consuming", zap.Error(err))
			if !w.Sleep(runCtx, consumeRetryDelay) {
				return w.exit(ctx)
			}
			continue
		}

		for msg := range messages {
			w.handle(runCtx, msg)
		}

		// канал закрывается только при отмене контекста
		return w.exit(ctx)
	}
}

func (w *NotificationWorker) exit(ctx context.Context) error {
	if ctx.Err() != nil {
		w.Logger().Info("Context cancelled")
		return ctx.Err()
	}
	w.Logger().Info("Worker stopped")
	return nil
}

// handle обрабатывает одно сообщение; битые и нецелевые события подтверждаются сразу
func (w *NotificationWorker) handle(ctx context.Context, msg domain.StreamMessage) {
	logger := w.Logger()
	defer w.ack(ctx, msg.ID)

	var event domain.TrainEvent
	if err := json.Unmarshal([]byte(msg.Data), &event); err != nil {
		logger.Warn("Failed to parse message, skipping",
			zap.String("message_id", msg.ID),
			zap.Error(err))
		return
	}

	if !event.IsNotifiable() {
		return
	}

	n := BuildNotification(event)
	attempts := 0
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval

	err := backoff.Retry(func() error {
		attempts++
		return w.notifier.Send(ctx, n)
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(w.maxRetries)), ctx))
	if err != nil {
		logger.Error("Failed to deliver notification",
			zap.String("message_id", msg.ID),
			zap.String("type", string(event.Type)),
			zap.String("pnr", event.PNR),
			zap.Int("attempts", attempts),
			zap.Error(err))
		return
	}

	logger.Info("Notification delivered",
		zap.String("type", string(event.Type)),
		zap.String("train_no", event.TrainNo),
		zap.String("pnr", event.PNR))
}

func (w *NotificationWorker) ack(ctx context.Context, id string) {
	// подтверждение не должно теряться из-за отмены контекста обработки
	ackCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := w.streamRepo.AckMessage(ackCtx, domain.StreamTrainEvents, w.ConsumerGroup(), id); err != nil {
		w.Logger().Warn("Failed to ack message", zap.String("message_id", id), zap.Error(err))
	}
}

// BuildNotification - текст уведомления по типу события
func BuildNotification(event domain.TrainEvent) domain.Notification {
	p := func(key string) string {
		if v, ok := event.Payload[key]; ok && v != nil {
			return fmt.Sprint(v)
		}
		return ""
	}

	n := domain.Notification{PNR: event.PNR, Data: notificationData(event)}
	switch event.Type {
	case domain.EventRACUpgraded:
		n.Title = "Berth confirmed"
		n.Body = fmt.Sprintf("Your %s ticket on train %s is confirmed. New berth: %s.",
			p("rac_status"), event.TrainNo, p("to_berth"))
	case domain.EventReallocationPending:
		n.Title = "Berth upgrade offered"
		n.Body = fmt.Sprintf("Berth %s on train %s is offered to you and awaits TTE approval.",
			p("berth"), event.TrainNo)
	case domain.EventNoShow:
		n.Title = "Marked as no-show"
		n.Body = fmt.Sprintf("You were marked as not boarded at %s on train %s. Contact the TTE if you are on board.",
			event.StationCode, event.TrainNo)
	case domain.EventNoShowReverted:
		n.Title = "No-show cancelled"
		n.Body = fmt.Sprintf("Your no-show mark on train %s was cancelled. Berth: %s.",
			event.TrainNo, p("berth"))
	default:
		n.Title = string(event.Type)
		n.Body = fmt.Sprintf("Update for train %s", event.TrainNo)
	}
	return n
}

func notificationData(event domain.TrainEvent) map[string]string {
	data := map[string]string{
		"type":        string(event.Type),
		"train_no":    event.TrainNo,
		"pnr":         event.PNR,
		"station_idx": fmt.Sprint(event.StationIdx),
	}
	if event.StationCode != "" {
		data["station_code"] = event.StationCode
	}

	for k, v := range event.Payload {
		if _, taken := data[k]; taken || v == nil {
			continue
		}
		data[k] = fmt.Sprint(v)
	}
	return data
}
