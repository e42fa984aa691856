package firebase

import (
	"context"
	"encoding/base64"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rac-reallocation/internal/config"
	"github.com/rac-reallocation/internal/domain"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// topicPrefix - пассажир подписан на тему pnr-<PNR>
const topicPrefix = "pnr-"

// Topic - тема FCM для пассажира
func Topic(pnr string) string {
	return topicPrefix + pnr
}

// Notifier отправляет push уведомления через Firebase Cloud Messaging
type Notifier struct {
	client *messaging.Client
	logger *zap.Logger
}

// NewNotifier создаёт клиента FCM из сервисного аккаунта в base64
func NewNotifier(ctx context.Context, cfg *config.FirebaseConfig, logger *zap.Logger) (*Notifier, error) {
	if cfg.CredentialsBase64 == "" {
		return nil, fmt.Errorf("firebase credentials are not configured")
	}

	credentials, err := base64.StdEncoding.DecodeString(cfg.CredentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("failed to decode firebase credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsJSON(credentials))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}

	logger.Info("Firebase messaging client initialized")
	return &Notifier{client: client, logger: logger}, nil
}

// Send отправляет уведомление в тему пассажира
func (n *Notifier) Send(ctx context.Context, notification domain.Notification) error {
	msg := &messaging.Message{
		Topic: Topic(notification.PNR),
		Notification: &messaging.Notification{
			Title: notification.Title,
			Body:  notification.Body,
		},
		Data: notification.Data,
	}

	id, err := n.client.Send(ctx, msg)
	if err != nil {
		return fmt.Errorf("failed to send push to %s: %w", msg.Topic, err)
	}

	n.logger.Debug("Push notification sent",
		zap.String("pnr", notification.PNR),
		zap.String("message_id", id))
	return nil
}

// LogNotifier - замена FCM, когда Firebase выключен: уведомления только пишутся в лог
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, notification domain.Notification) error {
	n.logger.Info("Push notification",
		zap.String("topic", Topic(notification.PNR)),
		zap.String("title", notification.Title),
		zap.String("body", notification.Body))
	return nil
}
