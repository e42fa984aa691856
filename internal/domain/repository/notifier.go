package repository

import (
	"context"

	"github.com/rac-reallocation/internal/domain"
)

// Notifier доставляет push уведомления пассажирам
type Notifier interface {
	Send(ctx context.Context, n domain.Notification) error
}
