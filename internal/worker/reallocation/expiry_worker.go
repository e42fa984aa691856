package reallocation

import (
	"context"
	"time"

	"github.com/rac-reallocation/internal/worker"
	"go.uber.org/zap"
)

// Expirer - истечение просроченных предложений во всех активных поездах
type Expirer interface {
	ExpireAll(ctx context.Context) int
}

// ExpiryWorker периодически переводит просроченные предложения в expired
type ExpiryWorker struct {
	*worker.BaseWorker
	expirer  Expirer
	interval time.Duration
}

// NewExpiryWorker создает новый ExpiryWorker
func NewExpiryWorker(expirer Expirer, interval time.Duration, logger *zap.Logger) *ExpiryWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &ExpiryWorker{
		BaseWorker: worker.NewBaseWorker("reallocation-expiry", "", logger),
		expirer:    expirer,
		interval:   interval,
	}
}

// Start запускает воркер
func (w *ExpiryWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting ExpiryWorker", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil

		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()

		case <-ticker.C:
			if n := w.expirer.ExpireAll(ctx); n > 0 {
				logger.Debug("Expiry sweep finished", zap.Int("expired", n))
			}
		}
	}
}
