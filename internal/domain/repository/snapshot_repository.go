package repository

import (
	"context"

	"github.com/rac-reallocation/internal/domain"
)

// SnapshotRepository хранит снимки состояния поезда
type SnapshotRepository interface {
	// Save записывает снимок; повторная запись той же версии не создаёт дубликат
	Save(ctx context.Context, snapshot *domain.TrainSnapshot) error

	// Latest возвращает последний снимок поезда или nil
	Latest(ctx context.Context, trainNo string) (*domain.TrainSnapshot, error)
}
