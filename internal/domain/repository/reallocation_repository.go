package repository

import (
	"context"

	"github.com/rac-reallocation/internal/domain"
)

// ReallocationRepository - журнал решений по предложениям RAC -> CNF
type ReallocationRepository interface {
	// SaveDecisions сохраняет или обновляет записи по ID
	SaveDecisions(ctx context.Context, records []*domain.PendingReallocation) error

	// ListByTrain возвращает последние решения по поезду, новые первыми
	ListByTrain(ctx context.Context, trainNo string, limit int) ([]*domain.PendingReallocation, error)

	// ListByPNRs возвращает историю решений для набора пассажиров
	ListByPNRs(ctx context.Context, trainNo string, pnrs []string) ([]*domain.PendingReallocation, error)
}
