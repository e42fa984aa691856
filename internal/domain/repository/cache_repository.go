package repository

import (
	"context"
	"time"
)

// CacheRepository определяет методы для работы с кешем
type CacheRepository interface {
	// Get получает значение из кеша по ключу; промах - (nil, nil)
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение в кеше с TTL
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение из кеша
	Delete(ctx context.Context, key string) error

	// Exists проверяет существование ключа
	Exists(ctx context.Context, key string) (bool, error)

	// GetView получает закешированную проекцию поезда для версии состояния
	GetView(ctx context.Context, trainNo string, version uint64, view string) ([]byte, error)

	// SetView сохраняет проекцию поезда
	SetView(ctx context.Context, trainNo string, version uint64, view string, data []byte, ttl time.Duration) error

	// InvalidateTrain удаляет все проекции поезда
	InvalidateTrain(ctx context.Context, trainNo string) error
}
