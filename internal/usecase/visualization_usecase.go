package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/usecase/dto"
	"go.uber.org/zap"
)

// Имена проекций в ключах кеша
const (
	ViewSummary   = "summary"
	ViewStats     = "stats"
	ViewSegments  = "segments"
	ViewVacancies = "vacancies"
	ViewRACQueue  = "rac_queue"
	ViewEvents    = "events"
)

// VisualizationUseCase - проекции состояния поезда для чтения.
// Проекции кешируются по версии состояния, так что изменение поезда делает старые ключи недостижимыми.
type VisualizationUseCase struct {
	registry *Registry
	engine   *engine.Engine
	cache    repository.CacheRepository
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewVisualizationUseCase - cache может быть nil
func NewVisualizationUseCase(
	registry *Registry,
	eng *engine.Engine,
	cache repository.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) *VisualizationUseCase {
	return &VisualizationUseCase{
		registry: registry,
		engine:   eng,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Trains - номера активных поездов
func (uc *VisualizationUseCase) Trains() []string {
	return uc.registry.TrainNumbers()
}

func (uc *VisualizationUseCase) Summary(ctx context.Context, trainNo string) (dto.TrainSummary, uint64, error) {
	return cachedView(ctx, uc, trainNo, ViewSummary, func(s *domain.TrainState) (dto.TrainSummary, error) {
		return dto.NewTrainSummary(s, uc.engine.Mode()), nil
	})
}

func (uc *VisualizationUseCase) Stats(ctx context.Context, trainNo string) (domain.Stats, uint64, error) {
	return cachedView(ctx, uc, trainNo, ViewStats, func(s *domain.TrainState) (domain.Stats, error) {
		return s.Stats, nil
	})
}

// Segments - матрица занятости полок по перегонам
func (uc *VisualizationUseCase) Segments(ctx context.Context, trainNo string) (dto.SegmentsView, uint64, error) {
	return cachedView(ctx, uc, trainNo, ViewSegments, dto.NewSegmentsView)
}

// Vacancies - полки, свободные от текущей станции до конца маршрута
func (uc *VisualizationUseCase) Vacancies(ctx context.Context, trainNo string) ([]engine.Vacancy, uint64, error) {
	return cachedView(ctx, uc, trainNo, ViewVacancies, func(s *domain.TrainState) ([]engine.Vacancy, error) {
		return engine.GetVacantBerths(s), nil
	})
}

func (uc *VisualizationUseCase) RACQueue(ctx context.Context, trainNo string) ([]dto.RACQueueEntry, uint64, error) {
	return cachedView(ctx, uc, trainNo, ViewRACQueue, dto.NewRACQueue)
}

// Events - журнал поезда, последние записи в конце
func (uc *VisualizationUseCase) Events(ctx context.Context, trainNo string) ([]domain.EventLogEntry, uint64, error) {
	return cachedView(ctx, uc, trainNo, ViewEvents, func(s *domain.TrainState) ([]domain.EventLogEntry, error) {
		return append([]domain.EventLogEntry{}, s.EventLog...), nil
	})
}

// Passenger - поиск пассажира по PNR, без кеша
func (uc *VisualizationUseCase) Passenger(ctx context.Context, trainNo, pnr string) (*dto.PassengerView, error) {
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out *dto.PassengerView
	err = sess.Read(func(s *domain.TrainState) error {
		p := s.FindPassenger(pnr)
		if p == nil {
			return errors.ErrPassengerNotFound.WithDetails(map[string]interface{}{"pnr": pnr})
		}
		v, err := dto.NewPassengerView(p)
		if err != nil {
			return err
		}
		out = &v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// cachedView отдаёт проекцию из кеша для текущей версии состояния или строит её под блокировкой чтения.
// Ошибки кеша не прерывают запрос.
func cachedView[T any](
	ctx context.Context,
	uc *VisualizationUseCase,
	trainNo, view string,
	build func(*domain.TrainState) (T, error),
) (T, uint64, error) {
	var zero T
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return zero, 0, err
	}

	var version uint64
	_ = sess.Read(func(s *domain.TrainState) error {
		version = s.Version
		return nil
	})

	if uc.cache != nil {
		cached, err := uc.cache.GetView(ctx, trainNo, version, view)
		if err != nil {
			uc.logger.Warn("Failed to read cached view",
				zap.String("train_no", trainNo),
				zap.String("view", view),
				zap.Error(err))
		} else if cached != nil {
			var out T
			if err := json.Unmarshal(cached, &out); err == nil {
				uc.logger.Debug("View cache hit",
					zap.String("train_no", trainNo),
					zap.String("view", view),
					zap.Uint64("version", version))
				return out, version, nil
			}
		}
	}

	var out T
	err = sess.Read(func(s *domain.TrainState) error {
		version = s.Version
		out, err = build(s)
		return err
	})
	if err != nil {
		return zero, 0, err
	}

	if uc.cache != nil {
		data, err := json.Marshal(out)
		if err == nil {
			err = uc.cache.SetView(ctx, trainNo, version, view, data, uc.cacheTTL)
		}
		if err != nil {
			uc.logger.Warn("Failed to cache view",
				zap.String("train_no", trainNo),
				zap.String("view", view),
				zap.Error(err))
		}
	}
	return out, version, nil
}
