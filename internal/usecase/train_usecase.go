package usecase

import (
	"context"
	"strings"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/usecase/dto"
	"go.uber.org/zap"
)

// TrainDefaults - параметры поезда, если запрос их не задаёт
type TrainDefaults struct {
	Source             string
	SleeperCoaches     int
	ThreeTierACCoaches int
}

// TrainUseCase - жизненный цикл сессий поезда и станционные события
type TrainUseCase struct {
	registry  *Registry
	engine    *engine.Engine
	rosters   map[string]repository.RosterRepository
	publisher *EventPublisher
	cache     repository.CacheRepository
	defaults  TrainDefaults
	logger    *zap.Logger
}

// NewTrainUseCase - rosters по имени источника (dto.SourceMongo, dto.SourceCSV); cache может быть nil
func NewTrainUseCase(
	registry *Registry,
	eng *engine.Engine,
	rosters map[string]repository.RosterRepository,
	publisher *EventPublisher,
	cache repository.CacheRepository,
	defaults TrainDefaults,
	logger *zap.Logger,
) *TrainUseCase {
	if defaults.Source == "" {
		defaults.Source = dto.SourceMongo
	}
	return &TrainUseCase{
		registry:  registry,
		engine:    eng,
		rosters:   rosters,
		publisher: publisher,
		cache:     cache,
		defaults:  defaults,
		logger:    logger,
	}
}

// Initialize загружает состав из источника и регистрирует новую сессию
func (uc *TrainUseCase) Initialize(ctx context.Context, req dto.InitializeTrainRequest) (*dto.InitializeTrainResponse, error) {
	source := strings.ToLower(req.Source)
	if source == "" {
		source = uc.defaults.Source
	}
	spec := engine.TrainSpec{
		TrainNo:            req.TrainNo,
		TrainName:          req.TrainName,
		JourneyDate:        req.JourneyDate,
		SleeperCoaches:     req.SleeperCoaches,
		ThreeTierACCoaches: req.ThreeTierACCoaches,
	}
	if spec.SleeperCoaches == 0 && spec.ThreeTierACCoaches == 0 {
		spec.SleeperCoaches = uc.defaults.SleeperCoaches
		spec.ThreeTierACCoaches = uc.defaults.ThreeTierACCoaches
	}
	query := repository.RosterQuery{
		TrainNo:        req.TrainNo,
		JourneyDate:    req.JourneyDate,
		StationsPath:   req.StationsPath,
		PassengersPath: req.PassengersPath,
	}

	if _, err := uc.registry.Get(req.TrainNo); err == nil {
		return nil, errors.ErrTrainAlreadyExists.WithDetails(map[string]interface{}{"train_no": req.TrainNo})
	}

	sess, report, err := uc.load(ctx, spec, source, query)
	if err != nil {
		return nil, err
	}
	if err := uc.registry.Add(req.TrainNo, sess); err != nil {
		return nil, err
	}

	return uc.initialized(sess, report), nil
}

// Reset отбрасывает сессию и загружает состав заново из того же источника
func (uc *TrainUseCase) Reset(ctx context.Context, trainNo string) (*dto.InitializeTrainResponse, error) {
	old, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}
	source, query := old.Source()

	sess, report, err := uc.load(ctx, old.Spec(), source, query)
	if err != nil {
		return nil, err
	}
	uc.registry.Replace(trainNo, sess)
	uc.invalidate(ctx, trainNo)

	uc.logger.Info("Train reset", zap.String("train_no", trainNo))
	return uc.initialized(sess, report), nil
}

// Delete завершает сессию поезда
func (uc *TrainUseCase) Delete(ctx context.Context, trainNo string) error {
	if !uc.registry.Remove(trainNo) {
		return errors.ErrTrainNotFound.WithDetails(map[string]interface{}{"train_no": trainNo})
	}
	uc.invalidate(ctx, trainNo)

	uc.logger.Info("Train session deleted", zap.String("train_no", trainNo))
	return nil
}

func (uc *TrainUseCase) load(
	ctx context.Context,
	spec engine.TrainSpec,
	source string,
	query repository.RosterQuery,
) (*Session, *engine.InitReport, error) {
	roster, ok := uc.rosters[source]
	if !ok || roster == nil {
		return nil, nil, errors.ErrInvalidRequest.WithMessage("Roster source " + source + " is not available")
	}

	stations, err := roster.LoadStations(ctx, query)
	if err != nil {
		uc.logger.Error("Failed to load stations", zap.String("train_no", spec.TrainNo), zap.Error(err))
		return nil, nil, errors.Wrap(errors.ErrInvalidRoster.WithMessage("Failed to load stations"), err)
	}
	passengers, err := roster.LoadPassengers(ctx, query)
	if err != nil {
		uc.logger.Error("Failed to load passengers", zap.String("train_no", spec.TrainNo), zap.Error(err))
		return nil, nil, errors.Wrap(errors.ErrInvalidRoster.WithMessage("Failed to load passengers"), err)
	}

	state, report, err := uc.engine.InitializeTrain(spec, stations, passengers)
	if err != nil {
		return nil, nil, err
	}
	return NewSession(state, spec, source, query), report, nil
}

func (uc *TrainUseCase) initialized(sess *Session, report *engine.InitReport) *dto.InitializeTrainResponse {
	resp := &dto.InitializeTrainResponse{Report: report}
	var fx *SideEffects
	_ = sess.Read(func(s *domain.TrainState) error {
		resp.Summary = dto.NewTrainSummary(s, uc.engine.Mode())
		ev := domain.NewTrainEvent(domain.EventTrainInitialized, s, "", map[string]interface{}{
			"passengers": len(s.Passengers),
			"rac_queue":  s.RACQueue.Len(),
		}, uc.engine.Now())
		fx = uc.publisher.Capture(s, uc.engine.Mode(), []domain.TrainEvent{ev}, nil)
		return nil
	})
	uc.publisher.Publish(fx)
	return resp
}

// ProcessArrival - обработка прибытия на текущую станцию
func (uc *TrainUseCase) ProcessArrival(ctx context.Context, trainNo string) (*engine.ArrivalResult, error) {
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out *engine.ArrivalResult
	var fx *SideEffects
	err = sess.Mutate(func(s *domain.TrainState) error {
		res, err := uc.engine.ProcessStationArrival(s)
		if err != nil {
			return err
		}
		if out, err = dto.CopyArrivalResult(res); err != nil {
			// состояние уже изменено: отдаём результат без копии
			uc.logger.Error("Failed to copy arrival result",
				zap.String("train_no", trainNo),
				zap.Error(err))
			out = res
		}
		fx = uc.publisher.Capture(s, uc.engine.Mode(),
			arrivalEvents(s, res, uc.engine.Now()), arrivalDecisions(res))
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(fx)
	return out, nil
}

// Advance - переход к следующей станции
func (uc *TrainUseCase) Advance(ctx context.Context, trainNo string) (*dto.AdvanceResponse, error) {
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out *dto.AdvanceResponse
	var fx *SideEffects
	err = sess.Mutate(func(s *domain.TrainState) error {
		st, err := uc.engine.Advance(s)
		if err != nil {
			return err
		}
		out = &dto.AdvanceResponse{Station: st, Summary: dto.NewTrainSummary(s, uc.engine.Mode())}
		ev := domain.NewTrainEvent(domain.EventTrainAdvanced, s, "", map[string]interface{}{
			"station": st.Code,
		}, uc.engine.Now())
		fx = uc.publisher.Capture(s, uc.engine.Mode(), []domain.TrainEvent{ev}, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(fx)
	return out, nil
}

// MarkNoShow - отметка неявки пассажира
func (uc *TrainUseCase) MarkNoShow(ctx context.Context, trainNo, pnr string) (*dto.NoShowResponse, error) {
	return uc.noShow(trainNo, pnr, domain.EventNoShow, uc.engine.MarkNoShow)
}

// RevertNoShow - отмена неявки в пределах окна
func (uc *TrainUseCase) RevertNoShow(ctx context.Context, trainNo, pnr string) (*dto.NoShowResponse, error) {
	return uc.noShow(trainNo, pnr, domain.EventNoShowReverted, uc.engine.RevertNoShow)
}

func (uc *TrainUseCase) noShow(
	trainNo, pnr string,
	eventType domain.EventType,
	op func(*domain.TrainState, string) (*domain.Passenger, error),
) (*dto.NoShowResponse, error) {
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out *dto.NoShowResponse
	var fx *SideEffects
	err = sess.Mutate(func(s *domain.TrainState) error {
		p, err := op(s, pnr)
		if err != nil {
			return err
		}
		view, err := dto.NewPassengerView(p)
		if err != nil {
			uc.logger.Error("Failed to build passenger view",
				zap.String("train_no", trainNo),
				zap.String("pnr", pnr),
				zap.Error(err))
		}
		out = &dto.NoShowResponse{Passenger: view, Stats: s.Stats}
		fx = uc.publisher.Capture(s, uc.engine.Mode(),
			[]domain.TrainEvent{noShowEvent(s, eventType, p, uc.engine.Now())}, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(fx)
	return out, nil
}

func (uc *TrainUseCase) invalidate(ctx context.Context, trainNo string) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.InvalidateTrain(ctx, trainNo); err != nil {
		uc.logger.Warn("Failed to invalidate train views", zap.String("train_no", trainNo), zap.Error(err))
	}
}
