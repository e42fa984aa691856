package usecase

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/usecase/dto"
	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"
)

// SideEffects - всё, что нужно разослать после изменения, снятое под блокировкой сессии
type SideEffects struct {
	TrainNo   string
	Version   uint64
	Events    []domain.TrainEvent
	Snapshot  *domain.TrainSnapshot
	Decisions []*domain.PendingReallocation
}

func (fx *SideEffects) IsEmpty() bool {
	return fx == nil || (len(fx.Events) == 0 && fx.Snapshot == nil && len(fx.Decisions) == 0)
}

// PublisherOptions - параметры фоновой рассылки
type PublisherOptions struct {
	Concurrency        int
	SnapshotMaxElapsed time.Duration
	Timeout            time.Duration
}

// EventPublisher выполняет побочные эффекты изменений в ограниченном пуле горутин.
// Ошибки только логируются: изменение состояния уже применено.
type EventPublisher struct {
	streams   repository.StreamRepository
	snapshots repository.SnapshotRepository
	decisions repository.ReallocationRepository
	opts      PublisherOptions
	pool      *pool.Pool
	logger    *zap.Logger
}

// NewEventPublisher - любой репозиторий может быть nil, соответствующий эффект пропускается
func NewEventPublisher(
	streams repository.StreamRepository,
	snapshots repository.SnapshotRepository,
	decisions repository.ReallocationRepository,
	opts PublisherOptions,
	logger *zap.Logger,
) *EventPublisher {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.SnapshotMaxElapsed <= 0 {
		opts.SnapshotMaxElapsed = 10 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &EventPublisher{
		streams:   streams,
		snapshots: snapshots,
		decisions: decisions,
		opts:      opts,
		pool:      pool.New().WithMaxGoroutines(opts.Concurrency),
		logger:    logger,
	}
}

// Capture снимает побочные эффекты. Вызывается внутри Session.Mutate.
func (p *EventPublisher) Capture(
	state *domain.TrainState,
	mode domain.ReallocationMode,
	events []domain.TrainEvent,
	decisions []*domain.PendingReallocation,
) *SideEffects {
	copies, err := dto.CopyReallocationPointers(decisions)
	if err != nil {
		p.logger.Error("Failed to copy reallocation decisions",
			zap.String("train_no", state.TrainNo),
			zap.Int("count", len(decisions)),
			zap.Error(err))
	}
	fx := &SideEffects{
		TrainNo:   state.TrainNo,
		Version:   state.Version,
		Events:    events,
		Decisions: copies,
	}
	if p.snapshots == nil {
		return fx
	}

	snapshot, err := dto.NewStateSnapshot(state, mode)
	if err != nil {
		p.logger.Error("Failed to build state snapshot",
			zap.String("train_no", state.TrainNo),
			zap.Error(err))
		return fx
	}
	payload, err := json.Marshal(snapshot)
	if err != nil {
		p.logger.Error("Failed to marshal state snapshot",
			zap.String("train_no", state.TrainNo),
			zap.Error(err))
		return fx
	}
	fx.Snapshot = &domain.TrainSnapshot{
		TrainNo:     state.TrainNo,
		JourneyDate: state.JourneyDate,
		Version:     int64(state.Version),
		StationIdx:  state.CurrentStationIdx,
		Payload:     payload,
		CreatedAt:   time.Now().UTC(),
	}
	return fx
}

// Publish ставит эффекты в пул и возвращается сразу после постановки
func (p *EventPublisher) Publish(fx *SideEffects) {
	if fx.IsEmpty() {
		return
	}

	if p.streams != nil && len(fx.Events) > 0 {
		// порядок событий внутри одного изменения сохраняется
		p.pool.Go(func() { p.publishEvents(fx) })
	}
	if p.snapshots != nil && fx.Snapshot != nil {
		p.pool.Go(func() { p.saveSnapshot(fx) })
	}
	if p.decisions != nil && len(fx.Decisions) > 0 {
		p.pool.Go(func() { p.saveDecisions(fx) })
	}
}

// Wait дожидается всех поставленных задач. Не вызывать параллельно с Publish.
func (p *EventPublisher) Wait() {
	p.pool.Wait()
}

func (p *EventPublisher) publishEvents(fx *SideEffects) {
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.Timeout)
	defer cancel()

	for _, ev := range fx.Events {
		if err := p.streams.PublishToStream(ctx, domain.StreamTrainEvents, ev); err != nil {
			p.logger.Warn("Failed to publish train event",
				zap.String("train_no", fx.TrainNo),
				zap.String("type", string(ev.Type)),
				zap.String("pnr", ev.PNR),
				zap.Error(err))
		}
	}
}

func (p *EventPublisher) saveSnapshot(fx *SideEffects) {
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.Timeout)
	defer cancel()

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 100 * time.Millisecond
	b.MaxElapsedTime = p.opts.SnapshotMaxElapsed

	attempt := 0
	err := backoff.Retry(func() error {
		attempt++
		return p.snapshots.Save(ctx, fx.Snapshot)
	}, backoff.WithContext(b, ctx))
	if err != nil {
		p.logger.Error("Failed to save state snapshot",
			zap.String("train_no", fx.TrainNo),
			zap.Uint64("version", fx.Version),
			zap.Int("attempts", attempt),
			zap.Error(err))
		return
	}

	p.logger.Debug("State snapshot saved",
		zap.String("train_no", fx.TrainNo),
		zap.Uint64("version", fx.Version),
		zap.Int("attempts", attempt))
}

func (p *EventPublisher) saveDecisions(fx *SideEffects) {
	ctx, cancel := context.WithTimeout(context.Background(), p.opts.Timeout)
	defer cancel()

	if err := p.decisions.SaveDecisions(ctx, fx.Decisions); err != nil {
		p.logger.Error("Failed to save reallocation decisions",
			zap.String("train_no", fx.TrainNo),
			zap.Int("count", len(fx.Decisions)),
			zap.Error(err))
	}
}
