package usecase

import (
	"context"
	"sort"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/domain/repository"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/usecase/dto"
	"go.uber.org/zap"
)

// DefaultHistoryLimit - сколько решений отдаёт история без явного лимита
const DefaultHistoryLimit = 100

var reallocationStatuses = map[domain.ReallocationStatus]bool{
	domain.ReallocationPending:  true,
	domain.ReallocationApproved: true,
	domain.ReallocationRejected: true,
	domain.ReallocationExpired:  true,
	domain.ReallocationFailed:   true,
}

// ReallocationUseCase - матрица допустимости и работа TTE с предложениями
type ReallocationUseCase struct {
	registry  *Registry
	engine    *engine.Engine
	publisher *EventPublisher
	decisions repository.ReallocationRepository
	logger    *zap.Logger
}

// NewReallocationUseCase - decisions может быть nil, тогда история строится из памяти
func NewReallocationUseCase(
	registry *Registry,
	eng *engine.Engine,
	publisher *EventPublisher,
	decisions repository.ReallocationRepository,
	logger *zap.Logger,
) *ReallocationUseCase {
	return &ReallocationUseCase{
		registry:  registry,
		engine:    eng,
		publisher: publisher,
		decisions: decisions,
		logger:    logger,
	}
}

// Matrix - все допустимые пары (полка, RAC пассажир) с оценкой
func (uc *ReallocationUseCase) Matrix(ctx context.Context, trainNo string) ([]engine.MatrixEntry, error) {
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out []engine.MatrixEntry
	_ = sess.Read(func(s *domain.TrainState) error {
		out = uc.engine.EligibilityMatrix(s)
		return nil
	})
	return out, nil
}

// Diagnostics - отказы по правилам для каждой пары
func (uc *ReallocationUseCase) Diagnostics(ctx context.Context, trainNo string) ([]engine.Diagnostic, error) {
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out []engine.Diagnostic
	_ = sess.Read(func(s *domain.TrainState) error {
		out = uc.engine.EligibilityDiagnostics(s)
		return nil
	})
	return out, nil
}

// List - предложения поезда с фильтром по статусу, пустой статус - все
func (uc *ReallocationUseCase) List(ctx context.Context, trainNo string, status domain.ReallocationStatus) ([]domain.PendingReallocation, error) {
	if status != "" && !reallocationStatuses[status] {
		return nil, errors.ErrInvalidRequest.WithMessage("Unknown reallocation status " + string(status))
	}
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out []domain.PendingReallocation
	err = sess.Read(func(s *domain.TrainState) error {
		out, err = dto.CopyReallocations(engine.ListReallocations(s, status))
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Approve - пакетное подтверждение предложений
func (uc *ReallocationUseCase) Approve(ctx context.Context, trainNo string, req dto.ApproveReallocationsRequest) (*engine.BatchResult, error) {
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out *engine.BatchResult
	var fx *SideEffects
	err = sess.Mutate(func(s *domain.TrainState) error {
		res, err := uc.engine.ApproveBatch(s, req.IDs, req.TTEID)
		if err != nil {
			return err
		}
		if out, err = dto.CopyBatchResult(res); err != nil {
			uc.logger.Error("Failed to copy batch result",
				zap.String("train_no", trainNo),
				zap.Error(err))
			out = res
		}
		fx = uc.publisher.Capture(s, uc.engine.Mode(), batchEvents(s, res, uc.engine.Now()), res.Decisions)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(fx)
	uc.logger.Info("Reallocation batch processed",
		zap.String("train_no", trainNo),
		zap.String("tte_id", req.TTEID),
		zap.Int("processed", out.TotalProcessed),
		zap.Int("approved", out.TotalApproved))
	return out, nil
}

// Reject - отклонение одного предложения
func (uc *ReallocationUseCase) Reject(ctx context.Context, trainNo, id string, req dto.RejectReallocationRequest) (*domain.PendingReallocation, error) {
	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out *domain.PendingReallocation
	var fx *SideEffects
	err = sess.Mutate(func(s *domain.TrainState) error {
		rec, err := uc.engine.RejectReallocation(s, id, req.TTEID, req.Reason)
		if err != nil {
			return err
		}
		records := []*domain.PendingReallocation{rec}
		out = rec
		if copies, err := dto.CopyReallocationPointers(records); err == nil {
			out = copies[0]
		} else {
			uc.logger.Error("Failed to copy rejected reallocation",
				zap.String("train_no", trainNo),
				zap.String("id", id),
				zap.Error(err))
		}
		ev := reallocationEvent(s, domain.EventReallocationRejected, rec, uc.engine.Now())
		fx = uc.publisher.Capture(s, uc.engine.Mode(), []domain.TrainEvent{ev}, records)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.publisher.Publish(fx)
	return out, nil
}

// ExpireAll истекает просроченные предложения во всех поездах, возвращает их число
func (uc *ReallocationUseCase) ExpireAll(ctx context.Context) int {
	total := 0
	for _, trainNo := range uc.registry.TrainNumbers() {
		if ctx.Err() != nil {
			break
		}
		sess, err := uc.registry.Get(trainNo)
		if err != nil {
			// сессию удалили между перечислением и обходом
			continue
		}

		var fx *SideEffects
		_ = sess.Mutate(func(s *domain.TrainState) error {
			expired := uc.engine.ExpirePending(s)
			if len(expired) == 0 {
				return nil
			}
			now := uc.engine.Now()
			events := make([]domain.TrainEvent, 0, len(expired))
			for _, rec := range expired {
				events = append(events, reallocationEvent(s, domain.EventReallocationExpired, rec, now))
			}
			fx = uc.publisher.Capture(s, uc.engine.Mode(), events, expired)
			total += len(expired)
			return nil
		})
		uc.publisher.Publish(fx)
	}

	if total > 0 {
		uc.logger.Info("Expired pending reallocations", zap.Int("count", total))
	}
	return total
}

// History - журнал решений из БД; без БД - записи текущей сессии
func (uc *ReallocationUseCase) History(ctx context.Context, trainNo, pnr string, limit int) ([]*domain.PendingReallocation, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	if uc.decisions != nil {
		if pnr != "" {
			return uc.decisions.ListByPNRs(ctx, trainNo, []string{pnr})
		}
		return uc.decisions.ListByTrain(ctx, trainNo, limit)
	}

	sess, err := uc.registry.Get(trainNo)
	if err != nil {
		return nil, err
	}

	var out []*domain.PendingReallocation
	err = sess.Read(func(s *domain.TrainState) error {
		var records []*domain.PendingReallocation
		for _, rec := range s.Reallocations {
			if pnr == "" || rec.PNR == pnr {
				records = append(records, rec)
			}
		}
		out, err = dto.CopyReallocationPointers(records)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
