package engine

import (
	"fmt"
	"time"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/pkg/errors"
	"go.uber.org/zap"
)

// Статусы элементов пакетного утверждения
const (
	BatchItemApproved = "approved"
	BatchItemFailed   = "failed"
	BatchItemSkipped  = "skipped"
	BatchItemExpired  = "expired"
)

// BatchItemResult - результат по одному предложению
type BatchItemResult struct {
	ID     string `json:"id"`
	PNR    string `json:"pnr,omitempty"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// BatchResult - итог пакетного утверждения
type BatchResult struct {
	TotalProcessed int               `json:"total_processed"`
	TotalApproved  int               `json:"total_approved"`
	Results        []BatchItemResult `json:"results"`
	Upgrades       []Upgrade         `json:"upgrades"`

	// Decisions - предложения, статус которых изменился (для журнала решений)
	Decisions []*domain.PendingReallocation `json:"-"`
}

// stage - записывает предложение вместо немедленного повышения
func (e *Engine) stage(
	state *domain.TrainState,
	p *domain.Passenger,
	v Vacancy,
	station domain.Station,
	now time.Time,
) *domain.PendingReallocation {
	rec := &domain.PendingReallocation{
		ID:            e.opts.NewID(),
		TrainNo:       state.TrainNo,
		PNR:           p.PNR,
		PassengerName: p.Name,
		RACStatus:     p.RACStatus,
		RACNumber:     p.RACNumber,
		CoachNo:       v.CoachNo,
		BerthNo:       v.BerthNo,
		FullBerthNo:   v.FullBerthNo,
		BerthType:     v.BerthType,
		VacantFromIdx: v.FromIdx,
		VacantToIdx:   v.ToIdx,
		StationIdx:    state.CurrentStationIdx,
		StationCode:   station.Code,
		Status:        domain.ReallocationPending,
		CreatedAt:     now,
		ExpiresAt:     now.Add(e.opts.PendingTTL),
	}
	state.Reallocations = append(state.Reallocations, rec)

	state.LogEvent(domain.EventReallocationPending,
		fmt.Sprintf("%s (%s) offered %s, awaiting TTE approval", p.Name, p.RACStatus, v.FullBerthNo),
		p.PNR, now)

	e.logger.Info("Reallocation staged for approval",
		zap.String("train_no", state.TrainNo),
		zap.String("id", rec.ID),
		zap.String("pnr", p.PNR),
		zap.String("berth", v.FullBerthNo),
	)
	return rec
}

// ApproveBatch применяет подготовленные повышения. Каждое предложение заново
// проверяется по текущему состоянию; ошибка одного не влияет на остальные.
func (e *Engine) ApproveBatch(state *domain.TrainState, ids []string, tteID string) (*BatchResult, error) {
	if e.opts.Mode != domain.ModeApproval {
		return nil, errors.ErrNotApprovalMode
	}

	now := e.now()
	result := &BatchResult{
		Results:   make([]BatchItemResult, 0, len(ids)),
		Upgrades:  []Upgrade{},
		Decisions: []*domain.PendingReallocation{},
	}
	seen := make(map[string]bool, len(ids))

	for _, id := range ids {
		result.TotalProcessed++
		if seen[id] {
			result.Results = append(result.Results, BatchItemResult{ID: id, Status: BatchItemSkipped, Reason: "Duplicate id in batch"})
			continue
		}
		seen[id] = true

		item := e.approveOne(state, id, tteID, now, result)
		result.Results = append(result.Results, item)
		if item.Status == BatchItemApproved {
			result.TotalApproved++
		}
	}

	if len(result.Decisions) > 0 {
		e.finish(state, now)
	}

	e.logger.Info("Reallocation batch processed",
		zap.String("train_no", state.TrainNo),
		zap.String("tte_id", tteID),
		zap.Int("processed", result.TotalProcessed),
		zap.Int("approved", result.TotalApproved),
	)
	return result, nil
}

func (e *Engine) approveOne(
	state *domain.TrainState,
	id, tteID string,
	now time.Time,
	result *BatchResult,
) BatchItemResult {
	rec := state.FindReallocation(id)
	if rec == nil {
		return BatchItemResult{ID: id, Status: BatchItemFailed, Reason: "Reallocation not found"}
	}
	item := BatchItemResult{ID: id, PNR: rec.PNR}

	if rec.Status != domain.ReallocationPending {
		item.Status = BatchItemSkipped
		item.Reason = fmt.Sprintf("Reallocation is %s", rec.Status)
		return item
	}
	if !rec.IsLive(now) {
		e.expireOne(state, rec, now)
		result.Decisions = append(result.Decisions, rec)
		item.Status = BatchItemExpired
		item.Reason = rec.Reason
		return item
	}

	fail := func(reason string) BatchItemResult {
		rec.Fail(tteID, reason, now)
		result.Decisions = append(result.Decisions, rec)
		e.logger.Warn("Reallocation approval failed",
			zap.String("id", rec.ID),
			zap.String("pnr", rec.PNR),
			zap.String("reason", reason),
		)
		item.Status = BatchItemFailed
		item.Reason = reason
		return item
	}

	p := state.FindPassenger(rec.PNR)
	if p == nil {
		return fail("Passenger not found")
	}
	berth := state.FindBerth(rec.CoachNo, rec.BerthNo)
	if berth == nil {
		return fail("Berth not found")
	}

	v, ok := vacancyCovering(state, berth, p.RemainingRange(state.CurrentStationIdx))
	if !ok {
		v = newVacancy(state, berth, rec.VacantRange())
	}
	if res := e.CheckEligibility(state, p, v, rec.ID); !res.Eligible {
		return fail(res.Reason)
	}

	up, err := e.allocate(state, p, berth, now)
	if err != nil {
		return fail(err.Error())
	}

	rec.Approve(tteID, now)
	result.Decisions = append(result.Decisions, rec)
	result.Upgrades = append(result.Upgrades, *up)
	state.LogEvent(domain.EventReallocationApproved,
		fmt.Sprintf("Reallocation of %s to %s approved by %s", rec.PNR, rec.FullBerthNo, tteID),
		rec.PNR, now)

	item.Status = BatchItemApproved
	return item
}

// RejectReallocation - отказ TTE от предложения
func (e *Engine) RejectReallocation(state *domain.TrainState, id, tteID, reason string) (*domain.PendingReallocation, error) {
	if e.opts.Mode != domain.ModeApproval {
		return nil, errors.ErrNotApprovalMode
	}
	rec := state.FindReallocation(id)
	if rec == nil {
		return nil, errors.ErrReallocationNotFound
	}
	if rec.Status != domain.ReallocationPending {
		return nil, errors.ErrReallocationNotPending.WithDetails(map[string]interface{}{
			"status": rec.Status,
		})
	}
	if reason == "" {
		reason = "Rejected by TTE"
	}

	now := e.now()
	rec.Reject(tteID, reason, now)
	state.LogEvent(domain.EventReallocationRejected,
		fmt.Sprintf("Reallocation of %s to %s rejected by %s: %s", rec.PNR, rec.FullBerthNo, tteID, reason),
		rec.PNR, now)
	e.finish(state, now)

	e.logger.Info("Reallocation rejected",
		zap.String("train_no", state.TrainNo),
		zap.String("id", rec.ID),
		zap.String("tte_id", tteID),
	)
	return rec, nil
}

// ExpirePending - закрывает просроченные предложения
func (e *Engine) ExpirePending(state *domain.TrainState) []*domain.PendingReallocation {
	now := e.now()
	expired := e.expire(state, now)
	if len(expired) > 0 {
		e.finish(state, now)
	}
	return expired
}

func (e *Engine) expire(state *domain.TrainState, now time.Time) []*domain.PendingReallocation {
	var expired []*domain.PendingReallocation
	for _, rec := range state.Reallocations {
		if rec.Status == domain.ReallocationPending && !rec.IsLive(now) {
			e.expireOne(state, rec, now)
			expired = append(expired, rec)
		}
	}
	return expired
}

func (e *Engine) expireOne(state *domain.TrainState, rec *domain.PendingReallocation, now time.Time) {
	rec.Expire(now)
	state.LogEvent(domain.EventReallocationExpired,
		fmt.Sprintf("Offer of %s to %s expired", rec.FullBerthNo, rec.PNR),
		rec.PNR, now)
	e.logger.Info("Reallocation expired",
		zap.String("train_no", state.TrainNo),
		zap.String("id", rec.ID),
		zap.String("pnr", rec.PNR),
	)
}

// withdrawOffers - закрывает действующие предложения пассажира, покинувшего поезд,
// чтобы полка снова стала доступна остальным
func (e *Engine) withdrawOffers(state *domain.TrainState, pnr, reason string, now time.Time) []*domain.PendingReallocation {
	var withdrawn []*domain.PendingReallocation
	for _, rec := range state.Reallocations {
		if rec.PNR != pnr || !rec.IsLive(now) {
			continue
		}
		rec.Fail("", reason, now)
		state.LogEvent(domain.EventReallocationFailed,
			fmt.Sprintf("Offer of %s to %s withdrawn: %s", rec.FullBerthNo, rec.PNR, reason),
			rec.PNR, now)
		e.logger.Info("Reallocation withdrawn",
			zap.String("train_no", state.TrainNo),
			zap.String("id", rec.ID),
			zap.String("pnr", rec.PNR),
			zap.String("reason", reason),
		)
		withdrawn = append(withdrawn, rec)
	}
	return withdrawn
}

// ListReallocations - предложения с указанным статусом, пустой статус - все
func ListReallocations(state *domain.TrainState, status domain.ReallocationStatus) []*domain.PendingReallocation {
	out := []*domain.PendingReallocation{}
	for _, rec := range state.Reallocations {
		if status == "" || rec.Status == status {
			out = append(out, rec)
		}
	}
	return out
}
