package engine

import (
	"fmt"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/pkg/errors"
	"go.uber.org/zap"
)

// MarkNoShow отмечает неявку. Севший пассажир и повторная отметка - ошибка без изменений.
func (e *Engine) MarkNoShow(state *domain.TrainState, pnr string) (*domain.Passenger, error) {
	p := state.FindPassenger(pnr)
	if p == nil {
		return nil, errors.ErrPassengerNotFound
	}
	if p.Boarded {
		return nil, errors.ErrAlreadyBoarded
	}
	if p.NoShow {
		return nil, errors.ErrAlreadyNoShow
	}
	if !p.IsCNF() && !p.IsRAC() {
		return nil, errors.ErrInvalidRequest.WithMessage("Only CNF and RAC passengers can be marked as NO-SHOW")
	}

	now := e.now()
	p.NoShow = true
	p.NoShowAt = &now

	state.LogEvent(domain.EventNoShow, fmt.Sprintf("%s marked as NO-SHOW", p.Name), p.PNR, now)
	e.finish(state, now)

	e.logger.Info("Passenger marked as no-show",
		zap.String("train_no", state.TrainNo),
		zap.String("pnr", pnr),
	)
	return p, nil
}

// RevertNoShow снимает отметку о неявке в пределах окна отмены.
// Если место уже освобождено, пассажир возвращается на свою полку только когда она свободна.
func (e *Engine) RevertNoShow(state *domain.TrainState, pnr string) (*domain.Passenger, error) {
	p := state.FindPassenger(pnr)
	if p == nil {
		return nil, errors.ErrPassengerNotFound
	}
	if !p.NoShow {
		return nil, errors.ErrNotNoShow
	}

	now := e.now()
	if window := e.opts.NoShowRevertWindow; window > 0 && p.NoShowAt != nil && now.Sub(*p.NoShowAt) > window {
		return nil, errors.ErrRevertWindowExpired
	}

	if p.NoShowSwept {
		if p.ToIdx <= state.CurrentStationIdx {
			return nil, errors.ErrRevertConflict.WithMessage("Cannot revert NO-SHOW: journey already ended")
		}
		if p.HasBerth() {
			berth := state.FindBerth(p.CoachNo, p.BerthNo)
			if berth == nil {
				return nil, errors.ErrBerthNotFound
			}
			if !berth.IsAvailableForSegment(p.FromIdx, p.ToIdx) ||
				state.LivePendingOnBerth(berth.CoachNo, berth.BerthNo, p.Range(), now) != nil {
				return nil, errors.ErrRevertConflict.WithDetails(map[string]interface{}{
					"berth": berth.FullBerthNo,
				})
			}
			berth.AddPassenger(p)
		}
		if p.IsRAC() {
			state.RACQueue.Add(p)
		}
		p.NoShowSwept = false
		if state.Stats.TotalNoShows > 0 {
			state.Stats.TotalNoShows--
		}
	}

	p.NoShow = false
	p.NoShowAt = nil
	if state.ProcessedStationIdx >= p.FromIdx && !p.Boarded {
		p.Boarded = true
		state.Stats.TotalBoarded++
	}

	state.LogEvent(domain.EventNoShowReverted, fmt.Sprintf("NO-SHOW reverted for %s", p.Name), p.PNR, now)
	e.finish(state, now)

	e.logger.Info("No-show reverted",
		zap.String("train_no", state.TrainNo),
		zap.String("pnr", pnr),
		zap.Bool("boarded", p.Boarded),
	)
	return p, nil
}
