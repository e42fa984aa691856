package engine

import (
	"fmt"
	"time"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/pkg/errors"
	"go.uber.org/zap"
)

// MatchFailure - участок, повышение на который не удалось применить
type MatchFailure struct {
	PNR         string `json:"pnr"`
	FullBerthNo string `json:"full_berth_no"`
	Reason      string `json:"reason"`
}

// ArrivalResult - итог обработки прибытия на станцию
type ArrivalResult struct {
	Station      domain.Station                `json:"station"`
	StationIdx   int                           `json:"station_idx"`
	Deboarded    []string                      `json:"deboarded"`
	NoShows      []string                      `json:"no_shows"`
	Boarded      []string                      `json:"boarded"`
	RACAllocated []Upgrade                     `json:"rac_allocated"`
	Pending      []*domain.PendingReallocation `json:"pending"`
	Expired      []*domain.PendingReallocation `json:"expired"`
	Withdrawn    []*domain.PendingReallocation `json:"withdrawn"`
	Failures     []MatchFailure                `json:"failures"`
	Vacancies    []Vacancy                     `json:"vacancies"`
	Stats        domain.Stats                  `json:"stats"`
}

// ProcessStationArrival - единственный переход по станции. Шаги идут строго по порядку:
// высадка, снятие неявившихся, поиск свободных участков, подбор RAC, посадка, статистика.
func (e *Engine) ProcessStationArrival(state *domain.TrainState) (*ArrivalResult, error) {
	station, ok := state.CurrentStation()
	if !ok {
		return nil, errors.ErrInvalidStationIndex.WithDetails(map[string]interface{}{
			"current_station_idx": state.CurrentStationIdx,
			"stations":            len(state.Stations),
		})
	}
	if state.IsCurrentStationProcessed() {
		return nil, errors.ErrStationAlreadyProcessed.WithDetails(map[string]interface{}{
			"station": station.Code,
		})
	}

	now := e.now()
	cur := state.CurrentStationIdx
	result := &ArrivalResult{
		Station:      station,
		StationIdx:   cur,
		Deboarded:    []string{},
		NoShows:      []string{},
		Boarded:      []string{},
		RACAllocated: []Upgrade{},
		Pending:      []*domain.PendingReallocation{},
		Expired:      []*domain.PendingReallocation{},
		Withdrawn:    []*domain.PendingReallocation{},
		Failures:     []MatchFailure{},
	}

	// 1. Высадка
	e.deboard(state, now, result)

	// 2. Неявившиеся
	e.sweepNoShows(state, now, result)

	// 3. Свободные участки
	if e.opts.Mode == domain.ModeApproval {
		result.Expired = append(result.Expired, e.expire(state, now)...)
	}
	result.Vacancies = FindVacancies(state)

	// 4. Подбор RAC
	for _, v := range result.Vacancies {
		e.matchVacancy(state, v, station, now, result)
	}

	// 5. Посадка
	e.board(state, result)

	// 6. Статистика
	state.ProcessedStationIdx = cur
	state.LogEvent(domain.EventStationArrival,
		fmt.Sprintf("Arrived at %s: %d deboarded, %d no-shows, %d boarded, %d upgraded, %d pending",
			station.Code, len(result.Deboarded), len(result.NoShows), len(result.Boarded),
			len(result.RACAllocated), len(result.Pending)),
		"", now)
	e.finish(state, now)
	result.Stats = state.Stats

	e.logger.Info("Station arrival processed",
		zap.String("train_no", state.TrainNo),
		zap.String("station", station.Code),
		zap.Int("station_idx", cur),
		zap.Int("deboarded", len(result.Deboarded)),
		zap.Int("no_shows", len(result.NoShows)),
		zap.Int("boarded", len(result.Boarded)),
		zap.Int("vacancies", len(result.Vacancies)),
		zap.Int("upgraded", len(result.RACAllocated)),
		zap.Int("pending", len(result.Pending)),
		zap.Int("withdrawn", len(result.Withdrawn)),
	)

	return result, nil
}

func (e *Engine) deboard(state *domain.TrainState, now time.Time, result *ArrivalResult) {
	cur := state.CurrentStationIdx
	seen := make(map[string]bool)
	mark := func(p *domain.Passenger) {
		if seen[p.PNR] {
			return
		}
		seen[p.PNR] = true
		p.Deboarded = true
		state.Stats.TotalDeboarded++
		result.Deboarded = append(result.Deboarded, p.PNR)
		result.Withdrawn = append(result.Withdrawn, e.withdrawOffers(state, p.PNR, "Passenger deboarded", now)...)
	}

	state.EachBerth(func(b *domain.Berth) {
		for _, p := range b.GetDeboardingPassengers(cur) {
			// неявившихся снимает следующий шаг
			if p.NoShow {
				continue
			}
			b.RemovePassenger(p.PNR)
			mark(p)
		}
	})

	// RAC пассажиры без полки покидают очередь
	for _, p := range state.RACQueue.Entries() {
		if p.ToIdx == cur && !p.NoShow {
			state.RACQueue.Remove(p.PNR)
			mark(p)
		}
	}
}

// sweepNoShows - повторный проход по уже снятым пассажирам ничего не меняет
func (e *Engine) sweepNoShows(state *domain.TrainState, now time.Time, result *ArrivalResult) {
	cur := state.CurrentStationIdx
	for _, p := range state.SortedPassengers() {
		if !p.NoShow || p.Boarded || p.NoShowSwept || p.FromIdx > cur {
			continue
		}
		if b := state.BerthOf(p); b != nil {
			b.RemovePassenger(p.PNR)
		}
		state.RACQueue.Remove(p.PNR)
		p.NoShowSwept = true
		state.Stats.TotalNoShows++
		result.NoShows = append(result.NoShows, p.PNR)
		result.Withdrawn = append(result.Withdrawn, e.withdrawOffers(state, p.PNR, "Passenger did not board", now)...)

		e.logger.Info("No-show passenger released",
			zap.String("train_no", state.TrainNo),
			zap.String("pnr", p.PNR),
			zap.String("berth", p.FullBerthNo()),
		)
	}
}

// matchVacancy - ошибка одного участка не прерывает обработку остальных
func (e *Engine) matchVacancy(
	state *domain.TrainState,
	v Vacancy,
	station domain.Station,
	now time.Time,
	result *ArrivalResult,
) {
	berth := state.FindBerth(v.CoachNo, v.BerthNo)
	if berth == nil {
		return
	}
	if e.opts.Mode == domain.ModeApproval &&
		state.LivePendingOnBerth(v.CoachNo, v.BerthNo, v.Range(), now) != nil {
		return
	}

	p := e.topCandidate(state, v)
	if p == nil {
		return
	}

	if e.opts.Mode == domain.ModeAuto {
		up, err := e.allocate(state, p, berth, now)
		if err != nil {
			result.Failures = append(result.Failures, MatchFailure{
				PNR:         p.PNR,
				FullBerthNo: v.FullBerthNo,
				Reason:      err.Error(),
			})
			return
		}
		result.RACAllocated = append(result.RACAllocated, *up)
		return
	}

	result.Pending = append(result.Pending, e.stage(state, p, v, station, now))
}

func (e *Engine) board(state *domain.TrainState, result *ArrivalResult) {
	cur := state.CurrentStationIdx
	mark := func(p *domain.Passenger) {
		if p.Boarded || p.NoShow {
			return
		}
		p.Boarded = true
		state.Stats.TotalBoarded++
		result.Boarded = append(result.Boarded, p.PNR)
	}

	state.EachBerth(func(b *domain.Berth) {
		for _, p := range b.GetBoardingPassengers(cur) {
			mark(p)
		}
	})
	for _, p := range state.RACQueue.Entries() {
		if p.FromIdx == cur {
			mark(p)
		}
	}
}
