package engine

import (
	"fmt"
	"time"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/pkg/errors"
	"go.uber.org/zap"
)

// Upgrade - выполненное повышение RAC -> CNF
type Upgrade struct {
	PNR        string `json:"pnr"`
	Name       string `json:"name"`
	RACStatus  string `json:"rac_status"`
	RACNumber  int    `json:"rac_number"`
	FromBerth  string `json:"from_berth,omitempty"`
	ToBerth    string `json:"to_berth"`
	CoachNo    string `json:"coach_no"`
	BerthNo    int    `json:"berth_no"`
	FromIdx    int    `json:"from_idx"`
	ToIdx      int    `json:"to_idx"`
	StationIdx int    `json:"station_idx"`
}

// allocate переводит RAC пассажира на полку target на весь его [FromIdx,ToIdx).
// Нарушение занятости не меняет состояние: полка и очередь остаются как были.
func (e *Engine) allocate(state *domain.TrainState, p *domain.Passenger, target *domain.Berth, now time.Time) (up *Upgrade, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		violation, ok := r.(*domain.InvariantViolation)
		if !ok || e.opts.StrictInvariants {
			panic(r)
		}
		e.logger.Error("Invariant violation during RAC upgrade",
			zap.String("pnr", p.PNR),
			zap.String("berth", target.FullBerthNo),
			zap.Error(violation),
		)
		up = nil
		err = errors.Wrap(errors.ErrInternalServer, violation)
	}()

	source := state.BerthOf(p)
	fromBerth := ""
	if source != nil {
		fromBerth = source.FullBerthNo
	}
	racStatus := p.RACStatus

	// сначала занимаем новую полку: при панике старая остаётся нетронутой
	target.AddPassenger(p)
	if source != nil && source != target {
		source.RemovePassenger(p.PNR)
	}

	at := now
	p.PNRStatus = domain.PNRStatusCNF
	p.UpgradedFrom = racStatus
	p.UpgradedAt = &at
	p.RACStatus = "-"
	state.RACQueue.Remove(p.PNR)
	state.Stats.TotalRACUpgraded++

	state.LogEvent(domain.EventRACUpgraded,
		fmt.Sprintf("%s (%s) upgraded to CNF on %s", p.Name, racStatus, target.FullBerthNo),
		p.PNR, now)

	e.logger.Info("RAC passenger upgraded",
		zap.String("train_no", state.TrainNo),
		zap.String("pnr", p.PNR),
		zap.String("rac_status", racStatus),
		zap.String("berth", target.FullBerthNo),
		zap.Int("station_idx", state.CurrentStationIdx),
	)

	return &Upgrade{
		PNR:        p.PNR,
		Name:       p.Name,
		RACStatus:  racStatus,
		RACNumber:  p.RACNumber,
		FromBerth:  fromBerth,
		ToBerth:    target.FullBerthNo,
		CoachNo:    target.CoachNo,
		BerthNo:    target.BerthNo,
		FromIdx:    p.FromIdx,
		ToIdx:      p.ToIdx,
		StationIdx: state.CurrentStationIdx,
	}, nil
}
