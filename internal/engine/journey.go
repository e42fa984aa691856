package engine

import (
	"fmt"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/pkg/errors"
	"go.uber.org/zap"
)

// Advance переводит поезд на следующую станцию.
// Прибытие на текущую станцию должно быть обработано.
func (e *Engine) Advance(state *domain.TrainState) (domain.Station, error) {
	if !state.IsCurrentStationProcessed() {
		return domain.Station{}, errors.ErrStationNotProcessed
	}
	if state.CurrentStationIdx >= state.LastStationIdx() {
		return domain.Station{}, errors.ErrJourneyComplete
	}

	now := e.now()
	state.CurrentStationIdx++
	next := state.Stations[state.CurrentStationIdx]

	state.LogEvent(domain.EventTrainAdvanced, fmt.Sprintf("Train departed towards %s", next.Code), "", now)
	e.finish(state, now)

	e.logger.Info("Train advanced",
		zap.String("train_no", state.TrainNo),
		zap.String("station", next.Code),
		zap.Int("station_idx", state.CurrentStationIdx),
	)
	return next, nil
}
