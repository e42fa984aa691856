package dto

import (
	"fmt"

	"github.com/jinzhu/copier"
	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/errors"
)

var deepCopy = copier.Option{DeepCopy: true}

// copyDeep - глубокая копия from в to; ошибка копирования отдаётся как внутренняя
func copyDeep(to, from interface{}) error {
	if err := copier.CopyWithOption(to, from, deepCopy); err != nil {
		return errors.Wrap(errors.ErrInternalServer, fmt.Errorf("copy %T: %w", from, err))
	}
	return nil
}

// NewTrainSummary строит сводку. Вызывается под блокировкой сессии.
func NewTrainSummary(state *domain.TrainState, mode domain.ReallocationMode) TrainSummary {
	s := TrainSummary{
		TrainNo:             state.TrainNo,
		TrainName:           state.TrainName,
		JourneyDate:         state.JourneyDate,
		Mode:                mode,
		CurrentStationIdx:   state.CurrentStationIdx,
		ProcessedStationIdx: state.ProcessedStationIdx,
		JourneyComplete:     state.IsJourneyComplete(),
		Stations:            append([]domain.Station(nil), state.Stations...),
		CoachCount:          len(state.Coaches),
		Stats:               state.Stats,
		Version:             state.Version,
		CreatedAt:           state.CreatedAt,
	}
	if st, ok := state.CurrentStation(); ok {
		s.CurrentStation = &st
	}
	return s
}

func NewPassengerView(p *domain.Passenger) (PassengerView, error) {
	var v PassengerView
	if err := copyDeep(&v, p); err != nil {
		return PassengerView{}, err
	}
	v.FullBerthNo = p.FullBerthNo()
	return v, nil
}

func NewPassengerViews(passengers []*domain.Passenger) ([]PassengerView, error) {
	out := make([]PassengerView, 0, len(passengers))
	for _, p := range passengers {
		v, err := NewPassengerView(p)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func NewRACQueue(state *domain.TrainState) ([]RACQueueEntry, error) {
	entries := state.RACQueue.Entries()
	out := make([]RACQueueEntry, 0, len(entries))
	for i, p := range entries {
		v, err := NewPassengerView(p)
		if err != nil {
			return nil, err
		}
		out = append(out, RACQueueEntry{Position: i + 1, Passenger: v})
	}
	return out, nil
}

func NewCoachSegments(state *domain.TrainState) ([]CoachSegments, error) {
	out := make([]CoachSegments, 0, len(state.Coaches))
	for _, c := range state.Coaches {
		cs := CoachSegments{CoachNo: c.CoachNo, Class: c.Class, Berths: make([]BerthSegments, 0, len(c.Berths))}
		for _, b := range c.Berths {
			var bs BerthSegments
			if err := copyDeep(&bs, b); err != nil {
				return nil, err
			}
			cs.Berths = append(cs.Berths, bs)
		}
		out = append(out, cs)
	}
	return out, nil
}

func NewSegmentsView(state *domain.TrainState) (SegmentsView, error) {
	coaches, err := NewCoachSegments(state)
	if err != nil {
		return SegmentsView{}, err
	}
	return SegmentsView{
		Segments: append([]domain.Segment(nil), state.Segments.Segments...),
		Coaches:  coaches,
	}, nil
}

// CopyReallocations - отвязанные от состояния копии записей
func CopyReallocations(records []*domain.PendingReallocation) ([]domain.PendingReallocation, error) {
	out := make([]domain.PendingReallocation, 0, len(records))
	for _, r := range records {
		var cp domain.PendingReallocation
		if err := copyDeep(&cp, r); err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

// CopyReallocationPointers - то же, но списком указателей для репозиториев
func CopyReallocationPointers(records []*domain.PendingReallocation) ([]*domain.PendingReallocation, error) {
	copies, err := CopyReallocations(records)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.PendingReallocation, len(copies))
	for i := range copies {
		out[i] = &copies[i]
	}
	return out, nil
}

func NewStateSnapshot(state *domain.TrainState, mode domain.ReallocationMode) (StateSnapshot, error) {
	queue := state.RACQueue.Entries()
	pnrs := make([]string, 0, len(queue))
	for _, p := range queue {
		pnrs = append(pnrs, p.PNR)
	}

	passengers, err := NewPassengerViews(state.SortedPassengers())
	if err != nil {
		return StateSnapshot{}, err
	}
	reallocations, err := CopyReallocations(state.Reallocations)
	if err != nil {
		return StateSnapshot{}, err
	}
	coaches, err := NewCoachSegments(state)
	if err != nil {
		return StateSnapshot{}, err
	}

	return StateSnapshot{
		Summary:       NewTrainSummary(state, mode),
		Passengers:    passengers,
		RACQueue:      pnrs,
		Reallocations: reallocations,
		Coaches:       coaches,
	}, nil
}

// CopyArrivalResult - результат станции без ссылок на живое состояние
func CopyArrivalResult(res *engine.ArrivalResult) (*engine.ArrivalResult, error) {
	var out engine.ArrivalResult
	if err := copyDeep(&out, res); err != nil {
		return nil, err
	}
	return &out, nil
}

func CopyBatchResult(res *engine.BatchResult) (*engine.BatchResult, error) {
	var out engine.BatchResult
	if err := copyDeep(&out, res); err != nil {
		return nil, err
	}
	return &out, nil
}
