package engine

import (
	"fmt"
	"sort"
	"strings"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/pkg/validator"
	"go.uber.org/zap"
)

// TrainSpec - параметры рейса, не приходящие из списка пассажиров
type TrainSpec struct {
	TrainNo            string
	TrainName          string
	JourneyDate        string
	SleeperCoaches     int
	ThreeTierACCoaches int
}

// RejectedRecord - строка состава, не принятая при загрузке
type RejectedRecord struct {
	PNR    string `json:"pnr"`
	Reason string `json:"reason"`
}

// InitReport - итог загрузки состава
type InitReport struct {
	Placed   int              `json:"placed"`
	Queued   int              `json:"queued"`
	Shared   int              `json:"shared"`
	Unplaced int              `json:"unplaced"`
	Rejected []RejectedRecord `json:"rejected"`
}

// InitializeTrain строит вагоны, размещает CNF пассажиров и заполняет RAC очередь.
// Некорректные строки пассажиров попадают в отчёт и не прерывают загрузку.
func (e *Engine) InitializeTrain(
	spec TrainSpec,
	stationRecords []domain.StationRecord,
	passengerRecords []domain.PassengerRecord,
) (*domain.TrainState, *InitReport, error) {
	stations, err := buildStations(stationRecords)
	if err != nil {
		return nil, nil, err
	}
	if spec.SleeperCoaches+spec.ThreeTierACCoaches <= 0 {
		return nil, nil, errors.ErrInvalidRoster.WithMessage("Train has no coaches configured")
	}

	now := e.now()
	coaches := domain.BuildCoaches(spec.SleeperCoaches, spec.ThreeTierACCoaches, len(stations)-1)
	state := domain.NewTrainState(spec.TrainNo, spec.TrainName, spec.JourneyDate, stations, coaches, now)
	resolve := stationResolver(stations)

	report := &InitReport{Rejected: []RejectedRecord{}}
	reject := func(pnr, reason string) {
		report.Rejected = append(report.Rejected, RejectedRecord{PNR: pnr, Reason: reason})
		e.logger.Debug("Roster record rejected", zap.String("pnr", pnr), zap.String("reason", reason))
	}

	for i := range passengerRecords {
		rec := passengerRecords[i]
		rec.PNR = strings.TrimSpace(rec.PNR)

		if err := validator.ValidateVar(rec.PNR, "required,pnr"); err != nil {
			reject(rec.PNR, "Invalid PNR")
			continue
		}
		if _, dup := state.Passengers[rec.PNR]; dup {
			reject(rec.PNR, "Duplicate PNR")
			continue
		}
		if err := validator.Validate(rec); err != nil {
			reject(rec.PNR, fmt.Sprintf("Invalid record: %v", err))
			continue
		}

		status, err := domain.ParsePNRStatus(rec.PNRStatus)
		if err != nil {
			reject(rec.PNR, fmt.Sprintf("Unknown PNR status %q", rec.PNRStatus))
			continue
		}

		fromIdx, ok := resolve(rec.BoardingStation)
		if !ok {
			reject(rec.PNR, fmt.Sprintf("Unknown boarding station %q", rec.BoardingStation))
			continue
		}
		toIdx, ok := resolve(rec.DeboardingStation)
		if !ok {
			reject(rec.PNR, fmt.Sprintf("Unknown deboarding station %q", rec.DeboardingStation))
			continue
		}
		if fromIdx >= toIdx {
			reject(rec.PNR, "Boarding station must precede deboarding station")
			continue
		}

		p := &domain.Passenger{
			PNR:             rec.PNR,
			Name:            strings.TrimSpace(rec.Name),
			Age:             rec.Age,
			Gender:          rec.Gender,
			Class:           domain.NormalizeClass(rec.Class),
			From:            stations[fromIdx].Code,
			To:              stations[toIdx].Code,
			FromIdx:         fromIdx,
			ToIdx:           toIdx,
			PNRStatus:       status,
			RACStatus:       "-",
			PassengerStatus: domain.ParsePassengerStatus(rec.PassengerStatus),
			NoShow:          rec.NoShow,
		}
		coachNo := strings.ToUpper(strings.TrimSpace(rec.Coach))

		switch status {
		case domain.PNRStatusCNF:
			berth := state.FindBerth(coachNo, rec.Berth)
			if berth == nil {
				reject(rec.PNR, fmt.Sprintf("Berth %s not found", domain.FullBerthNo(coachNo, rec.Berth)))
				continue
			}
			if !berth.IsAvailableForSegment(fromIdx, toIdx) {
				reject(rec.PNR, fmt.Sprintf("Berth %s not available for %s", berth.FullBerthNo, p.Range()))
				continue
			}
			berth.AddPassenger(p)
			report.Placed++

		case domain.PNRStatusRAC:
			p.RACStatus = domain.NormalizeRACStatus(rec.RACStatus)
			state.RACQueue.Add(p)
			report.Queued++
			// RAC пассажир делит боковую нижнюю, если она ему назначена и свободна
			if berth := state.FindBerth(coachNo, rec.Berth); berth != nil &&
				berth.CanAccommodateRAC() && berth.IsAvailableForSegment(fromIdx, toIdx) {
				berth.AddPassenger(p)
				report.Shared++
			}

		default:
			report.Unplaced++
		}

		state.Passengers[p.PNR] = p
	}

	state.RecomputeStats(now)
	state.LogEvent(domain.EventTrainInitialized,
		fmt.Sprintf("Train initialized: %d passengers, %d in RAC queue", len(state.Passengers), state.RACQueue.Len()),
		"", now)
	state.Touch()

	e.logger.Info("Train initialized",
		zap.String("train_no", state.TrainNo),
		zap.Int("stations", len(stations)),
		zap.Int("coaches", len(coaches)),
		zap.Int("placed", report.Placed),
		zap.Int("queued", report.Queued),
		zap.Int("rejected", len(report.Rejected)),
	)

	return state, report, nil
}

// buildStations - сортировка по порядковому номеру и перенумерация с нуля
func buildStations(records []domain.StationRecord) ([]domain.Station, error) {
	if len(records) < 2 {
		return nil, errors.ErrInvalidRoster.WithMessage("At least 2 stations are required")
	}

	sorted := make([]domain.StationRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].SNO < sorted[j].SNO })

	seen := make(map[string]bool, len(sorted))
	stations := make([]domain.Station, 0, len(sorted))
	for i, rec := range sorted {
		if err := validator.Validate(rec); err != nil {
			return nil, errors.ErrInvalidRoster.WithDetails(map[string]interface{}{
				"station": rec.Code,
				"cause":   err.Error(),
			})
		}
		code := strings.ToUpper(strings.TrimSpace(rec.Code))
		if seen[code] {
			return nil, errors.ErrInvalidRoster.WithMessage(fmt.Sprintf("Duplicate station code %s", code))
		}
		seen[code] = true

		name := strings.TrimSpace(rec.Name)
		if name == "" {
			name = code
		}
		stations = append(stations, domain.Station{
			Idx:       i,
			SNO:       rec.SNO,
			Code:      code,
			Name:      name,
			Distance:  rec.Distance,
			Arrival:   rec.Arrival,
			Departure: rec.Departure,
		})
	}
	return stations, nil
}

// stationResolver - поиск индекса станции по коду или названию без учёта регистра
func stationResolver(stations []domain.Station) func(string) (int, bool) {
	index := make(map[string]int, len(stations)*2)
	for _, st := range stations {
		index[strings.ToLower(st.Name)] = st.Idx
	}
	// коды важнее названий
	for _, st := range stations {
		index[strings.ToLower(st.Code)] = st.Idx
	}
	return func(s string) (int, bool) {
		idx, ok := index[strings.ToLower(strings.TrimSpace(s))]
		return idx, ok
	}
}
