package domain

import (
	"sort"
	"time"
)

// TrainState - корневой агрегат одного рейса.
// Не потокобезопасен: вызывающий слой сериализует изменения.
type TrainState struct {
	TrainNo     string `json:"train_no"`
	TrainName   string `json:"train_name"`
	JourneyDate string `json:"journey_date"`

	Stations []Station      `json:"stations"`
	Segments *SegmentMatrix `json:"-"`
	Coaches  []*Coach       `json:"coaches"`
	RACQueue *RACQueue      `json:"-"`

	// Passengers - весь состав пассажиров по PNR, включая WL/CAN
	Passengers map[string]*Passenger `json:"-"`

	CurrentStationIdx int `json:"current_station_idx"`
	// ProcessedStationIdx - последняя станция, прибытие на которую обработано (-1 - ни одной)
	ProcessedStationIdx int `json:"processed_station_idx"`

	Stats         Stats                  `json:"stats"`
	Reallocations []*PendingReallocation `json:"-"`
	EventLog      []EventLogEntry        `json:"-"`

	// Version увеличивается при каждом изменении; используется как ключ кеша проекций
	Version   uint64    `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

func NewTrainState(trainNo, trainName, journeyDate string, stations []Station, coaches []*Coach, at time.Time) *TrainState {
	return &TrainState{
		TrainNo:             trainNo,
		TrainName:           trainName,
		JourneyDate:         journeyDate,
		Stations:            stations,
		Segments:            NewSegmentMatrix(stations),
		Coaches:             coaches,
		RACQueue:            NewRACQueue(),
		Passengers:          make(map[string]*Passenger),
		CurrentStationIdx:   0,
		ProcessedStationIdx: -1,
		CreatedAt:           at,
	}
}

func (s *TrainState) CurrentStation() (Station, bool) {
	if s.CurrentStationIdx < 0 || s.CurrentStationIdx >= len(s.Stations) {
		return Station{}, false
	}
	return s.Stations[s.CurrentStationIdx], true
}

func (s *TrainState) LastStationIdx() int {
	return len(s.Stations) - 1
}

func (s *TrainState) IsCurrentStationProcessed() bool {
	return s.ProcessedStationIdx == s.CurrentStationIdx
}

// IsJourneyComplete - прибытие на конечную станцию обработано
func (s *TrainState) IsJourneyComplete() bool {
	return s.CurrentStationIdx == s.LastStationIdx() && s.IsCurrentStationProcessed()
}

func (s *TrainState) FindCoach(coachNo string) *Coach {
	for _, c := range s.Coaches {
		if c.CoachNo == coachNo {
			return c
		}
	}
	return nil
}

func (s *TrainState) FindBerth(coachNo string, berthNo int) *Berth {
	c := s.FindCoach(coachNo)
	if c == nil {
		return nil
	}
	return c.FindBerth(berthNo)
}

func (s *TrainState) FindPassenger(pnr string) *Passenger {
	return s.Passengers[pnr]
}

// BerthOf - текущая полка пассажира или nil
func (s *TrainState) BerthOf(p *Passenger) *Berth {
	if !p.HasBerth() {
		return nil
	}
	b := s.FindBerth(p.CoachNo, p.BerthNo)
	if b == nil || !b.HasPassenger(p.PNR) {
		return nil
	}
	return b
}

// EachBerth - обход всех полок в порядке вагонов
func (s *TrainState) EachBerth(fn func(*Berth)) {
	for _, c := range s.Coaches {
		for _, b := range c.Berths {
			fn(b)
		}
	}
}

// SortedPassengers - пассажиры в стабильном порядке (по PNR)
func (s *TrainState) SortedPassengers() []*Passenger {
	out := make([]*Passenger, 0, len(s.Passengers))
	for _, p := range s.Passengers {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PNR < out[j].PNR })
	return out
}

func (s *TrainState) FindReallocation(id string) *PendingReallocation {
	for _, r := range s.Reallocations {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// LivePendingFor - действующее предложение для пассажира, кроме exceptID
func (s *TrainState) LivePendingFor(pnr, exceptID string, now time.Time) *PendingReallocation {
	for _, r := range s.Reallocations {
		if r.PNR == pnr && r.ID != exceptID && r.IsLive(now) {
			return r
		}
	}
	return nil
}

// LivePendingOnBerth - действующее предложение на полку с пересекающимся диапазоном
func (s *TrainState) LivePendingOnBerth(coachNo string, berthNo int, rng SegmentRange, now time.Time) *PendingReallocation {
	for _, r := range s.Reallocations {
		if r.CoachNo == coachNo && r.BerthNo == berthNo && r.IsLive(now) &&
			JourneysOverlap(r.VacantFromIdx, r.VacantToIdx, rng.FromIdx, rng.ToIdx) {
			return r
		}
	}
	return nil
}

// LogEvent - добавляет запись в журнал (хранятся последние maxEventLog)
func (s *TrainState) LogEvent(eventType EventType, message, pnr string, at time.Time) {
	s.EventLog = append(s.EventLog, EventLogEntry{
		Type:       eventType,
		Message:    message,
		StationIdx: s.CurrentStationIdx,
		PNR:        pnr,
		At:         at,
	})
	if over := len(s.EventLog) - maxEventLog; over > 0 {
		s.EventLog = append([]EventLogEntry(nil), s.EventLog[over:]...)
	}
}

// Touch - отмечает изменение состояния
func (s *TrainState) Touch() {
	s.Version++
}

// RecomputeStats - пересчёт производных показателей; накопительные не трогаются
func (s *TrainState) RecomputeStats(now time.Time) {
	st := &s.Stats
	st.TotalPassengers = len(s.Passengers)
	st.CurrentOnboard = 0
	st.CNFPassengers = 0
	st.RACCNFPassengers = 0
	for _, p := range s.Passengers {
		if p.IsOnboard() {
			st.CurrentOnboard++
		}
		if p.IsCNF() {
			st.CNFPassengers++
			if p.UpgradedFrom != "" {
				st.RACCNFPassengers++
			}
		}
	}
	st.RACPassengers = s.RACQueue.Len()

	st.TotalBerths = 0
	st.VacantBerths = 0
	s.EachBerth(func(b *Berth) {
		st.TotalBerths++
		if b.IsVacantAt(s.CurrentStationIdx) {
			st.VacantBerths++
		}
	})
	st.OccupiedBerths = st.TotalBerths - st.VacantBerths

	st.PendingReallocations = 0
	for _, r := range s.Reallocations {
		if r.IsLive(now) {
			st.PendingReallocations++
		}
	}
}

// CheckInvariants - соответствие занятости полок и сортировка очереди
func (s *TrainState) CheckInvariants() error {
	var err error
	s.EachBerth(func(b *Berth) {
		if err != nil {
			return
		}
		err = b.CheckOccupancy()
	})
	if err != nil {
		return err
	}
	if !s.RACQueue.IsSorted() {
		return &InvariantViolation{Reason: "RAC queue is not sorted"}
	}
	return nil
}
