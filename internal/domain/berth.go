package domain

import (
	"fmt"
	"slices"
)

// BerthType - тип полки
type BerthType string

const (
	BerthLower     BerthType = "Lower"
	BerthMiddle    BerthType = "Middle"
	BerthUpper     BerthType = "Upper"
	BerthSideLower BerthType = "Side Lower"
	BerthSideUpper BerthType = "Side Upper"
)

// BerthStatus - сводный статус полки
type BerthStatus string

const (
	BerthVacant   BerthStatus = "VACANT"
	BerthOccupied BerthStatus = "OCCUPIED"
	BerthShared   BerthStatus = "SHARED"
)

// InvariantViolation - попытка занять недоступный перегон.
// Это ошибка в вызывающем коде, а не штатная ситуация, поэтому она передаётся через panic.
type InvariantViolation struct {
	Berth   string
	PNR     string
	FromIdx int
	ToIdx   int
	Reason  string
}

func (v *InvariantViolation) Error() string {
	return fmt.Sprintf("occupancy invariant violated on %s for %s [%d,%d): %s",
		v.Berth, v.PNR, v.FromIdx, v.ToIdx, v.Reason)
}

func FullBerthNo(coachNo string, berthNo int) string {
	return fmt.Sprintf("%s-%d", coachNo, berthNo)
}

// Berth - полка с занятостью по перегонам.
// SegmentOccupancy[i] содержит PNR пассажиров, занимающих перегон i.
type Berth struct {
	CoachNo          string       `json:"coach_no"`
	BerthNo          int          `json:"berth_no"`
	FullBerthNo      string       `json:"full_berth_no"`
	Type             BerthType    `json:"type"`
	Class            CoachClass   `json:"class"`
	Status           BerthStatus  `json:"status"`
	SegmentOccupancy [][]string   `json:"segment_occupancy"`
	Passengers       []*Passenger `json:"-"`
}

func NewBerth(coachNo string, berthNo int, berthType BerthType, class CoachClass, numSegments int) *Berth {
	return &Berth{
		CoachNo:          coachNo,
		BerthNo:          berthNo,
		FullBerthNo:      FullBerthNo(coachNo, berthNo),
		Type:             berthType,
		Class:            class,
		Status:           BerthVacant,
		SegmentOccupancy: make([][]string, numSegments),
	}
}

// CanAccommodateRAC - только боковая нижняя допускает двух пассажиров на перегоне
func (b *Berth) CanAccommodateRAC() bool {
	return b.Type == BerthSideLower
}

func (b *Berth) slotCapacity() int {
	if b.CanAccommodateRAC() {
		return 2
	}
	return 1
}

func (b *Berth) NumSegments() int {
	return len(b.SegmentOccupancy)
}

// IsAvailableForSegment - каждый перегон [fromIdx,toIdx) свободен
// (или, для боковой нижней, занят не более чем одним пассажиром)
func (b *Berth) IsAvailableForSegment(fromIdx, toIdx int) bool {
	if fromIdx < 0 || toIdx > len(b.SegmentOccupancy) || fromIdx >= toIdx {
		return false
	}
	capacity := b.slotCapacity()
	for i := fromIdx; i < toIdx; i++ {
		if len(b.SegmentOccupancy[i]) >= capacity {
			return false
		}
	}
	return true
}

// AddPassenger - размещение пассажира на его [FromIdx,ToIdx).
// Паникует с *InvariantViolation, если диапазон недоступен.
func (b *Berth) AddPassenger(p *Passenger) {
	if b.HasPassenger(p.PNR) {
		panic(&InvariantViolation{Berth: b.FullBerthNo, PNR: p.PNR, FromIdx: p.FromIdx, ToIdx: p.ToIdx,
			Reason: "passenger already on berth"})
	}
	if !b.IsAvailableForSegment(p.FromIdx, p.ToIdx) {
		panic(&InvariantViolation{Berth: b.FullBerthNo, PNR: p.PNR, FromIdx: p.FromIdx, ToIdx: p.ToIdx,
			Reason: "segment range not available"})
	}

	b.Passengers = append(b.Passengers, p)
	for i := p.FromIdx; i < p.ToIdx; i++ {
		b.SegmentOccupancy[i] = append(b.SegmentOccupancy[i], p.PNR)
	}

	p.CoachNo = b.CoachNo
	p.BerthNo = b.BerthNo
	p.BerthType = b.Type

	b.UpdateStatus()
}

// RemovePassenger - снимает пассажира со всех перегонов; отсутствующий PNR - no-op
func (b *Berth) RemovePassenger(pnr string) bool {
	idx := slices.IndexFunc(b.Passengers, func(p *Passenger) bool { return p.PNR == pnr })
	if idx < 0 {
		return false
	}
	b.Passengers = slices.Delete(b.Passengers, idx, idx+1)

	for i, slot := range b.SegmentOccupancy {
		if len(slot) == 0 {
			continue
		}
		b.SegmentOccupancy[i] = slices.DeleteFunc(slot, func(s string) bool { return s == pnr })
		if len(b.SegmentOccupancy[i]) == 0 {
			b.SegmentOccupancy[i] = nil
		}
	}

	b.UpdateStatus()
	return true
}

func (b *Berth) UpdateStatus() {
	status := BerthVacant
	for _, slot := range b.SegmentOccupancy {
		switch {
		case len(slot) >= 2:
			b.Status = BerthShared
			return
		case len(slot) == 1:
			status = BerthOccupied
		}
	}
	b.Status = status
}

func (b *Berth) HasPassenger(pnr string) bool {
	return b.FindPassenger(pnr) != nil
}

func (b *Berth) FindPassenger(pnr string) *Passenger {
	for _, p := range b.Passengers {
		if p.PNR == pnr {
			return p
		}
	}
	return nil
}

// OccupantsAt - PNR пассажиров на перегоне
func (b *Berth) OccupantsAt(segmentIdx int) []string {
	if segmentIdx < 0 || segmentIdx >= len(b.SegmentOccupancy) {
		return nil
	}
	return b.SegmentOccupancy[segmentIdx]
}

func (b *Berth) IsVacantAt(segmentIdx int) bool {
	return len(b.OccupantsAt(segmentIdx)) == 0
}

// GetBoardingPassengers - садятся на станции stationIdx
func (b *Berth) GetBoardingPassengers(stationIdx int) []*Passenger {
	var out []*Passenger
	for _, p := range b.Passengers {
		if p.FromIdx == stationIdx && !p.Boarded && !p.NoShow {
			out = append(out, p)
		}
	}
	return out
}

// GetDeboardingPassengers - сходят на станции stationIdx
func (b *Berth) GetDeboardingPassengers(stationIdx int) []*Passenger {
	var out []*Passenger
	for _, p := range b.Passengers {
		if p.ToIdx == stationIdx {
			out = append(out, p)
		}
	}
	return out
}

// GetRACPassengers - RAC пассажиры, делящие полку
func (b *Berth) GetRACPassengers() []*Passenger {
	var out []*Passenger
	for _, p := range b.Passengers {
		if p.IsRAC() {
			out = append(out, p)
		}
	}
	return out
}

// VacantRanges - максимальные участки полностью свободных перегонов, начиная с fromIdx
func (b *Berth) VacantRanges(fromIdx int) []SegmentRange {
	var ranges []SegmentRange
	start := -1
	for i := max(fromIdx, 0); i < len(b.SegmentOccupancy); i++ {
		if len(b.SegmentOccupancy[i]) == 0 {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			ranges = append(ranges, SegmentRange{FromIdx: start, ToIdx: i})
			start = -1
		}
	}
	if start >= 0 {
		ranges = append(ranges, SegmentRange{FromIdx: start, ToIdx: len(b.SegmentOccupancy)})
	}
	return ranges
}

// CheckOccupancy - слоты ровно соответствуют диапазонам пассажиров полки
func (b *Berth) CheckOccupancy() error {
	for i, slot := range b.SegmentOccupancy {
		var expected []string
		for _, p := range b.Passengers {
			if p.FromIdx <= i && i < p.ToIdx {
				expected = append(expected, p.PNR)
			}
		}
		if len(expected) != len(slot) {
			return fmt.Errorf("%s segment %d: slot %v, passengers %v", b.FullBerthNo, i, slot, expected)
		}
		for _, pnr := range expected {
			if !slices.Contains(slot, pnr) {
				return fmt.Errorf("%s segment %d: %s missing from slot %v", b.FullBerthNo, i, pnr, slot)
			}
		}
	}
	return nil
}
