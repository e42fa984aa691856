package domain

import "fmt"

// Station - остановка маршрута, Idx задаёт порядок следования (с нуля)
type Station struct {
	Idx       int     `json:"idx"`
	SNO       int     `json:"sno"`
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Distance  float64 `json:"distance"`
	Arrival   string  `json:"arrival,omitempty"`
	Departure string  `json:"departure,omitempty"`
}

// Segment - перегон между станциями FromIdx и FromIdx+1
type Segment struct {
	ID      int    `json:"id"`
	FromIdx int    `json:"from_idx"`
	ToIdx   int    `json:"to_idx"`
	From    string `json:"from"`
	To      string `json:"to"`
	Name    string `json:"name"`
}

// SegmentRange - полуинтервал перегонов [FromIdx, ToIdx)
type SegmentRange struct {
	FromIdx int `json:"from_idx"`
	ToIdx   int `json:"to_idx"`
}

func (r SegmentRange) Len() int {
	if r.ToIdx <= r.FromIdx {
		return 0
	}
	return r.ToIdx - r.FromIdx
}

func (r SegmentRange) IsEmpty() bool {
	return r.Len() == 0
}

// Contains - other целиком лежит внутри r
func (r SegmentRange) Contains(other SegmentRange) bool {
	return !other.IsEmpty() && r.FromIdx <= other.FromIdx && other.ToIdx <= r.ToIdx
}

// Intersect - пересечение двух интервалов (может быть пустым)
func (r SegmentRange) Intersect(other SegmentRange) SegmentRange {
	from := max(r.FromIdx, other.FromIdx)
	to := min(r.ToIdx, other.ToIdx)
	if to < from {
		to = from
	}
	return SegmentRange{FromIdx: from, ToIdx: to}
}

func (r SegmentRange) String() string {
	return fmt.Sprintf("[%d,%d)", r.FromIdx, r.ToIdx)
}

// JourneysOverlap - пересекаются ли два полуинтервала поездки
func JourneysOverlap(aFrom, aTo, bFrom, bTo int) bool {
	return aFrom < bTo && bFrom < aTo
}

// SegmentMatrix - упорядоченный список перегонов маршрута
type SegmentMatrix struct {
	Stations []Station `json:"stations"`
	Segments []Segment `json:"segments"`
}

func NewSegmentMatrix(stations []Station) *SegmentMatrix {
	m := &SegmentMatrix{Stations: stations}
	if len(stations) < 2 {
		return m
	}

	m.Segments = make([]Segment, 0, len(stations)-1)
	for i := 0; i < len(stations)-1; i++ {
		from, to := stations[i], stations[i+1]
		m.Segments = append(m.Segments, Segment{
			ID:      i,
			FromIdx: i,
			ToIdx:   i + 1,
			From:    from.Code,
			To:      to.Code,
			Name:    fmt.Sprintf("%s→%s", from.Code, to.Code),
		})
	}
	return m
}

// Len - количество перегонов
func (m *SegmentMatrix) Len() int {
	return len(m.Segments)
}

// Distance - расстояние между двумя станциями маршрута, км
func (m *SegmentMatrix) Distance(fromIdx, toIdx int) (float64, bool) {
	if fromIdx < 0 || toIdx < 0 || fromIdx >= len(m.Stations) || toIdx >= len(m.Stations) {
		return 0, false
	}
	d := m.Stations[toIdx].Distance - m.Stations[fromIdx].Distance
	if d < 0 {
		d = -d
	}
	return d, true
}
