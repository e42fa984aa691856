package engine

import (
	"github.com/rac-reallocation/internal/domain"
)

// Vacancy - полностью свободный участок полки
type Vacancy struct {
	CoachNo     string            `json:"coach_no"`
	BerthNo     int               `json:"berth_no"`
	FullBerthNo string            `json:"full_berth_no"`
	BerthType   domain.BerthType  `json:"berth_type"`
	Class       domain.CoachClass `json:"class"`
	FromIdx     int               `json:"from_idx"`
	ToIdx       int               `json:"to_idx"`
	FromStation string            `json:"from_station"`
	ToStation   string            `json:"to_station"`
}

func (v Vacancy) Range() domain.SegmentRange {
	return domain.SegmentRange{FromIdx: v.FromIdx, ToIdx: v.ToIdx}
}

func newVacancy(state *domain.TrainState, b *domain.Berth, r domain.SegmentRange) Vacancy {
	return Vacancy{
		CoachNo:     b.CoachNo,
		BerthNo:     b.BerthNo,
		FullBerthNo: b.FullBerthNo,
		BerthType:   b.Type,
		Class:       b.Class,
		FromIdx:     r.FromIdx,
		ToIdx:       r.ToIdx,
		FromStation: stationCode(state, r.FromIdx),
		ToStation:   stationCode(state, r.ToIdx),
	}
}

func stationCode(state *domain.TrainState, idx int) string {
	if idx < 0 || idx >= len(state.Stations) {
		return ""
	}
	return state.Stations[idx].Code
}

// FindVacancies - все свободные участки, начинающиеся не раньше текущей станции,
// в порядке вагонов и полок
func FindVacancies(state *domain.TrainState) []Vacancy {
	vacancies := []Vacancy{}
	state.EachBerth(func(b *domain.Berth) {
		for _, r := range b.VacantRanges(state.CurrentStationIdx) {
			vacancies = append(vacancies, newVacancy(state, b, r))
		}
	})
	return vacancies
}

// GetVacantBerths - полки, свободные на перегоне от текущей станции,
// с длиной свободного участка
func GetVacantBerths(state *domain.TrainState) []Vacancy {
	vacant := []Vacancy{}
	cur := state.CurrentStationIdx
	state.EachBerth(func(b *domain.Berth) {
		ranges := b.VacantRanges(cur)
		if len(ranges) > 0 && ranges[0].FromIdx == cur {
			vacant = append(vacant, newVacancy(state, b, ranges[0]))
		}
	})
	return vacant
}

// vacancyCovering - свободный участок полки, целиком содержащий rng
func vacancyCovering(state *domain.TrainState, b *domain.Berth, rng domain.SegmentRange) (Vacancy, bool) {
	for _, r := range b.VacantRanges(rng.FromIdx) {
		if r.Contains(rng) {
			return newVacancy(state, b, r), true
		}
	}
	return Vacancy{}, false
}
