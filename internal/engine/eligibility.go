package engine

import (
	"fmt"
	"sort"

	"github.com/rac-reallocation/internal/domain"
	"go.uber.org/zap"
)

// Правила допуска RAC пассажира к свободному участку, в порядке проверки
const (
	RuleRACStatus = iota + 1
	RuleOnline
	RuleBoarded
	RuleFullJourney
	RuleClass
	RuleNoConflict
	RuleNoOtherOffer
	RuleMinDistance
)

// EligibilityResult - результат проверки; FailedRule = 0 для допущенного пассажира
type EligibilityResult struct {
	Eligible   bool   `json:"eligible"`
	FailedRule int    `json:"failed_rule,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func eligible() EligibilityResult {
	return EligibilityResult{Eligible: true}
}

func failed(rule int, reason string) EligibilityResult {
	return EligibilityResult{FailedRule: rule, Reason: reason}
}

// CheckEligibility проверяет правила по порядку и возвращает первое нарушенное.
// ignoreID исключает собственное предложение при повторной проверке перед утверждением.
func (e *Engine) CheckEligibility(
	state *domain.TrainState,
	p *domain.Passenger,
	v Vacancy,
	ignoreID string,
) EligibilityResult {
	if !p.IsRAC() {
		return failed(RuleRACStatus, "Passenger is not RAC status")
	}
	if p.PassengerStatus != domain.PassengerOnline {
		return failed(RuleOnline, "Passenger is offline")
	}
	if p.NoShow {
		return failed(RuleBoarded, "Passenger marked as no-show")
	}
	if !p.Boarded {
		return failed(RuleBoarded, "Passenger has not boarded")
	}

	berth := state.FindBerth(v.CoachNo, v.BerthNo)
	remaining := p.RemainingRange(state.CurrentStationIdx)
	if berth == nil || remaining.IsEmpty() || !v.Range().Contains(remaining) ||
		!berth.IsAvailableForSegment(p.FromIdx, p.ToIdx) {
		return failed(RuleFullJourney, "Vacancy does not cover full journey")
	}

	if p.Class != berth.Class {
		return failed(RuleClass, fmt.Sprintf("Class mismatch (%s vs %s)", p.Class, berth.Class))
	}

	if reason := e.berthConflict(state, berth, p, remaining, ignoreID); reason != "" {
		return failed(RuleNoConflict, reason)
	}

	if state.LivePendingFor(p.PNR, ignoreID, e.now()) != nil {
		return failed(RuleNoOtherOffer, "Already offered another vacancy")
	}

	if minKm := e.opts.MinJourneyDistanceKm; minKm > 0 {
		dist, ok := state.Segments.Distance(p.FromIdx, p.ToIdx)
		if !ok || dist < minKm {
			return failed(RuleMinDistance, fmt.Sprintf("Journey too short (%.0fkm < %.0fkm)", dist, minKm))
		}
	}

	return eligible()
}

// berthConflict - причина отказа по правилу 6: на полке есть другой CNF пассажир или
// действующее предложение, пересекающиеся с оставшейся частью поездки. Пустая строка - конфликта нет.
func (e *Engine) berthConflict(
	state *domain.TrainState,
	berth *domain.Berth,
	p *domain.Passenger,
	remaining domain.SegmentRange,
	ignoreID string,
) string {
	for _, other := range berth.Passengers {
		if other.PNR != p.PNR && other.IsCNF() &&
			domain.JourneysOverlap(other.FromIdx, other.ToIdx, remaining.FromIdx, remaining.ToIdx) {
			return "Conflicting CNF passenger will board"
		}
	}

	now := e.now()
	for _, r := range state.Reallocations {
		if r.ID == ignoreID || r.PNR == p.PNR || !r.IsLive(now) {
			continue
		}
		if r.CoachNo == berth.CoachNo && r.BerthNo == berth.BerthNo &&
			domain.JourneysOverlap(r.VacantFromIdx, r.VacantToIdx, remaining.FromIdx, remaining.ToIdx) {
			return "Berth has a pending offer for another passenger"
		}
	}
	return ""
}

// topCandidate - первый допущенный пассажир в порядке очереди (наименьший RACNumber)
func (e *Engine) topCandidate(state *domain.TrainState, v Vacancy) *domain.Passenger {
	for _, p := range state.RACQueue.Entries() {
		res := e.CheckEligibility(state, p, v, "")
		if res.Eligible {
			return p
		}
		e.logger.Debug("RAC candidate not eligible",
			zap.String("pnr", p.PNR),
			zap.String("berth", v.FullBerthNo),
			zap.Int("rule", res.FailedRule),
			zap.String("reason", res.Reason),
		)
	}
	return nil
}

// MatrixPassenger - снимок RAC пассажира для проекций
type MatrixPassenger struct {
	PNR       string `json:"pnr"`
	Name      string `json:"name"`
	RACStatus string `json:"rac_status"`
	RACNumber int    `json:"rac_number"`
	From      string `json:"from"`
	To        string `json:"to"`
	FromIdx   int    `json:"from_idx"`
	ToIdx     int    `json:"to_idx"`
}

func newMatrixPassenger(p *domain.Passenger) MatrixPassenger {
	return MatrixPassenger{
		PNR:       p.PNR,
		Name:      p.Name,
		RACStatus: p.RACStatus,
		RACNumber: p.RACNumber,
		From:      p.From,
		To:        p.To,
		FromIdx:   p.FromIdx,
		ToIdx:     p.ToIdx,
	}
}

// MatrixEntry - допустимая пара пассажир/участок
type MatrixEntry struct {
	Passenger       MatrixPassenger `json:"passenger"`
	Berth           Vacancy         `json:"berth"`
	OverlapSegments int             `json:"overlap_segments"`
	Score           int             `json:"score"`
}

// Diagnostic - причина, по которой пара не допущена
type Diagnostic struct {
	Passenger MatrixPassenger `json:"passenger"`
	Berth     Vacancy         `json:"berth"`
	Rule      int             `json:"rule"`
	Reason    string          `json:"reason"`
}

// Score - приоритет очереди плюс 10 за каждый перекрытый перегон
func Score(racNumber, overlapSegments int) int {
	return (1000 - racNumber) + 10*overlapSegments
}

// EligibilityMatrix - все допустимые пары; только чтение состояния
func (e *Engine) EligibilityMatrix(state *domain.TrainState) []MatrixEntry {
	type ranked struct {
		vacancy int
		entry   MatrixEntry
	}

	var rows []ranked
	queue := state.RACQueue.Entries()
	for vi, v := range FindVacancies(state) {
		for _, p := range queue {
			if !e.CheckEligibility(state, p, v, "").Eligible {
				continue
			}
			overlap := v.Range().Intersect(p.RemainingRange(state.CurrentStationIdx)).Len()
			rows = append(rows, ranked{
				vacancy: vi,
				entry: MatrixEntry{
					Passenger:       newMatrixPassenger(p),
					Berth:           v,
					OverlapSegments: overlap,
					Score:           Score(p.RACNumber, overlap),
				},
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].vacancy != rows[j].vacancy {
			return rows[i].vacancy < rows[j].vacancy
		}
		return rows[i].entry.Score > rows[j].entry.Score
	})

	entries := make([]MatrixEntry, 0, len(rows))
	for _, r := range rows {
		entries = append(entries, r.entry)
	}
	return entries
}

// EligibilityDiagnostics - отказы по каждой паре пассажир/участок
func (e *Engine) EligibilityDiagnostics(state *domain.TrainState) []Diagnostic {
	diagnostics := []Diagnostic{}
	queue := state.RACQueue.Entries()
	for _, v := range FindVacancies(state) {
		for _, p := range queue {
			res := e.CheckEligibility(state, p, v, "")
			if res.Eligible {
				continue
			}
			diagnostics = append(diagnostics, Diagnostic{
				Passenger: newMatrixPassenger(p),
				Berth:     v,
				Rule:      res.FailedRule,
				Reason:    res.Reason,
			})
		}
	}
	return diagnostics
}
