package engine_test

import (
	"testing"
	"time"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/engine"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var journeyStart = time.Date(2025, 1, 10, 6, 0, 0, 0, time.UTC)

// testClock - управляемое время для проверки сроков
type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time { return c.now }

func (c *testClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newEngine(mode domain.ReallocationMode) (*engine.Engine, *testClock) {
	clock := &testClock{now: journeyStart}
	opts := engine.DefaultOptions()
	opts.Mode = mode
	opts.Clock = clock.Now
	opts.StrictInvariants = true
	return engine.New(opts, zap.NewNop()), clock
}

func testStations() []domain.Station {
	return []domain.Station{
		{Idx: 0, SNO: 1, Code: "NDLS", Name: "New Delhi", Distance: 0},
		{Idx: 1, SNO: 2, Code: "AGC", Name: "Agra Cantt", Distance: 195},
		{Idx: 2, SNO: 3, Code: "GWL", Name: "Gwalior", Distance: 313},
	}
}

// newTrain - поезд из одного спального вагона с berths местами
func newTrain(berths int) *domain.TrainState {
	stations := testStations()
	coach := domain.NewCoach("S1", domain.ClassSleeper, berths, len(stations)-1)
	return domain.NewTrainState("12951", "Test Express", "2025-01-10", stations, []*domain.Coach{coach}, journeyStart)
}

func newPassenger(s *domain.TrainState, pnr string, status domain.PNRStatus, from, to int) *domain.Passenger {
	p := &domain.Passenger{
		PNR:             pnr,
		Name:            "Passenger " + pnr,
		Class:           domain.ClassSleeper,
		From:            s.Stations[from].Code,
		To:              s.Stations[to].Code,
		FromIdx:         from,
		ToIdx:           to,
		PNRStatus:       status,
		RACStatus:       "-",
		PassengerStatus: domain.PassengerOnline,
	}
	s.Passengers[pnr] = p
	return p
}

func addCNF(t *testing.T, s *domain.TrainState, pnr string, from, to, berthNo int) *domain.Passenger {
	t.Helper()
	p := newPassenger(s, pnr, domain.PNRStatusCNF, from, to)
	berth := s.FindBerth("S1", berthNo)
	require.NotNil(t, berth)
	berth.AddPassenger(p)
	return p
}

func addRAC(s *domain.TrainState, pnr, racStatus string, from, to int) *domain.Passenger {
	p := newPassenger(s, pnr, domain.PNRStatusRAC, from, to)
	p.RACStatus = racStatus
	s.RACQueue.Add(p)
	return p
}

func queuePNRs(s *domain.TrainState) []string {
	out := []string{}
	for _, p := range s.RACQueue.Entries() {
		out = append(out, p.PNR)
	}
	return out
}

// processAndAdvance - обработка прибытия и отправление к следующей станции
func processAndAdvance(t *testing.T, e *engine.Engine, s *domain.TrainState) *engine.ArrivalResult {
	t.Helper()
	res, err := e.ProcessStationArrival(s)
	require.NoError(t, err)
	_, err = e.Advance(s)
	require.NoError(t, err)
	return res
}
