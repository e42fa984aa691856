package usecase_test

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/usecase"
	"github.com/rac-reallocation/internal/usecase/dto"
)

var journeyStart = time.Date(2025, 1, 10, 6, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newEngine(mode domain.ReallocationMode) (*engine.Engine, *testClock) {
	clock := &testClock{now: journeyStart}
	opts := engine.DefaultOptions()
	opts.Mode = mode
	opts.Clock = clock.Now
	return engine.New(opts, zap.NewNop()), clock
}

func stationRecords() []domain.StationRecord {
	return []domain.StationRecord{
		{SNO: 1, Code: "NDLS", Name: "New Delhi", Distance: 0},
		{SNO: 2, Code: "AGC", Name: "Agra Cantt", Distance: 195},
		{SNO: 3, Code: "GWL", Name: "Gwalior", Distance: 313},
	}
}

func record(pnr, status, racStatus, from, to, coach string, berth int) domain.PassengerRecord {
	return domain.PassengerRecord{
		TrainNo:           "12951",
		PNR:               pnr,
		Name:              "Passenger " + pnr,
		Age:               30,
		Gender:            "M",
		Class:             "SL",
		BoardingStation:   from,
		DeboardingStation: to,
		PNRStatus:         status,
		RACStatus:         racStatus,
		Coach:             coach,
		Berth:             berth,
		PassengerStatus:   "Online",
	}
}

// passengerRecords - на AGC освобождается S1-1, RAC 1 едет до GWL
func passengerRecords() []domain.PassengerRecord {
	return []domain.PassengerRecord{
		record("1000000001", "CNF", "", "NDLS", "AGC", "S1", 1),
		record("1000000002", "CNF", "", "NDLS", "GWL", "S1", 2),
		record("1000000003", "CNF", "", "AGC", "GWL", "S1", 4),
		record("2000000001", "RAC", "RAC 1", "NDLS", "GWL", "", 0),
	}
}

func initRequest() dto.InitializeTrainRequest {
	return dto.InitializeTrainRequest{
		TrainNo:     "12951",
		TrainName:   "Mumbai Rajdhani",
		JourneyDate: "2025-01-10",
		Source:      dto.SourceMongo,
	}
}

func trainDefaults() usecase.TrainDefaults {
	return usecase.TrainDefaults{Source: dto.SourceMongo, SleeperCoaches: 1}
}

// sequential - один воркер в пуле, эффекты выполняются в порядке постановки
func sequential() usecase.PublisherOptions {
	return usecase.PublisherOptions{Concurrency: 1}
}
