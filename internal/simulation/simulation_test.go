package simulation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/repository/csvroster"
	"github.com/rac-reallocation/internal/simulation"
)

func runner(mode domain.ReallocationMode) *simulation.Runner {
	opts := engine.DefaultOptions()
	opts.Mode = mode
	logger := zap.NewNop()
	return simulation.NewRunner(engine.New(opts, logger), csvroster.NewRosterRepository(logger), logger)
}

func config() simulation.Config {
	return simulation.Config{
		TrainNo:        "12951",
		TrainName:      "Mumbai Rajdhani",
		JourneyDate:    "2025-01-10",
		StationsPath:   "../repository/csvroster/testdata/stations.csv",
		PassengersPath: "../repository/csvroster/testdata/passengers.csv",
		SleeperCoaches: 1,
	}
}

func stationCodes(report *simulation.Report) []string {
	codes := make([]string, 0, len(report.Stations))
	for _, st := range report.Stations {
		codes = append(codes, st.Station.Code)
	}
	return codes
}

func TestRun_AutoMode(t *testing.T) {
	cfg := config()
	cfg.NoShows = []string{"9999999999"}

	report, err := runner(domain.ModeAuto).Run(context.Background(), cfg)
	require.NoError(t, err)

	assert.Equal(t, []string{"NDLS", "MTJ", "AGC", "GWL", "JHS"}, stationCodes(report))
	assert.Contains(t, report.Stations[0].Arrival.NoShows, "1000000005")
	assert.True(t, report.Train.JourneyComplete)
	assert.GreaterOrEqual(t, report.Final.TotalRACUpgraded, 1)
	assert.NotEmpty(t, report.Events)
	for _, st := range report.Stations {
		assert.Nil(t, st.Approval)
	}
}

func TestRun_ApprovalMode(t *testing.T) {
	t.Run("offers approved by TTE", func(t *testing.T) {
		cfg := config()
		cfg.ApproveAs = "TTE01"

		report, err := runner(domain.ModeApproval).Run(context.Background(), cfg)
		require.NoError(t, err)

		approved := 0
		for _, st := range report.Stations {
			if st.Approval != nil {
				approved += st.Approval.TotalApproved
			}
		}
		assert.GreaterOrEqual(t, approved, 1)
		assert.Equal(t, approved, report.Final.TotalRACUpgraded)
	})

	t.Run("offers left pending", func(t *testing.T) {
		report, err := runner(domain.ModeApproval).Run(context.Background(), config())
		require.NoError(t, err)
		assert.Equal(t, 0, report.Final.TotalRACUpgraded)
	})
}

func TestRun_InvalidRoster(t *testing.T) {
	cfg := config()
	cfg.StationsPath = "testdata/missing.csv"

	report, err := runner(domain.ModeAuto).Run(context.Background(), cfg)
	assert.ErrorIs(t, err, errors.ErrInvalidRoster)
	assert.Nil(t, report)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner(domain.ModeAuto).Run(ctx, config())
	assert.Error(t, err)
	assert.Nil(t, report)
}
