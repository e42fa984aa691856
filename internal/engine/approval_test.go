package engine_test

import (
	"testing"
	"time"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/engine"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// approvalTrain - к прибытию на AGC освобождается S1-2, первый в очереди получает предложение
func approvalTrain(t *testing.T) (*engine.Engine, *testClock, *domain.TrainState, *engine.ArrivalResult) {
	t.Helper()
	e, clock := newEngine(domain.ModeApproval)
	s := newTrain(2)
	addCNF(t, s, "1000000001", 0, 2, 1)
	addCNF(t, s, "1000000002", 0, 1, 2)
	addRAC(s, "2000000001", "RAC 1", 0, 2)
	addRAC(s, "2000000002", "RAC 2", 1, 2)

	processAndAdvance(t, e, s)
	res, err := e.ProcessStationArrival(s)
	require.NoError(t, err)
	return e, clock, s, res
}

func TestApproval_StagesWithoutMutation(t *testing.T) {
	_, _, s, res := approvalTrain(t)

	require.Len(t, res.Pending, 1)
	rec := res.Pending[0]
	assert.Equal(t, "2000000001", rec.PNR)
	assert.Equal(t, "S1-2", rec.FullBerthNo)
	assert.Equal(t, domain.ReallocationPending, rec.Status)
	assert.Equal(t, "AGC", rec.StationCode)
	assert.Equal(t, journeyStart.Add(time.Hour), rec.ExpiresAt)

	assert.Empty(t, res.RACAllocated)
	assert.Equal(t, []string{"2000000001", "2000000002"}, queuePNRs(s))
	assert.Equal(t, domain.PNRStatusRAC, s.FindPassenger("2000000001").PNRStatus)
	assert.Empty(t, s.FindBerth("S1", 2).Passengers)
	assert.Equal(t, 0, s.Stats.TotalRACUpgraded)
	assert.Equal(t, 1, s.Stats.PendingReallocations)
}

func TestApproval_ApproveBatchAppliesExactlyOnce(t *testing.T) {
	e, _, s, res := approvalTrain(t)
	id := res.Pending[0].ID

	batch, err := e.ApproveBatch(s, []string{id, id}, "TTE01")
	require.NoError(t, err)
	assert.Equal(t, 2, batch.TotalProcessed)
	assert.Equal(t, 1, batch.TotalApproved)
	require.Len(t, batch.Results, 2)
	assert.Equal(t, engine.BatchItemApproved, batch.Results[0].Status)
	assert.Equal(t, engine.BatchItemSkipped, batch.Results[1].Status)
	require.Len(t, batch.Upgrades, 1)
	assert.Equal(t, "S1-2", batch.Upgrades[0].ToBerth)

	rec := s.FindReallocation(id)
	assert.Equal(t, domain.ReallocationApproved, rec.Status)
	assert.Equal(t, "TTE01", rec.ProcessedBy)
	assert.Equal(t, domain.PNRStatusCNF, s.FindPassenger("2000000001").PNRStatus)
	assert.Equal(t, []string{"2000000002"}, queuePNRs(s))
	assert.Equal(t, 1, s.Stats.TotalRACUpgraded)

	again, err := e.ApproveBatch(s, []string{id}, "TTE01")
	require.NoError(t, err)
	assert.Equal(t, 0, again.TotalApproved)
	assert.Equal(t, engine.BatchItemSkipped, again.Results[0].Status)
	assert.Equal(t, 1, s.Stats.TotalRACUpgraded)
	assert.NoError(t, s.CheckInvariants())
}

func TestApproval_BatchIsolatesFailures(t *testing.T) {
	e, _, s, res := approvalTrain(t)
	id := res.Pending[0].ID

	batch, err := e.ApproveBatch(s, []string{"missing", id}, "TTE01")
	require.NoError(t, err)
	assert.Equal(t, 2, batch.TotalProcessed)
	assert.Equal(t, 1, batch.TotalApproved)
	assert.Equal(t, engine.BatchItemFailed, batch.Results[0].Status)
	assert.Equal(t, "Reallocation not found", batch.Results[0].Reason)
	assert.Equal(t, engine.BatchItemApproved, batch.Results[1].Status)
}

func TestApproval_RevalidatesAgainstCurrentState(t *testing.T) {
	e, _, s, res := approvalTrain(t)
	rec := res.Pending[0]

	// пассажир вышел из сети после предложения
	s.FindPassenger(rec.PNR).PassengerStatus = domain.PassengerOffline

	batch, err := e.ApproveBatch(s, []string{rec.ID}, "TTE01")
	require.NoError(t, err)
	assert.Equal(t, 0, batch.TotalApproved)
	assert.Equal(t, engine.BatchItemFailed, batch.Results[0].Status)
	assert.Equal(t, "Passenger is offline", batch.Results[0].Reason)
	assert.Equal(t, domain.ReallocationFailed, rec.Status)
	assert.Equal(t, []string{"2000000001", "2000000002"}, queuePNRs(s))
	require.Len(t, batch.Decisions, 1)
}

func TestApproval_ExpiredOffer(t *testing.T) {
	e, clock, s, res := approvalTrain(t)
	rec := res.Pending[0]

	clock.Advance(2 * time.Hour)
	batch, err := e.ApproveBatch(s, []string{rec.ID}, "TTE01")
	require.NoError(t, err)
	assert.Equal(t, engine.BatchItemExpired, batch.Results[0].Status)
	assert.Equal(t, domain.ReallocationExpired, rec.Status)
	assert.Equal(t, domain.PNRStatusRAC, s.FindPassenger(rec.PNR).PNRStatus)
}

func TestApproval_ExpirePending(t *testing.T) {
	e, clock, s, res := approvalTrain(t)
	version := s.Version

	assert.Empty(t, e.ExpirePending(s))
	assert.Equal(t, version, s.Version)

	clock.Advance(time.Hour)
	expired := e.ExpirePending(s)
	require.Len(t, expired, 1)
	assert.Equal(t, res.Pending[0].ID, expired[0].ID)
	assert.Equal(t, "offer expired", expired[0].Reason)
	assert.Equal(t, 0, s.Stats.PendingReallocations)
	assert.Greater(t, s.Version, version)

	assert.Len(t, engine.ListReallocations(s, domain.ReallocationExpired), 1)
	assert.Empty(t, engine.ListReallocations(s, domain.ReallocationPending))
	assert.Len(t, engine.ListReallocations(s, ""), 1)
}

func TestApproval_Reject(t *testing.T) {
	e, _, s, res := approvalTrain(t)
	id := res.Pending[0].ID

	rec, err := e.RejectReallocation(s, id, "TTE01", "")
	require.NoError(t, err)
	assert.Equal(t, domain.ReallocationRejected, rec.Status)
	assert.Equal(t, "Rejected by TTE", rec.Reason)
	assert.Equal(t, []string{"2000000001", "2000000002"}, queuePNRs(s))

	_, err = e.RejectReallocation(s, id, "TTE01", "")
	assert.ErrorIs(t, err, errors.ErrReallocationNotPending)

	_, err = e.RejectReallocation(s, "missing", "TTE01", "")
	assert.ErrorIs(t, err, errors.ErrReallocationNotFound)
}

func TestApproval_OnePendingOfferPerPassenger(t *testing.T) {
	e, _ := newEngine(domain.ModeApproval)
	s := newTrain(3)
	addCNF(t, s, "1000000001", 0, 2, 1)
	addRAC(s, "2000000001", "RAC 1", 0, 2)
	addRAC(s, "2000000002", "RAC 2", 0, 2)

	processAndAdvance(t, e, s)
	res, err := e.ProcessStationArrival(s)
	require.NoError(t, err)

	require.Len(t, res.Pending, 2)
	assert.Equal(t, "2000000001", res.Pending[0].PNR)
	assert.Equal(t, "S1-2", res.Pending[0].FullBerthNo)
	assert.Equal(t, "2000000002", res.Pending[1].PNR)
	assert.Equal(t, "S1-3", res.Pending[1].FullBerthNo)

	diagnostics := e.EligibilityDiagnostics(s)
	require.Len(t, diagnostics, 4)
	offered := "Berth has a pending offer for another passenger"
	expected := []struct {
		berth  string
		pnr    string
		rule   int
		reason string
	}{
		{"S1-2", "2000000001", engine.RuleNoOtherOffer, "Already offered another vacancy"},
		{"S1-2", "2000000002", engine.RuleNoConflict, offered},
		{"S1-3", "2000000001", engine.RuleNoConflict, offered},
		{"S1-3", "2000000002", engine.RuleNoOtherOffer, "Already offered another vacancy"},
	}
	for i, exp := range expected {
		assert.Equal(t, exp.berth, diagnostics[i].Berth.FullBerthNo)
		assert.Equal(t, exp.pnr, diagnostics[i].Passenger.PNR)
		assert.Equal(t, exp.rule, diagnostics[i].Rule)
		assert.Equal(t, exp.reason, diagnostics[i].Reason)
	}
	assert.Empty(t, e.EligibilityMatrix(s))
}

func TestApproval_RequiresApprovalMode(t *testing.T) {
	e, _ := newEngine(domain.ModeAuto)
	s := newTrain(1)

	_, err := e.ApproveBatch(s, []string{"x"}, "TTE01")
	assert.ErrorIs(t, err, errors.ErrNotApprovalMode)

	_, err = e.RejectReallocation(s, "x", "TTE01", "")
	assert.ErrorIs(t, err, errors.ErrNotApprovalMode)
}

func TestApproval_DeboardedPassengerOfferIsWithdrawn(t *testing.T) {
	e, _ := newEngine(domain.ModeApproval)
	stations := []domain.Station{
		{Idx: 0, SNO: 1, Code: "NDLS", Distance: 0},
		{Idx: 1, SNO: 2, Code: "MTJ", Distance: 100},
		{Idx: 2, SNO: 3, Code: "AGC", Distance: 200},
		{Idx: 3, SNO: 4, Code: "GWL", Distance: 300},
	}
	coach := domain.NewCoach("S1", domain.ClassSleeper, 1, len(stations)-1)
	s := domain.NewTrainState("12951", "Test Express", "2025-01-10", stations, []*domain.Coach{coach}, journeyStart)
	addCNF(t, s, "1000000001", 0, 1, 1)
	addRAC(s, "2000000001", "RAC 1", 0, 2)
	addRAC(s, "2000000002", "RAC 2", 0, 3)

	processAndAdvance(t, e, s)
	atMTJ := processAndAdvance(t, e, s)
	require.Len(t, atMTJ.Pending, 1)
	offer := atMTJ.Pending[0]
	require.Equal(t, "2000000001", offer.PNR)

	// TTE не ответил, пассажир выходит на AGC
	res, err := e.ProcessStationArrival(s)
	require.NoError(t, err)
	assert.Contains(t, res.Deboarded, "2000000001")

	require.Len(t, res.Withdrawn, 1)
	assert.Equal(t, offer.ID, res.Withdrawn[0].ID)
	assert.Equal(t, domain.ReallocationFailed, offer.Status)
	assert.Equal(t, "Passenger deboarded", offer.Reason)
	require.NotNil(t, offer.ProcessedAt)

	require.Len(t, res.Pending, 1)
	assert.Equal(t, "2000000002", res.Pending[0].PNR)
	assert.Equal(t, "S1-1", res.Pending[0].FullBerthNo)
	assert.Equal(t, 1, s.Stats.PendingReallocations)
	assert.Len(t, engine.ListReallocations(s, domain.ReallocationFailed), 1)
	assert.NoError(t, s.CheckInvariants())
}
