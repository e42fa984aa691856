package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPassenger(pnr string, status PNRStatus, from, to int) *Passenger {
	return &Passenger{
		PNR:       pnr,
		Name:      "Passenger " + pnr,
		PNRStatus: status,
		FromIdx:   from,
		ToIdx:     to,
	}
}

func TestBerth_AddAndRemovePassenger(t *testing.T) {
	b := NewBerth("S1", 1, BerthLower, ClassSleeper, 4)
	p := newTestPassenger("1000000001", PNRStatusCNF, 0, 2)

	require.True(t, b.IsAvailableForSegment(0, 2))
	b.AddPassenger(p)

	assert.Equal(t, []string{"1000000001"}, b.OccupantsAt(0))
	assert.Equal(t, []string{"1000000001"}, b.OccupantsAt(1))
	assert.True(t, b.IsVacantAt(2))
	assert.Equal(t, BerthOccupied, b.Status)
	assert.Equal(t, "S1", p.CoachNo)
	assert.Equal(t, 1, p.BerthNo)
	assert.NoError(t, b.CheckOccupancy())

	assert.False(t, b.IsAvailableForSegment(1, 3))
	assert.True(t, b.IsAvailableForSegment(2, 4))

	assert.True(t, b.RemovePassenger("1000000001"))
	assert.Equal(t, BerthVacant, b.Status)
	assert.True(t, b.IsAvailableForSegment(0, 4))
	assert.NoError(t, b.CheckOccupancy())
}

func TestBerth_RemoveAbsentPassengerIsNoop(t *testing.T) {
	b := NewBerth("S1", 1, BerthLower, ClassSleeper, 3)
	b.AddPassenger(newTestPassenger("1000000001", PNRStatusCNF, 0, 1))

	assert.False(t, b.RemovePassenger("9999999999"))
	assert.False(t, b.RemovePassenger("9999999999"))
	assert.Len(t, b.Passengers, 1)
	assert.NoError(t, b.CheckOccupancy())
}

func TestBerth_AddPassengerPanicsOnUnavailableRange(t *testing.T) {
	b := NewBerth("S1", 1, BerthUpper, ClassSleeper, 3)
	b.AddPassenger(newTestPassenger("1000000001", PNRStatusCNF, 0, 2))

	defer func() {
		r := recover()
		require.NotNil(t, r)
		violation, ok := r.(*InvariantViolation)
		require.True(t, ok)
		assert.Equal(t, "1000000002", violation.PNR)
		// состояние не изменилось
		assert.Len(t, b.Passengers, 1)
		assert.NoError(t, b.CheckOccupancy())
	}()

	b.AddPassenger(newTestPassenger("1000000002", PNRStatusCNF, 1, 3))
}

func TestBerth_SideLowerSharing(t *testing.T) {
	b := NewBerth("S1", 7, BerthSideLower, ClassSleeper, 2)
	require.True(t, b.CanAccommodateRAC())

	b.AddPassenger(newTestPassenger("1000000001", PNRStatusRAC, 0, 1))
	require.True(t, b.IsAvailableForSegment(0, 1))

	b.AddPassenger(newTestPassenger("1000000002", PNRStatusRAC, 0, 1))
	assert.Equal(t, BerthShared, b.Status)
	assert.False(t, b.IsAvailableForSegment(0, 1))
	assert.Len(t, b.GetRACPassengers(), 2)
	assert.NoError(t, b.CheckOccupancy())

	b.RemovePassenger("1000000001")
	assert.Equal(t, BerthOccupied, b.Status)
	assert.True(t, b.IsAvailableForSegment(0, 1))
}

func TestBerth_RegularBerthHoldsOneOccupant(t *testing.T) {
	b := NewBerth("S1", 1, BerthLower, ClassSleeper, 2)
	b.AddPassenger(newTestPassenger("1000000001", PNRStatusRAC, 0, 1))

	assert.False(t, b.CanAccommodateRAC())
	assert.False(t, b.IsAvailableForSegment(0, 1))
}

func TestBerth_IsAvailableForSegmentBounds(t *testing.T) {
	b := NewBerth("S1", 1, BerthLower, ClassSleeper, 3)

	assert.False(t, b.IsAvailableForSegment(1, 1), "zero-length range")
	assert.False(t, b.IsAvailableForSegment(2, 1), "inverted range")
	assert.False(t, b.IsAvailableForSegment(-1, 1))
	assert.False(t, b.IsAvailableForSegment(0, 4))
	assert.True(t, b.IsAvailableForSegment(0, 3))
}

func TestBerth_BoardingAndDeboardingPassengers(t *testing.T) {
	b := NewBerth("S1", 1, BerthLower, ClassSleeper, 4)
	first := newTestPassenger("1000000001", PNRStatusCNF, 0, 2)
	second := newTestPassenger("1000000002", PNRStatusCNF, 2, 4)
	b.AddPassenger(first)
	b.AddPassenger(second)

	assert.Equal(t, []*Passenger{first}, b.GetBoardingPassengers(0))
	assert.Equal(t, []*Passenger{second}, b.GetBoardingPassengers(2))
	assert.Equal(t, []*Passenger{first}, b.GetDeboardingPassengers(2))

	first.Boarded = true
	assert.Empty(t, b.GetBoardingPassengers(0))

	second.NoShow = true
	assert.Empty(t, b.GetBoardingPassengers(2))
}

func TestBerth_VacantRanges(t *testing.T) {
	b := NewBerth("S1", 1, BerthLower, ClassSleeper, 6)
	b.AddPassenger(newTestPassenger("1000000001", PNRStatusCNF, 1, 2))
	b.AddPassenger(newTestPassenger("1000000002", PNRStatusCNF, 4, 5))

	assert.Equal(t, []SegmentRange{{0, 1}, {2, 4}, {5, 6}}, b.VacantRanges(0))
	assert.Equal(t, []SegmentRange{{3, 4}, {5, 6}}, b.VacantRanges(3))
	assert.Empty(t, b.VacantRanges(6))
}

func TestBerthTypeFor(t *testing.T) {
	tests := map[int]BerthType{
		1: BerthLower, 2: BerthMiddle, 3: BerthUpper,
		4: BerthLower, 5: BerthMiddle, 6: BerthUpper,
		7: BerthSideLower, 8: BerthSideUpper,
		15: BerthSideLower, 72: BerthSideUpper, 9: BerthLower, 12: BerthLower,
	}
	for n, expected := range tests {
		assert.Equal(t, expected, BerthTypeFor(n), "berth %d", n)
	}
}
