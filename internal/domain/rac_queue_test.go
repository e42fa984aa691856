package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func racPassenger(pnr, racStatus string) *Passenger {
	p := newTestPassenger(pnr, PNRStatusRAC, 0, 2)
	p.RACStatus = racStatus
	return p
}

func TestExtractRACNumber(t *testing.T) {
	tests := []struct {
		status   string
		expected int
	}{
		{"RAC 1", 1},
		{"RAC12", 12},
		{"rac 7", 7},
		{"RAC", DefaultRACNumber},
		{"", DefaultRACNumber},
		{"WL 3", DefaultRACNumber},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractRACNumber(tt.status))
		})
	}
}

func TestNormalizeRACStatus(t *testing.T) {
	assert.Equal(t, "RAC 3", NormalizeRACStatus("3"))
	assert.Equal(t, "RAC 5", NormalizeRACStatus("RAC 5"))
	assert.Equal(t, "RAC", NormalizeRACStatus(" "))
}

func TestRACQueue_EqualNumbersOrderedByPNR(t *testing.T) {
	q := NewRACQueue()
	q.Add(racPassenger("1000000007", "RAC"), racPassenger("1000000005", "pending"))
	q.Add(racPassenger("1000000006", "?"), racPassenger("1000000004", "RAC 4"))

	var order []string
	for _, p := range q.Entries() {
		order = append(order, p.PNR)
	}
	assert.Equal(t, []string{"1000000004", "1000000005", "1000000006", "1000000007"}, order)
	assert.True(t, q.IsSorted())
}

func TestRACQueue_AddKeepsPriorityOrder(t *testing.T) {
	q := NewRACQueue()

	added := q.Add(
		racPassenger("1000000003", "RAC 3"),
		racPassenger("1000000001", "RAC 1"),
		newTestPassenger("1000000009", PNRStatusCNF, 0, 1),
	)
	require.Equal(t, 2, added)
	assert.True(t, q.IsSorted())

	q.Add(racPassenger("1000000002", "RAC 2"), racPassenger("1000000099", "unknown"))
	assert.True(t, q.IsSorted())

	var order []string
	for _, p := range q.Entries() {
		order = append(order, p.PNR)
	}
	assert.Equal(t, []string{"1000000001", "1000000002", "1000000003", "1000000099"}, order)
	assert.Equal(t, DefaultRACNumber, q.Find("1000000099").RACNumber)
}

func TestRACQueue_AddSkipsDuplicates(t *testing.T) {
	q := NewRACQueue()
	p := racPassenger("1000000001", "RAC 1")

	assert.Equal(t, 1, q.Add(p))
	assert.Equal(t, 0, q.Add(p))
	assert.Equal(t, 1, q.Len())
}

func TestRACQueue_RemoveFrontPop(t *testing.T) {
	q := NewRACQueue()
	assert.Nil(t, q.Front())
	assert.Nil(t, q.Pop())

	q.Add(racPassenger("1000000002", "RAC 2"), racPassenger("1000000001", "RAC 1"))

	assert.False(t, q.Remove("5555555555"))
	assert.Equal(t, "1000000001", q.Front().PNR)

	popped := q.Pop()
	require.NotNil(t, popped)
	assert.Equal(t, "1000000001", popped.PNR)
	assert.Equal(t, 1, q.Len())

	assert.True(t, q.Remove("1000000002"))
	assert.Equal(t, 0, q.Len())
	assert.True(t, q.IsSorted())
}
