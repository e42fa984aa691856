package dto_test

import (
	"testing"

	"github.com/rac-reallocation/internal/domain"
	"github.com/rac-reallocation/internal/pkg/errors"
	"github.com/rac-reallocation/internal/usecase/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPassengerView(t *testing.T) {
	p := &domain.Passenger{
		PNR:       "2000000001",
		Name:      "Asha",
		Class:     domain.ClassSleeper,
		FromIdx:   0,
		ToIdx:     2,
		PNRStatus: domain.PNRStatusRAC,
		RACStatus: "RAC 1",
		RACNumber: 1,
	}

	v, err := dto.NewPassengerView(p)
	require.NoError(t, err)
	assert.Equal(t, "2000000001", v.PNR)
	assert.Equal(t, "RAC 1", v.RACStatus)
	assert.Equal(t, p.FullBerthNo(), v.FullBerthNo)
}

func TestNewPassengerView_CopyErrorIsReturned(t *testing.T) {
	_, err := dto.NewPassengerView(nil)
	assert.ErrorIs(t, err, errors.ErrInternalServer)

	views, err := dto.NewPassengerViews([]*domain.Passenger{nil})
	assert.ErrorIs(t, err, errors.ErrInternalServer)
	assert.Nil(t, views)
}

func TestCopyReallocations(t *testing.T) {
	rec := &domain.PendingReallocation{
		ID:     "r-1",
		PNR:    "2000000001",
		Status: domain.ReallocationPending,
	}

	copies, err := dto.CopyReallocationPointers([]*domain.PendingReallocation{rec})
	require.NoError(t, err)
	require.Len(t, copies, 1)

	rec.Status = domain.ReallocationApproved
	assert.Equal(t, domain.ReallocationPending, copies[0].Status)
	assert.Equal(t, "r-1", copies[0].ID)

	_, err = dto.CopyReallocations([]*domain.PendingReallocation{rec, nil})
	assert.ErrorIs(t, err, errors.ErrInternalServer)
}
