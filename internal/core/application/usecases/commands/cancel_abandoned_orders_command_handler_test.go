package commands_test

import (
	"errors"
	"testing"
	"time"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelAbandonedOrdersCommandHandler_Handle(t *testing.T) {
	cutoff := time.Now().Add(-30 * time.Minute)

	stale := newLabOrder(t, kernel.NewUUID())
	paidMeanwhile := newLabOrder(t, kernel.NewUUID())
	listedPaid := newLabOrder(t, paidMeanwhile.ID())
	require.NoError(t, paidMeanwhile.RecordPayment(amount(t, 100), time.Now()))
	placed := newPharmacyOrder(t)

	uow := newMockUoW().expectTx()
	uow.labOrders.On("Query", mock.Anything,
		mock.MatchedBy(func(f ports.LabOrderFilter) bool {
			return f.Status != nil && *f.Status == laborder.PendingPayment && f.CreatedBefore != nil
		}), mock.Anything).
		Return([]*laborder.LabOrder{stale, listedPaid}, int64(2), nil).Once()
	uow.pharmacies.On("Query", mock.Anything,
		mock.MatchedBy(func(f ports.PharmacyOrderFilter) bool {
			return f.Status != nil && *f.Status == pharmacyorder.Placed
		}), mock.Anything).
		Return([]*pharmacyorder.PharmacyOrder{placed}, int64(1), nil).Once()

	uow.labOrders.On("Get", mock.Anything, stale.ID()).Return(stale, nil).Once()
	uow.labOrders.On("Get", mock.Anything, paidMeanwhile.ID()).Return(paidMeanwhile, nil).Once()
	uow.labOrders.On("Update", mock.Anything, stale).Return(nil).Once()
	uow.pharmacies.On("Get", mock.Anything, placed.ID()).Return(placed, nil).Once()
	uow.pharmacies.On("Update", mock.Anything, placed).Return(errors.New("connection reset")).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	factory := &uowFactory{uow: uow}
	h := commands.NewCancelAbandonedOrdersCommandHandler(
		labFactory{factory}, pharmacyFactory{factory}, fastRetrier(), discardLogger(),
	)

	cmd, err := commands.NewCancelAbandonedOrdersCommand(cutoff)
	require.NoError(t, err)

	result, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, commands.CancelAbandonedOrdersResult{
		LabOrdersCancelled:      1,
		PharmacyOrdersCancelled: 0,
		Skipped:                 1,
		Failed:                  1,
	}, result)
	assert.Equal(t, laborder.CancelledByPatient, stale.Status())
	assert.Equal(t, laborder.PaidPendingLabConfirmation, paidMeanwhile.Status())
	uow.labOrders.AssertNotCalled(t, "Update", mock.Anything, paidMeanwhile)
}

func TestCancelAbandonedOrdersCommandHandler_Handle_ListingError(t *testing.T) {
	uow := newMockUoW().expectTx()
	uow.labOrders.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, int64(0), errors.New("db down")).Once()

	factory := &uowFactory{uow: uow}
	h := commands.NewCancelAbandonedOrdersCommandHandler(
		labFactory{factory}, pharmacyFactory{factory}, fastRetrier(), discardLogger(),
	)
	cmd, _ := commands.NewCancelAbandonedOrdersCommand(time.Now())

	_, err := h.Handle(t.Context(), cmd)
	require.Error(t, err)
	uow.labOrders.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestNewCancelAbandonedOrdersCommand_RequiresCutoff(t *testing.T) {
	_, err := commands.NewCancelAbandonedOrdersCommand(time.Time{})
	require.Error(t, err)
}
