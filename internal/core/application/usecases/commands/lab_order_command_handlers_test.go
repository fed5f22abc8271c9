package commands_test

import (
	"errors"
	"testing"
	"time"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLabOrder(t *testing.T, id kernel.UUID) *laborder.LabOrder {
	t.Helper()
	test, err := laborder.NewTest(kernel.NewUUID(), "CBC", "Complete blood count")
	require.NoError(t, err)
	o, err := laborder.NewLabOrder(id, kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]laborder.Test{test}, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	return o
}

func amount(t *testing.T, minor int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(minor)
	require.NoError(t, err)
	return m
}

func TestRecordLabPaymentCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	order := newLabOrder(t, id)

	uow := newMockUoW().expectTx()
	uow.labOrders.On("Get", mock.Anything, id).Return(order, nil).Once()
	uow.labOrders.On("Update", mock.Anything, order).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewRecordLabPaymentCommand(id, amount(t, 4500))
	require.NoError(t, err)

	h := commands.NewRecordLabPaymentCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, laborder.PaidPendingLabConfirmation, got.Status())
	assert.Equal(t, int64(4500), got.Amount().Minor())
	assert.NotNil(t, got.PaidAt())
	uow.AssertExpectations(t)
	uow.labOrders.AssertExpectations(t)
}

func TestRecordLabPaymentCommandHandler_Handle_RetriesOnConflict(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	conflict := errs.NewConcurrencyConflictError(laborder.AggregateKind, id.String())

	uow := newMockUoW().expectTx()
	uow.labOrders.On("Get", mock.Anything, id).Return(func() *laborder.LabOrder { return newLabOrder(t, id) }, nil)
	uow.labOrders.On("Update", mock.Anything, mock.Anything).Return(conflict).Twice()
	uow.labOrders.On("Update", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	cmd, _ := commands.NewRecordLabPaymentCommand(id, amount(t, 100))
	factory := &uowFactory{uow: uow}
	h := commands.NewRecordLabPaymentCommandHandler(labFactory{factory}, fastRetrier())

	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, laborder.PaidPendingLabConfirmation, got.Status())
	assert.Equal(t, 3, factory.created)
	uow.labOrders.AssertNumberOfCalls(t, "Get", 3)
}

func TestRecordLabPaymentCommandHandler_Handle_ConflictSurfacesAfterLastAttempt(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()

	uow := newMockUoW().expectTx()
	uow.labOrders.On("Get", mock.Anything, id).Return(func() *laborder.LabOrder { return newLabOrder(t, id) }, nil)
	uow.labOrders.On("Update", mock.Anything, mock.Anything).
		Return(errs.NewConcurrencyConflictError(laborder.AggregateKind, id.String()))

	cmd, _ := commands.NewRecordLabPaymentCommand(id, amount(t, 100))
	h := commands.NewRecordLabPaymentCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrConflict)
	uow.labOrders.AssertNumberOfCalls(t, "Update", 3)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}

func TestRecordLabPaymentCommandHandler_Handle_InvalidTransitionIsNotRetried(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	order := newLabOrder(t, id)
	require.NoError(t, order.RecordPayment(amount(t, 100), time.Now()))

	uow := newMockUoW().expectTx()
	uow.labOrders.On("Get", mock.Anything, id).Return(order, nil).Once()

	cmd, _ := commands.NewRecordLabPaymentCommand(id, amount(t, 100))
	h := commands.NewRecordLabPaymentCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	uow.labOrders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.labOrders.AssertNumberOfCalls(t, "Get", 1)
}

func TestRecordLabPaymentCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()

	uow := newMockUoW().expectTx()
	uow.labOrders.On("Get", mock.Anything, id).Return(nil, errs.NewObjectNotFoundError("lab order", id.String())).Once()

	cmd, _ := commands.NewRecordLabPaymentCommand(id, amount(t, 100))
	h := commands.NewRecordLabPaymentCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

	_, err := h.Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestRecordLabPaymentCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	uow := newMockUoW()
	uow.On("Begin", mock.Anything).Return(errors.New("begin error")).Once()

	cmd, _ := commands.NewRecordLabPaymentCommand(kernel.NewUUID(), amount(t, 100))
	h := commands.NewRecordLabPaymentCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

	_, err := h.Handle(ctx, cmd)
	require.Error(t, err)
	uow.AssertExpectations(t)
}

func TestRecordLabPaymentCommandHandler_Handle_ValidationError(t *testing.T) {
	h := commands.NewRecordLabPaymentCommandHandler(labFactory{&uowFactory{uow: newMockUoW()}}, fastRetrier())

	_, err := h.Handle(t.Context(), commands.RecordLabPaymentCommand{})
	require.ErrorIs(t, err, commands.ErrRecordLabPaymentCommandIsNotConstructed)
}

func TestRejectLabOrderCommandHandler_Handle(t *testing.T) {
	paidOrder := func(t *testing.T, id kernel.UUID) *laborder.LabOrder {
		o := newLabOrder(t, id)
		require.NoError(t, o.RecordPayment(amount(t, 100), time.Now()))
		return o
	}

	t.Run("rejects_with_reason", func(t *testing.T) {
		id := kernel.NewUUID()
		order := paidOrder(t, id)
		uow := newMockUoW().expectTx()
		uow.labOrders.On("Get", mock.Anything, id).Return(order, nil).Once()
		uow.labOrders.On("Update", mock.Anything, order).Return(nil).Once()
		uow.On("Commit", mock.Anything).Return(nil).Once()

		cmd, err := commands.NewRejectLabOrderCommand(id, "reagent shortage")
		require.NoError(t, err)
		h := commands.NewRejectLabOrderCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

		got, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, laborder.CancelledByLab, got.Status())
		assert.Equal(t, "reagent shortage", got.RejectionReason())
	})

	t.Run("empty_reason_leaves_order_unchanged", func(t *testing.T) {
		id := kernel.NewUUID()
		order := paidOrder(t, id)
		uow := newMockUoW().expectTx()
		uow.labOrders.On("Get", mock.Anything, id).Return(order, nil).Once()

		cmd, err := commands.NewRejectLabOrderCommand(id, "  ")
		require.NoError(t, err)
		h := commands.NewRejectLabOrderCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

		_, err = h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, laborder.PaidPendingLabConfirmation, order.Status())
		uow.labOrders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})
}

func TestSubmitLabResultsCommandHandler_Handle(t *testing.T) {
	inProgress := func(t *testing.T, id kernel.UUID) *laborder.LabOrder {
		o := newLabOrder(t, id)
		now := time.Now()
		require.NoError(t, o.RecordPayment(amount(t, 100), now))
		require.NoError(t, o.ConfirmByLab(now))
		require.NoError(t, o.MarkSamplesCollected(now))
		return o
	}

	t.Run("stores_results", func(t *testing.T) {
		id := kernel.NewUUID()
		order := inProgress(t, id)
		uow := newMockUoW().expectTx()
		uow.labOrders.On("Get", mock.Anything, id).Return(order, nil).Once()
		uow.labOrders.On("Update", mock.Anything, order).Return(nil).Once()
		uow.On("Commit", mock.Anything).Return(nil).Once()

		cmd, err := commands.NewSubmitLabResultsCommand(id, []laborder.ResultInput{
			{TestID: "CBC", Value: "5.1", Unit: "10^9/L", ReferenceRange: "4.0-10.0"},
		})
		require.NoError(t, err)
		h := commands.NewSubmitLabResultsCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

		got, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, laborder.ResultsReady, got.Status())
		require.Len(t, got.Results(), 1)
		assert.Equal(t, "CBC", got.Results()[0].TestID())
	})

	t.Run("unknown_test_reference", func(t *testing.T) {
		id := kernel.NewUUID()
		order := inProgress(t, id)
		uow := newMockUoW().expectTx()
		uow.labOrders.On("Get", mock.Anything, id).Return(order, nil).Once()

		cmd, _ := commands.NewSubmitLabResultsCommand(id, []laborder.ResultInput{{TestID: "LIPID", Value: "1"}})
		h := commands.NewSubmitLabResultsCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

		_, err := h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrUnknownTestReference)
		assert.Equal(t, laborder.InProgress, order.Status())
		uow.labOrders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("empty_results_are_rejected_by_command", func(t *testing.T) {
		_, err := commands.NewSubmitLabResultsCommand(kernel.NewUUID(), nil)
		require.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestChangeLabOrderStatusCommandHandler_Handle(t *testing.T) {
	t.Run("confirm_paid_order", func(t *testing.T) {
		id := kernel.NewUUID()
		order := newLabOrder(t, id)
		require.NoError(t, order.RecordPayment(amount(t, 100), time.Now()))

		uow := newMockUoW().expectTx()
		uow.labOrders.On("Get", mock.Anything, id).Return(order, nil).Once()
		uow.labOrders.On("Update", mock.Anything, order).Return(nil).Once()
		uow.On("Commit", mock.Anything).Return(nil).Once()

		cmd, err := commands.NewChangeLabOrderStatusCommand(id, commands.ConfirmLabOrder)
		require.NoError(t, err)
		h := commands.NewChangeLabOrderStatusCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

		got, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, laborder.ConfirmedByLab, got.Status())
	})

	t.Run("complete_before_results_is_invalid", func(t *testing.T) {
		id := kernel.NewUUID()
		order := newLabOrder(t, id)

		uow := newMockUoW().expectTx()
		uow.labOrders.On("Get", mock.Anything, id).Return(order, nil).Once()

		cmd, _ := commands.NewChangeLabOrderStatusCommand(id, commands.CompleteLabOrder)
		h := commands.NewChangeLabOrderStatusCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

		_, err := h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, laborder.PendingPayment, order.Status())
	})

	t.Run("patient_cancels_pending_order", func(t *testing.T) {
		id := kernel.NewUUID()
		order := newLabOrder(t, id)

		uow := newMockUoW().expectTx()
		uow.labOrders.On("Get", mock.Anything, id).Return(order, nil).Once()
		uow.labOrders.On("Update", mock.Anything, order).Return(nil).Once()
		uow.On("Commit", mock.Anything).Return(nil).Once()

		cmd, _ := commands.NewChangeLabOrderStatusCommand(id, commands.CancelLabOrder)
		h := commands.NewChangeLabOrderStatusCommandHandler(labFactory{&uowFactory{uow: uow}}, fastRetrier())

		got, err := h.Handle(t.Context(), cmd)
		require.NoError(t, err)
		assert.Equal(t, laborder.CancelledByPatient, got.Status())
	})
}

func TestLabOrderCommands_Constructors(t *testing.T) {
	_, err := commands.NewRecordLabPaymentCommand(kernel.NewUUID(), kernel.ZeroMoney())
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = commands.NewRecordLabPaymentCommand(kernel.UUID{}, amount(t, 1))
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = commands.NewChangeLabOrderStatusCommand(kernel.NewUUID(), commands.LabOrderAction("pay"))
	require.ErrorIs(t, err, errs.ErrValidation)

	action, err := commands.ParseLabOrderAction("collect-samples")
	require.NoError(t, err)
	assert.Equal(t, commands.CollectLabSamples, action)
}
