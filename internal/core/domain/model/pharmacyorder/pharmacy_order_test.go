package pharmacyorder_test

import (
	"testing"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newOrder(t *testing.T) *pharmacyorder.PharmacyOrder {
	t.Helper()
	item, err := pharmacyorder.NewItem(kernel.NewUUID(), "SKU-AMOX-500", "Amoxicillin 500mg", "twice a day")
	require.NoError(t, err)

	o, err := pharmacyorder.NewPharmacyOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]pharmacyorder.Item{item}, now)
	require.NoError(t, err)
	return o
}

func fee(t *testing.T, minor int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(minor)
	require.NoError(t, err)
	return m
}

func TestNewPharmacyOrder(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.Validate())
	assert.Equal(t, pharmacyorder.Placed, o.Status())
	assert.Contains(t, o.Number().String(), "RX-20240501-")
	assert.Len(t, o.Items(), 1)
	assert.Equal(t, int64(0), o.DeliveryFee().Minor())

	var zero pharmacyorder.PharmacyOrder
	require.ErrorIs(t, zero.Validate(), pharmacyorder.ErrPharmacyOrderIsNotConstructed)
}

func TestNewPharmacyOrder_Invalid(t *testing.T) {
	item, err := pharmacyorder.NewItem(kernel.NewUUID(), "SKU-1", "", "")
	require.NoError(t, err)

	_, err = pharmacyorder.NewPharmacyOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.UUID{}, kernel.NewUUID(),
		[]pharmacyorder.Item{item}, now)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)

	_, err = pharmacyorder.NewPharmacyOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		[]pharmacyorder.Item{item, item}, now)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	_, err = pharmacyorder.NewItem(kernel.NewUUID(), " ", "Aspirin", "")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestPharmacyOrder_Delivery(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.ConfirmByPharmacy(fee(t, 250), now))
	require.NoError(t, o.StartPreparing(now.Add(time.Minute)))
	require.NoError(t, o.Dispatch(now.Add(time.Hour)))
	require.NoError(t, o.MarkDelivered(now.Add(2*time.Hour)))

	assert.Equal(t, pharmacyorder.Delivered, o.Status())
	assert.Equal(t, int64(250), o.DeliveryFee().Minor())
	assert.NotNil(t, o.ConfirmedAt())
	assert.NotNil(t, o.PreparingAt())
	assert.NotNil(t, o.DispatchedAt())
	assert.Equal(t, now.Add(2*time.Hour), *o.DeliveredAt())

	events := o.PullEvents()
	require.Len(t, events, 4)
	assert.Equal(t, pharmacyorder.AggregateKind, events[3].AggregateKind)
	assert.Equal(t, "OutForDelivery", events[3].From)
	assert.Equal(t, "Delivered", events[3].To)

	require.ErrorIs(t, o.MarkDelivered(now), errs.ErrInvalidTransition)
	assert.Empty(t, o.PullEvents())
}

func TestPharmacyOrder_ConfirmWithZeroFee(t *testing.T) {
	o := newOrder(t)

	require.NoError(t, o.ConfirmByPharmacy(kernel.ZeroMoney(), now))
	assert.Equal(t, pharmacyorder.Confirmed, o.Status())
}

func TestPharmacyOrder_ConfirmWithUnconstructedFee(t *testing.T) {
	o := newOrder(t)

	require.ErrorIs(t, o.ConfirmByPharmacy(kernel.Money{}, now), kernel.ErrMoneyIsNotConstructed)
	assert.Equal(t, pharmacyorder.Placed, o.Status())
	assert.Nil(t, o.ConfirmedAt())
}

func TestPharmacyOrder_RejectByPharmacy(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		o := newOrder(t)

		require.ErrorIs(t, o.RejectByPharmacy("", now), errs.ErrValidation)
		assert.Equal(t, pharmacyorder.Placed, o.Status())
		assert.Nil(t, o.RejectedAt())
	})

	t.Run("sets reason and time", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.ConfirmByPharmacy(fee(t, 0), now))

		require.NoError(t, o.RejectByPharmacy("out of stock", now))
		assert.Equal(t, pharmacyorder.RejectedByPharmacy, o.Status())
		assert.Equal(t, "out of stock", o.RejectionReason())
		assert.NotNil(t, o.RejectedAt())
	})

	t.Run("not while preparing", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.ConfirmByPharmacy(fee(t, 0), now))
		require.NoError(t, o.StartPreparing(now))

		require.ErrorIs(t, o.RejectByPharmacy("out of stock", now), errs.ErrInvalidTransition)
		assert.Equal(t, pharmacyorder.Preparing, o.Status())
	})
}

func TestPharmacyOrder_CancelByPatient(t *testing.T) {
	o := newOrder(t)
	require.NoError(t, o.CancelByPatient(now))
	assert.Equal(t, pharmacyorder.CancelledByPatient, o.Status())
	assert.NotNil(t, o.CancelledAt())

	require.ErrorIs(t, o.CancelByPatient(now), errs.ErrInvalidTransition)
}

func TestRestore(t *testing.T) {
	number, err := pharmacyorder.ParseOrderNumber("RX-20240501-7K3QZ9FD")
	require.NoError(t, err)
	item, err := pharmacyorder.NewItem(kernel.NewUUID(), "SKU-1", "Aspirin", "")
	require.NoError(t, err)
	rejectedAt := now

	snapshot := pharmacyorder.Snapshot{
		ID:              kernel.NewUUID(),
		Number:          number,
		PrescriptionID:  kernel.NewUUID(),
		PharmacyID:      kernel.NewUUID(),
		PatientID:       kernel.NewUUID(),
		Items:           []pharmacyorder.Item{item},
		Status:          pharmacyorder.RejectedByPharmacy,
		DeliveryFee:     kernel.ZeroMoney(),
		RejectionReason: "closed",
		CreatedAt:       now,
		RejectedAt:      &rejectedAt,
		Version:         2,
	}

	o, err := pharmacyorder.Restore(snapshot)
	require.NoError(t, err)
	assert.Equal(t, number, o.Number())
	assert.Equal(t, int64(2), o.Version())

	snapshot.RejectionReason = ""
	_, err = pharmacyorder.Restore(snapshot)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	snapshot.Number = pharmacyorder.OrderNumber{}
	_, err = pharmacyorder.Restore(snapshot)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}
