package laborder_test

import (
	"testing"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTest(t *testing.T, code string) laborder.Test {
	t.Helper()
	test, err := laborder.NewTest(kernel.NewUUID(), code, "test "+code)
	require.NoError(t, err)
	return test
}

func newOrder(t *testing.T, codes ...string) *laborder.LabOrder {
	t.Helper()
	if len(codes) == 0 {
		codes = []string{"718-7", "2345-7"}
	}
	tests := make([]laborder.Test, 0, len(codes))
	for _, c := range codes {
		tests = append(tests, newTest(t, c))
	}
	o, err := laborder.NewLabOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), tests, now)
	require.NoError(t, err)
	return o
}

func money(t *testing.T, minor int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(minor)
	require.NoError(t, err)
	return m
}

func result(t *testing.T, code string) laborder.LabResult {
	t.Helper()
	r, err := laborder.NewLabResult(kernel.NewUUID(), laborder.ResultInput{TestID: code, Value: "13.5", Unit: "g/dL"}, now)
	require.NoError(t, err)
	return r
}

func inProgressOrder(t *testing.T) *laborder.LabOrder {
	t.Helper()
	o := newOrder(t)
	require.NoError(t, o.RecordPayment(money(t, 4500), now))
	require.NoError(t, o.ConfirmByLab(now))
	require.NoError(t, o.MarkSamplesCollected(now))
	return o
}

func TestNewLabOrder(t *testing.T) {
	t.Run("should start in PendingPayment", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.Validate())
		assert.Equal(t, laborder.PendingPayment, o.Status())
		assert.Nil(t, o.PaidAt())
		assert.Nil(t, o.RejectedAt())
		assert.Len(t, o.Tests(), 2)
		assert.Equal(t, int64(0), o.Version())
		assert.Empty(t, o.PullEvents())
	})

	t.Run("should refuse orphans", func(t *testing.T) {
		tests := []laborder.Test{newTest(t, "718-7")}

		_, err := laborder.NewLabOrder(kernel.NewUUID(), kernel.UUID{}, kernel.UUID{}, kernel.UUID{}, tests, now)

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should require tests", func(t *testing.T) {
		_, err := laborder.NewLabOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), nil, now)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should refuse the same prescription item twice", func(t *testing.T) {
		test := newTest(t, "718-7")

		_, err := laborder.NewLabOrder(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			[]laborder.Test{test, test}, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestLabOrder_RecordPayment(t *testing.T) {
	t.Run("should set PaidAt and move forward", func(t *testing.T) {
		o := newOrder(t)

		require.NoError(t, o.RecordPayment(money(t, 4500), now))

		assert.Equal(t, laborder.PaidPendingLabConfirmation, o.Status())
		require.NotNil(t, o.PaidAt())
		assert.Equal(t, now, *o.PaidAt())
		assert.Equal(t, int64(4500), o.Amount().Minor())

		events := o.PullEvents()
		require.Len(t, events, 1)
		assert.Equal(t, "PendingPayment", events[0].From)
		assert.Equal(t, "PaidPendingLabConfirmation", events[0].To)
		assert.True(t, events[0].AggregateID.IsEqual(o.ID()))
	})

	t.Run("second payment is an invalid transition", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.RecordPayment(money(t, 4500), now))
		paidAt := *o.PaidAt()

		err := o.RecordPayment(money(t, 9000), now.Add(time.Hour))

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, paidAt, *o.PaidAt())
		assert.Equal(t, int64(4500), o.Amount().Minor())
	})

	t.Run("zero amount is rejected without side effects", func(t *testing.T) {
		o := newOrder(t)

		err := o.RecordPayment(money(t, 0), now)

		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, laborder.PendingPayment, o.Status())
		assert.Nil(t, o.PaidAt())
	})
}

func TestLabOrder_RejectByLab(t *testing.T) {
	t.Run("empty reason is a validation error and leaves status unchanged", func(t *testing.T) {
		for _, reason := range []string{"", "   "} {
			o := newOrder(t)
			require.NoError(t, o.RecordPayment(money(t, 4500), now))

			err := o.RejectByLab(reason, now)

			require.ErrorIs(t, err, errs.ErrValidation)
			assert.Equal(t, laborder.PaidPendingLabConfirmation, o.Status())
			assert.Nil(t, o.RejectedAt())
		}
	})

	t.Run("empty reason is a validation error even from a wrong state", func(t *testing.T) {
		o := newOrder(t)

		err := o.RejectByLab("", now)

		require.ErrorIs(t, err, errs.ErrValidation)
		assert.Equal(t, laborder.PendingPayment, o.Status())
	})

	t.Run("from PaidPendingLabConfirmation and ConfirmedByLab", func(t *testing.T) {
		paid := newOrder(t)
		require.NoError(t, paid.RecordPayment(money(t, 4500), now))
		confirmed := newOrder(t)
		require.NoError(t, confirmed.RecordPayment(money(t, 4500), now))
		require.NoError(t, confirmed.ConfirmByLab(now))

		for _, o := range []*laborder.LabOrder{paid, confirmed} {
			require.NoError(t, o.RejectByLab(" reagent shortage ", now))
			assert.Equal(t, laborder.CancelledByLab, o.Status())
			assert.Equal(t, "reagent shortage", o.RejectionReason())
			assert.NotNil(t, o.RejectedAt())
		}
	})

	t.Run("not before payment", func(t *testing.T) {
		o := newOrder(t)

		require.ErrorIs(t, o.RejectByLab("busy", now), errs.ErrInvalidTransition)
	})
}

func TestLabOrder_SubmitResults(t *testing.T) {
	t.Run("should attach results", func(t *testing.T) {
		o := inProgressOrder(t)

		require.NoError(t, o.SubmitResults([]laborder.LabResult{result(t, "718-7"), result(t, "2345-7")}, now))

		assert.Equal(t, laborder.ResultsReady, o.Status())
		assert.Len(t, o.Results(), 2)
		assert.NotNil(t, o.ResultsReadyAt())
	})

	t.Run("empty list is a validation error", func(t *testing.T) {
		o := inProgressOrder(t)

		require.ErrorIs(t, o.SubmitResults(nil, now), errs.ErrValueIsRequired)
		assert.Equal(t, laborder.InProgress, o.Status())
	})

	t.Run("unknown test is rejected atomically", func(t *testing.T) {
		o := inProgressOrder(t)

		err := o.SubmitResults([]laborder.LabResult{result(t, "718-7"), result(t, "9999-9")}, now)

		require.ErrorIs(t, err, errs.ErrUnknownTestReference)
		assert.Contains(t, err.Error(), "9999-9")
		assert.Equal(t, laborder.InProgress, o.Status())
		assert.Empty(t, o.Results())
	})

	t.Run("same test twice is rejected", func(t *testing.T) {
		o := inProgressOrder(t)

		err := o.SubmitResults([]laborder.LabResult{result(t, "718-7"), result(t, "718-7")}, now)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("not before samples are collected", func(t *testing.T) {
		o := newOrder(t)

		err := o.SubmitResults([]laborder.LabResult{result(t, "718-7")}, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestLabOrder_MarkCompletedTwice(t *testing.T) {
	o := inProgressOrder(t)
	require.NoError(t, o.SubmitResults([]laborder.LabResult{result(t, "718-7")}, now))
	require.NoError(t, o.MarkCompleted(now))

	err := o.MarkCompleted(now)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, laborder.Completed, o.Status())
}

func TestLabOrder_CancelByPatient(t *testing.T) {
	t.Run("before and after payment", func(t *testing.T) {
		unpaid := newOrder(t)
		require.NoError(t, unpaid.CancelByPatient(now))
		assert.Equal(t, laborder.CancelledByPatient, unpaid.Status())

		paid := newOrder(t)
		require.NoError(t, paid.RecordPayment(money(t, 100), now))
		require.NoError(t, paid.CancelByPatient(now))
		assert.NotNil(t, paid.CancelledAt())
	})

	t.Run("not after the laboratory confirmed", func(t *testing.T) {
		o := newOrder(t)
		require.NoError(t, o.RecordPayment(money(t, 100), now))
		require.NoError(t, o.ConfirmByLab(now))

		require.ErrorIs(t, o.CancelByPatient(now), errs.ErrInvalidTransition)
		assert.Equal(t, laborder.ConfirmedByLab, o.Status())
	})
}

func TestRestore(t *testing.T) {
	base := func() laborder.Snapshot {
		paidAt := now
		return laborder.Snapshot{
			ID:             kernel.NewUUID(),
			PrescriptionID: kernel.NewUUID(),
			LaboratoryID:   kernel.NewUUID(),
			PatientID:      kernel.NewUUID(),
			Tests:          []laborder.Test{newTest(t, "718-7")},
			Status:         laborder.ConfirmedByLab,
			Amount:         money(t, 4500),
			CreatedAt:      now,
			PaidAt:         &paidAt,
			Version:        3,
		}
	}

	t.Run("valid snapshot", func(t *testing.T) {
		o, err := laborder.Restore(base())

		require.NoError(t, err)
		assert.Equal(t, laborder.ConfirmedByLab, o.Status())
		assert.Equal(t, int64(3), o.Version())
		o.IncrementVersion()
		assert.Equal(t, int64(4), o.Version())
	})

	t.Run("paid status without PaidAt", func(t *testing.T) {
		s := base()
		s.PaidAt = nil

		_, err := laborder.Restore(s)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("rejection time outside CancelledByLab", func(t *testing.T) {
		s := base()
		rejectedAt := now
		s.RejectedAt = &rejectedAt

		_, err := laborder.Restore(s)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("CancelledByLab without reason", func(t *testing.T) {
		s := base()
		rejectedAt := now
		s.Status = laborder.CancelledByLab
		s.RejectedAt = &rejectedAt

		_, err := laborder.Restore(s)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("unknown status", func(t *testing.T) {
		s := base()
		s.Status = laborder.Unknown

		_, err := laborder.Restore(s)
		require.Error(t, err)
	})
}
