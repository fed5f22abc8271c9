package commands_test

import (
	"testing"
	"time"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var doctorScores = map[string]int{"communication": 5, "professionalism": 3, "punctuality": 4}

func TestCreateReviewCommandHandler_Handle_DoctorReview(t *testing.T) {
	visit := newAppointment(t)
	require.NoError(t, visit.Complete(time.Now()))

	uow := newMockUoW().expectTx()
	uow.appointments.On("Get", mock.Anything, visit.ID()).Return(visit, nil).Once()
	uow.reviews.On("Query", mock.Anything, mock.Anything, mock.Anything).Return([]*review.Review{}, int64(0), nil).Once()
	uow.reviews.On("Add", mock.Anything, mock.AnythingOfType("*review.Review")).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewCreateReviewCommand(kernel.NewUUID(), review.Doctor, visit.ID(), visit.PatientID(),
		doctorScores, "kind and thorough")
	require.NoError(t, err)

	h := commands.NewCreateReviewCommandHandler(reviewFactory{&uowFactory{uow: uow}})
	got, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)

	assert.InDelta(t, 4.0, got.Rating(), 1e-9)
	assert.Equal(t, review.Doctor, got.Subject().Kind)
	assert.True(t, got.Subject().ID.IsEqual(visit.DoctorID()))
	uow.AssertExpectations(t)
}

func TestCreateReviewCommandHandler_Handle_Duplicate(t *testing.T) {
	visit := newAppointment(t)
	require.NoError(t, visit.Complete(time.Now()))
	subject, err := review.NewSubject(review.Doctor, visit.DoctorID())
	require.NoError(t, err)
	original, err := review.NewReview(kernel.NewUUID(), subject, visit.PatientID(), visit.ID(), doctorScores, "", time.Now())
	require.NoError(t, err)

	uow := newMockUoW().expectTx()
	uow.appointments.On("Get", mock.Anything, visit.ID()).Return(visit, nil).Once()
	uow.reviews.On("Query", mock.Anything, mock.Anything, mock.Anything).
		Return([]*review.Review{original}, int64(1), nil).Once()

	cmd, _ := commands.NewCreateReviewCommand(kernel.NewUUID(), review.Doctor, visit.ID(), visit.PatientID(),
		map[string]int{"communication": 1, "professionalism": 1, "punctuality": 1}, "")
	h := commands.NewCreateReviewCommandHandler(reviewFactory{&uowFactory{uow: uow}})

	_, err = h.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrDuplicateReview)
	uow.reviews.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	assert.InDelta(t, 4.0, original.Rating(), 1e-9)
}

func TestCreateReviewCommandHandler_Handle_SourceNotFinished(t *testing.T) {
	t.Run("scheduled_appointment", func(t *testing.T) {
		visit := newAppointment(t)
		uow := newMockUoW().expectTx()
		uow.appointments.On("Get", mock.Anything, visit.ID()).Return(visit, nil).Once()

		cmd, _ := commands.NewCreateReviewCommand(kernel.NewUUID(), review.Doctor, visit.ID(), visit.PatientID(),
			doctorScores, "")
		h := commands.NewCreateReviewCommandHandler(reviewFactory{&uowFactory{uow: uow}})

		_, err := h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("lab_order_in_progress", func(t *testing.T) {
		order := newLabOrder(t, kernel.NewUUID())
		uow := newMockUoW().expectTx()
		uow.labOrders.On("Get", mock.Anything, order.ID()).Return(order, nil).Once()

		cmd, _ := commands.NewCreateReviewCommand(kernel.NewUUID(), review.Laboratory, order.ID(), order.PatientID(),
			map[string]int{"accuracy": 5, "turnaround": 5, "service": 5}, "")
		h := commands.NewCreateReviewCommandHandler(reviewFactory{&uowFactory{uow: uow}})

		_, err := h.Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrValidation)
	})
}

func TestCreateReviewCommandHandler_Handle_PharmacyReview(t *testing.T) {
	order := newPharmacyOrder(t)
	now := time.Now()
	require.NoError(t, order.ConfirmByPharmacy(kernel.ZeroMoney(), now))
	require.NoError(t, order.StartPreparing(now))
	require.NoError(t, order.Dispatch(now))
	require.NoError(t, order.MarkDelivered(now))

	uow := newMockUoW().expectTx()
	uow.pharmacies.On("Get", mock.Anything, order.ID()).Return(order, nil).Once()
	uow.reviews.On("Query", mock.Anything, mock.Anything, mock.Anything).Return([]*review.Review{}, int64(0), nil).Once()
	uow.reviews.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	cmd, _ := commands.NewCreateReviewCommand(kernel.NewUUID(), review.Pharmacy, order.ID(), order.PatientID(),
		map[string]int{"availability": 4, "delivery": 5, "service": 3}, "")
	h := commands.NewCreateReviewCommandHandler(reviewFactory{&uowFactory{uow: uow}})

	got, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.True(t, got.Subject().ID.IsEqual(order.PharmacyID()))
}

func TestCreateReviewCommandHandler_Handle_OtherPatientsSource(t *testing.T) {
	visit := newAppointment(t)
	require.NoError(t, visit.Complete(time.Now()))

	uow := newMockUoW().expectTx()
	uow.appointments.On("Get", mock.Anything, visit.ID()).Return(visit, nil).Once()

	cmd, _ := commands.NewCreateReviewCommand(kernel.NewUUID(), review.Doctor, visit.ID(), kernel.NewUUID(),
		doctorScores, "")
	h := commands.NewCreateReviewCommandHandler(reviewFactory{&uowFactory{uow: uow}})

	_, err := h.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}
