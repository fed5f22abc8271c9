package commands_test

import (
	"errors"
	"testing"
	"time"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/core/domain/services"
	"medmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type prescriptionFixture struct {
	p       *prescription.Prescription
	a, b, c kernel.UUID
}

// newPrescriptionFixture builds P with medications A, B and lab test C.
func newPrescriptionFixture(t *testing.T) prescriptionFixture {
	t.Helper()
	f := prescriptionFixture{a: kernel.NewUUID(), b: kernel.NewUUID(), c: kernel.NewUUID()}

	itemA, err := prescription.NewItem(f.a, prescription.Medication, "ATC-N02BE01", "Paracetamol", "")
	require.NoError(t, err)
	itemB, err := prescription.NewItem(f.b, prescription.Medication, "ATC-J01CA04", "Amoxicillin", "")
	require.NoError(t, err)
	itemC, err := prescription.NewItem(f.c, prescription.LabTest, "CBC", "Complete blood count", "")
	require.NoError(t, err)

	f.p, err = prescription.NewPrescription(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		"", []prescription.Item{itemA, itemB, itemC}, time.Now())
	require.NoError(t, err)
	return f
}

func (f prescriptionFixture) selections(pharmacyID, labID kernel.UUID) []services.Selection {
	return []services.Selection{
		{ProviderKind: services.PharmacyProvider, ProviderID: pharmacyID, ItemIDs: []kernel.UUID{f.a, f.b}},
		{ProviderKind: services.LaboratoryProvider, ProviderID: labID, ItemIDs: []kernel.UUID{f.c}},
	}
}

func TestCreateOrdersFromPrescriptionCommandHandler_Handle_Success(t *testing.T) {
	f := newPrescriptionFixture(t)
	pharmacyID, labID := kernel.NewUUID(), kernel.NewUUID()

	uow := newMockUoW().expectTx()
	uow.prescriptions.On("Get", mock.Anything, f.p.ID()).Return(f.p, nil).Once()
	uow.labOrders.On("Add", mock.Anything, mock.AnythingOfType("*laborder.LabOrder")).Return(nil).Once()
	uow.pharmacies.On("Add", mock.Anything, mock.AnythingOfType("*pharmacyorder.PharmacyOrder")).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	cmd, err := commands.NewCreateOrdersFromPrescriptionCommand(f.p.ID(), f.p.PatientID(), f.selections(pharmacyID, labID))
	require.NoError(t, err)

	h := commands.NewCreateOrdersFromPrescriptionCommandHandler(
		fanOutFactory{&uowFactory{uow: uow}}, services.NewPrescriptionFanOut(), fastRetrier(),
	)
	result, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)

	require.Len(t, result.PharmacyOrders, 1)
	require.Len(t, result.LabOrders, 1)
	ph, lab := result.PharmacyOrders[0], result.LabOrders[0]
	assert.True(t, ph.PrescriptionID().IsEqual(f.p.ID()))
	assert.True(t, lab.PrescriptionID().IsEqual(f.p.ID()))
	assert.True(t, ph.PharmacyID().IsEqual(pharmacyID))
	assert.True(t, lab.LaboratoryID().IsEqual(labID))
	assert.Len(t, ph.Items(), 2)
	assert.Len(t, lab.Tests(), 1)
	assert.Equal(t, pharmacyorder.Placed, ph.Status())
	assert.Equal(t, laborder.PendingPayment, lab.Status())
	uow.AssertExpectations(t)
}

func TestCreateOrdersFromPrescriptionCommandHandler_Handle_FailureCommitsNothing(t *testing.T) {
	f := newPrescriptionFixture(t)

	uow := newMockUoW().expectTx()
	uow.prescriptions.On("Get", mock.Anything, f.p.ID()).Return(f.p, nil).Once()
	uow.labOrders.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.pharmacies.On("Add", mock.Anything, mock.Anything).Return(errors.New("disk full")).Once()

	cmd, _ := commands.NewCreateOrdersFromPrescriptionCommand(
		f.p.ID(), f.p.PatientID(), f.selections(kernel.NewUUID(), kernel.NewUUID()),
	)
	h := commands.NewCreateOrdersFromPrescriptionCommandHandler(
		fanOutFactory{&uowFactory{uow: uow}}, services.NewPrescriptionFanOut(), fastRetrier(),
	)

	_, err := h.Handle(t.Context(), cmd)
	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
	uow.AssertCalled(t, "Rollback", mock.Anything)
}

func TestCreateOrdersFromPrescriptionCommandHandler_Handle_RetriesOrderNumberCollision(t *testing.T) {
	f := newPrescriptionFixture(t)
	collision := errs.NewConcurrencyConflictError(pharmacyorder.AggregateKind, "RX-20240501-00000000")

	uow := newMockUoW().expectTx()
	uow.prescriptions.On("Get", mock.Anything, f.p.ID()).Return(f.p, nil).Twice()
	uow.labOrders.On("Add", mock.Anything, mock.Anything).Return(nil).Twice()
	uow.pharmacies.On("Add", mock.Anything, mock.Anything).Return(collision).Once()
	uow.pharmacies.On("Add", mock.Anything, mock.Anything).Return(nil).Once()
	uow.On("Commit", mock.Anything).Return(nil).Once()

	cmd, _ := commands.NewCreateOrdersFromPrescriptionCommand(
		f.p.ID(), f.p.PatientID(), f.selections(kernel.NewUUID(), kernel.NewUUID()),
	)
	h := commands.NewCreateOrdersFromPrescriptionCommandHandler(
		fanOutFactory{&uowFactory{uow: uow}}, services.NewPrescriptionFanOut(), fastRetrier(),
	)

	result, err := h.Handle(t.Context(), cmd)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Len())
	uow.AssertExpectations(t)
}

func TestCreateOrdersFromPrescriptionCommandHandler_Handle_OtherPatient(t *testing.T) {
	f := newPrescriptionFixture(t)

	uow := newMockUoW().expectTx()
	uow.prescriptions.On("Get", mock.Anything, f.p.ID()).Return(f.p, nil).Once()

	cmd, _ := commands.NewCreateOrdersFromPrescriptionCommand(
		f.p.ID(), kernel.NewUUID(), f.selections(kernel.NewUUID(), kernel.NewUUID()),
	)
	h := commands.NewCreateOrdersFromPrescriptionCommandHandler(
		fanOutFactory{&uowFactory{uow: uow}}, services.NewPrescriptionFanOut(), fastRetrier(),
	)

	_, err := h.Handle(t.Context(), cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	uow.labOrders.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestNewCreateOrdersFromPrescriptionCommand_RequiresSelections(t *testing.T) {
	_, err := commands.NewCreateOrdersFromPrescriptionCommand(kernel.NewUUID(), kernel.NewUUID(), nil)
	require.ErrorIs(t, err, errs.ErrValidation)
}
