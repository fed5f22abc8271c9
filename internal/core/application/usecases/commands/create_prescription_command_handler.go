package commands

import (
	"context"
	"errors"
	"time"

	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/core/ports"
	"medmarket/internal/pkg/errs"
)

var (
	ErrPrescriptionAlreadyExists       = errors.New("prescription already exists")
	ErrAppointmentNotAttendedByParties = errors.New("appointment does not belong to this doctor and patient")
	ErrAppointmentIsCancelled          = errors.New("appointment is cancelled")
)

// CreatePrescriptionCommandHandler issues the single prescription of an appointment.
//
// Business rules:
//   - The appointment must exist and be attended by the command's doctor and patient
//   - A cancelled appointment cannot be prescribed for
//   - At most one prescription per appointment
//
// Two doctors racing to prescribe for one appointment collide on the store's
// uniqueness check; the loser is retried and then sees the existing prescription.
type CreatePrescriptionCommandHandler struct {
	uowFactory PrescriptionUoWFactory
	retrier    ConflictRetrier
}

func NewCreatePrescriptionCommandHandler(
	uowFactory PrescriptionUoWFactory,
	retrier ConflictRetrier,
) CreatePrescriptionCommandHandler {
	return CreatePrescriptionCommandHandler{
		uowFactory: uowFactory,
		retrier:    retrier,
	}
}

func (h CreatePrescriptionCommandHandler) Handle(
	ctx context.Context,
	cmd CreatePrescriptionCommand,
) (*prescription.Prescription, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return retryOnConflict(ctx, h.retrier, "appointment", cmd.AppointmentID(), func() (*prescription.Prescription, error) {
		return h.create(ctx, cmd)
	})
}

func (h CreatePrescriptionCommandHandler) create(
	ctx context.Context,
	cmd CreatePrescriptionCommand,
) (*prescription.Prescription, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	visit, err := uow.AppointmentRepository().Get(ctx, cmd.AppointmentID())
	if err != nil {
		return nil, err
	}
	if !visit.IsAttendedBy(cmd.DoctorID(), cmd.PatientID()) {
		return nil, errs.NewValueIsInvalidErrorWithCause("appointment", ErrAppointmentNotAttendedByParties)
	}
	if visit.Status().IsCancelled() {
		return nil, errs.NewValueIsInvalidErrorWithCause("appointment", ErrAppointmentIsCancelled)
	}

	repo := uow.PrescriptionRepository()
	_, exists, err := ports.FindPrescriptionByAppointment(ctx, repo, cmd.AppointmentID())
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, errs.NewValueIsInvalidErrorWithCause("appointment", ErrPrescriptionAlreadyExists)
	}

	p, err := prescription.NewPrescription(
		cmd.PrescriptionID(),
		cmd.AppointmentID(),
		cmd.DoctorID(),
		cmd.PatientID(),
		cmd.Notes(),
		cmd.Items(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	if err = repo.Add(ctx, p); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return p, nil
}
