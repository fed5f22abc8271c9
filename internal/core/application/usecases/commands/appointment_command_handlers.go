package commands

import (
	"context"
	"time"

	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"
)

// ScheduleAppointmentCommandHandler stores a new appointment in Scheduled status.
type ScheduleAppointmentCommandHandler struct {
	uowFactory AppointmentUoWFactory
}

func NewScheduleAppointmentCommandHandler(uowFactory AppointmentUoWFactory) ScheduleAppointmentCommandHandler {
	return ScheduleAppointmentCommandHandler{uowFactory: uowFactory}
}

func (h ScheduleAppointmentCommandHandler) Handle(
	ctx context.Context,
	cmd ScheduleAppointmentCommand,
) (*appointment.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	visit, err := appointment.NewAppointment(
		cmd.AppointmentID(),
		cmd.DoctorID(),
		cmd.PatientID(),
		cmd.StartTime(),
		time.Now().UTC(),
	)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.AppointmentRepository().Add(ctx, visit); err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return visit, nil
}

type appointmentTransitions struct {
	uowFactory AppointmentUoWFactory
	retrier    ConflictRetrier
}

func (t appointmentTransitions) apply(
	ctx context.Context,
	id kernel.UUID,
	change func(*appointment.Appointment, time.Time) error,
) (*appointment.Appointment, error) {
	return transition(ctx, t.retrier, appointment.AggregateKind, id,
		t.uowFactory.Create,
		func(uow AppointmentUoW) versionedStore[*appointment.Appointment] {
			return uow.AppointmentRepository()
		},
		func(a *appointment.Appointment) error {
			return change(a, time.Now().UTC())
		},
	)
}

// CompleteAppointmentCommandHandler marks a scheduled appointment as held, which
// opens it for a doctor review.
type CompleteAppointmentCommandHandler struct {
	transitions appointmentTransitions
}

func NewCompleteAppointmentCommandHandler(
	uowFactory AppointmentUoWFactory,
	retrier ConflictRetrier,
) CompleteAppointmentCommandHandler {
	return CompleteAppointmentCommandHandler{
		transitions: appointmentTransitions{uowFactory: uowFactory, retrier: retrier},
	}
}

func (h CompleteAppointmentCommandHandler) Handle(
	ctx context.Context,
	cmd CompleteAppointmentCommand,
) (*appointment.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitions.apply(ctx, cmd.AppointmentID(), func(a *appointment.Appointment, now time.Time) error {
		return a.Complete(now)
	})
}

type CancelAppointmentCommandHandler struct {
	transitions appointmentTransitions
}

func NewCancelAppointmentCommandHandler(
	uowFactory AppointmentUoWFactory,
	retrier ConflictRetrier,
) CancelAppointmentCommandHandler {
	return CancelAppointmentCommandHandler{
		transitions: appointmentTransitions{uowFactory: uowFactory, retrier: retrier},
	}
}

func (h CancelAppointmentCommandHandler) Handle(
	ctx context.Context,
	cmd CancelAppointmentCommand,
) (*appointment.Appointment, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return h.transitions.apply(ctx, cmd.AppointmentID(), func(a *appointment.Appointment, now time.Time) error {
		return a.Cancel(cmd.Actor(), now)
	})
}
