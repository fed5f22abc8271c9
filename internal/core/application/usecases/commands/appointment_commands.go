package commands

import (
	"errors"
	"time"

	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var (
	ErrScheduleAppointmentCommandIsNotConstructed = errors.New(
		"ScheduleAppointmentCommand must be created via NewScheduleAppointmentCommand constructor",
	)
	ErrCompleteAppointmentCommandIsNotConstructed = errors.New(
		"CompleteAppointmentCommand must be created via NewCompleteAppointmentCommand constructor",
	)
	ErrCancelAppointmentCommandIsNotConstructed = errors.New(
		"CancelAppointmentCommand must be created via NewCancelAppointmentCommand constructor",
	)
)

// ScheduleAppointmentCommand books a visit of a patient with a doctor.
type ScheduleAppointmentCommand struct { //nolint:recvcheck //using for validation
	appointmentID kernel.UUID
	doctorID      kernel.UUID
	patientID     kernel.UUID
	startTime     time.Time

	guard guard.ConstructorGuard
}

func NewScheduleAppointmentCommand(
	appointmentID, doctorID, patientID kernel.UUID,
	startTime time.Time,
) (ScheduleAppointmentCommand, error) {
	cmd := ScheduleAppointmentCommand{guard: guard.NewConstructorGuard()}

	var startErr error
	if startTime.IsZero() {
		startErr = errs.NewValueIsRequiredError("start time")
	}

	if err := errors.Join(
		setCommandUUID(&cmd.appointmentID, appointmentID),
		setCommandUUID(&cmd.doctorID, doctorID),
		setCommandUUID(&cmd.patientID, patientID),
		startErr,
	); err != nil {
		return ScheduleAppointmentCommand{}, err
	}

	cmd.startTime = startTime.UTC()
	return cmd, nil
}

func (c ScheduleAppointmentCommand) Validate() error {
	return c.guard.Validate(ErrScheduleAppointmentCommandIsNotConstructed)
}

func (c ScheduleAppointmentCommand) AppointmentID() kernel.UUID { return c.appointmentID }
func (c ScheduleAppointmentCommand) DoctorID() kernel.UUID      { return c.doctorID }
func (c ScheduleAppointmentCommand) PatientID() kernel.UUID     { return c.patientID }
func (c ScheduleAppointmentCommand) StartTime() time.Time       { return c.startTime }

// CompleteAppointmentCommand marks a scheduled visit as held.
type CompleteAppointmentCommand struct { //nolint:recvcheck //using for validation
	appointmentID kernel.UUID

	guard guard.ConstructorGuard
}

func NewCompleteAppointmentCommand(appointmentID kernel.UUID) (CompleteAppointmentCommand, error) {
	cmd := CompleteAppointmentCommand{guard: guard.NewConstructorGuard()}

	if err := setCommandUUID(&cmd.appointmentID, appointmentID); err != nil {
		return CompleteAppointmentCommand{}, err
	}

	return cmd, nil
}

func (c CompleteAppointmentCommand) Validate() error {
	return c.guard.Validate(ErrCompleteAppointmentCommandIsNotConstructed)
}

func (c CompleteAppointmentCommand) AppointmentID() kernel.UUID {
	return c.appointmentID
}

// CancelAppointmentCommand cancels a scheduled visit on behalf of one of its parties.
type CancelAppointmentCommand struct { //nolint:recvcheck //using for validation
	appointmentID kernel.UUID
	actor         appointment.Actor

	guard guard.ConstructorGuard
}

func NewCancelAppointmentCommand(appointmentID kernel.UUID, actor appointment.Actor) (CancelAppointmentCommand, error) {
	cmd := CancelAppointmentCommand{guard: guard.NewConstructorGuard()}

	var actorErr error
	if actor != appointment.Patient && actor != appointment.Doctor {
		actorErr = errs.NewValueIsInvalidError("cancelling actor")
	}

	if err := errors.Join(
		setCommandUUID(&cmd.appointmentID, appointmentID),
		actorErr,
	); err != nil {
		return CancelAppointmentCommand{}, err
	}

	cmd.actor = actor
	return cmd, nil
}

func (c CancelAppointmentCommand) Validate() error {
	return c.guard.Validate(ErrCancelAppointmentCommandIsNotConstructed)
}

func (c CancelAppointmentCommand) AppointmentID() kernel.UUID {
	return c.appointmentID
}

func (c CancelAppointmentCommand) Actor() appointment.Actor {
	return c.actor
}
