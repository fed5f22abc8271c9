package appointment

import (
	"errors"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

// AggregateKind labels appointment events and errors.
const AggregateKind = "appointment"

var ErrAppointmentIsNotConstructed = errors.New("Appointment must be created via NewAppointment constructor")

// Appointment is a visit between one doctor and one patient.
type Appointment struct {
	id          kernel.UUID
	doctorID    kernel.UUID
	patientID   kernel.UUID
	startTime   time.Time
	status      Status
	createdAt   time.Time
	completedAt *time.Time
	cancelledAt *time.Time
	version     int64

	kernel.EventRecorder
	isConstructed bool
}

func NewAppointment(id, doctorID, patientID kernel.UUID, startTime, createdAt time.Time) (*Appointment, error) {
	a := &Appointment{
		status:        Scheduled,
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	var startErr error
	if startTime.IsZero() {
		startErr = errs.NewValueIsRequiredError("start time")
	}
	a.startTime = startTime.UTC()

	if err := errors.Join(
		setUUID(&a.id, id),
		setUUID(&a.doctorID, doctorID),
		setUUID(&a.patientID, patientID),
		startErr,
	); err != nil {
		return nil, err
	}
	if a.doctorID.IsEqual(a.patientID) {
		return nil, errs.NewValueIsInvalidError("a doctor cannot book an appointment with themselves")
	}
	return a, nil
}

// Snapshot is the full persisted state of an appointment.
type Snapshot struct {
	ID          kernel.UUID
	DoctorID    kernel.UUID
	PatientID   kernel.UUID
	StartTime   time.Time
	Status      Status
	CreatedAt   time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time
	Version     int64
}

func Restore(s Snapshot) (*Appointment, error) {
	a, err := NewAppointment(s.ID, s.DoctorID, s.PatientID, s.StartTime, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	a.status = s.Status
	a.completedAt = s.CompletedAt
	a.cancelledAt = s.CancelledAt
	a.version = s.Version
	return a, nil
}

func (a *Appointment) Validate() error {
	if a == nil || !a.isConstructed {
		return ErrAppointmentIsNotConstructed
	}
	return nil
}

// Complete marks the visit as held.
func (a *Appointment) Complete(now time.Time) error {
	if a.status != Scheduled {
		return errs.NewInvalidTransitionError(AggregateKind, "complete", a.status.String())
	}
	t := now.UTC()
	a.completedAt = &t
	a.moveTo(Completed, now)
	return nil
}

// Cancel cancels a scheduled visit on behalf of the patient or the doctor.
func (a *Appointment) Cancel(by Actor, now time.Time) error {
	var next Status
	switch by {
	case Patient:
		next = CancelledByPatient
	case Doctor:
		next = CancelledByDoctor
	default:
		return errs.NewValueIsInvalidError("cancelling actor")
	}
	if a.status != Scheduled {
		return errs.NewInvalidTransitionError(AggregateKind, "cancel", a.status.String())
	}
	t := now.UTC()
	a.cancelledAt = &t
	a.moveTo(next, now)
	return nil
}

// IsAttendedBy reports whether the doctor and patient are the parties of this appointment.
func (a *Appointment) IsAttendedBy(doctorID, patientID kernel.UUID) bool {
	return a.doctorID.IsEqual(doctorID) && a.patientID.IsEqual(patientID)
}

func (a *Appointment) IncrementVersion() {
	a.version++
}

func (a *Appointment) ID() kernel.UUID {
	return a.id
}

func (a *Appointment) DoctorID() kernel.UUID {
	return a.doctorID
}

func (a *Appointment) PatientID() kernel.UUID {
	return a.patientID
}

func (a *Appointment) StartTime() time.Time {
	return a.startTime
}

func (a *Appointment) Status() Status {
	return a.status
}

func (a *Appointment) CreatedAt() time.Time {
	return a.createdAt
}

func (a *Appointment) CompletedAt() *time.Time {
	return a.completedAt
}

func (a *Appointment) CancelledAt() *time.Time {
	return a.cancelledAt
}

func (a *Appointment) Version() int64 {
	return a.version
}

func (a *Appointment) moveTo(next Status, now time.Time) {
	a.Record(kernel.StatusChanged{
		AggregateID:   a.id,
		AggregateKind: AggregateKind,
		From:          a.status.String(),
		To:            next.String(),
		OccurredAt:    now.UTC(),
	})
	a.status = next
}

func setUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	*dst = id
	return nil
}
