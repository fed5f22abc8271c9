package appointment_test

import (
	"testing"
	"time"

	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	start = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	now   = time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC)
)

func newAppointment(t *testing.T) *appointment.Appointment {
	t.Helper()
	a, err := appointment.NewAppointment(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), start, now)
	require.NoError(t, err)
	return a
}

func TestNewAppointment(t *testing.T) {
	a := newAppointment(t)

	require.NoError(t, a.Validate())
	assert.Equal(t, appointment.Scheduled, a.Status())
	assert.Equal(t, start, a.StartTime())
	assert.True(t, a.IsAttendedBy(a.DoctorID(), a.PatientID()))
	assert.False(t, a.IsAttendedBy(a.PatientID(), a.DoctorID()))
}

func TestNewAppointment_Invalid(t *testing.T) {
	self := kernel.NewUUID()

	_, err := appointment.NewAppointment(kernel.NewUUID(), self, self, start, now)
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = appointment.NewAppointment(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), time.Time{}, now)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = appointment.NewAppointment(kernel.UUID{}, kernel.NewUUID(), kernel.NewUUID(), start, now)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestAppointment_Complete(t *testing.T) {
	a := newAppointment(t)

	require.NoError(t, a.Complete(start.Add(30*time.Minute)))
	assert.Equal(t, appointment.Completed, a.Status())
	assert.NotNil(t, a.CompletedAt())
	require.Len(t, a.PullEvents(), 1)

	require.ErrorIs(t, a.Complete(start), errs.ErrInvalidTransition)
	require.ErrorIs(t, a.Cancel(appointment.Patient, start), errs.ErrInvalidTransition)
}

func TestAppointment_Cancel(t *testing.T) {
	tests := []struct {
		by   appointment.Actor
		want appointment.Status
	}{
		{appointment.Patient, appointment.CancelledByPatient},
		{appointment.Doctor, appointment.CancelledByDoctor},
	}

	for _, tt := range tests {
		t.Run(tt.by.String(), func(t *testing.T) {
			a := newAppointment(t)

			require.NoError(t, a.Cancel(tt.by, now))
			assert.Equal(t, tt.want, a.Status())
			assert.True(t, a.Status().IsCancelled())

			require.ErrorIs(t, a.Complete(now), errs.ErrInvalidTransition)
		})
	}
}

func TestAppointment_CancelByUnknownActor(t *testing.T) {
	a := newAppointment(t)

	require.ErrorIs(t, a.Cancel(appointment.UnknownActor, now), errs.ErrValidation)
	assert.Equal(t, appointment.Scheduled, a.Status())
}

func TestParse(t *testing.T) {
	s, err := appointment.ParseStatus("CancelledByDoctor")
	require.NoError(t, err)
	assert.Equal(t, appointment.CancelledByDoctor, s)

	actor, err := appointment.ParseActor("doctor")
	require.NoError(t, err)
	assert.Equal(t, appointment.Doctor, actor)

	_, err = appointment.ParseActor("nurse")
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestRestore(t *testing.T) {
	completedAt := start
	a, err := appointment.Restore(appointment.Snapshot{
		ID:          kernel.NewUUID(),
		DoctorID:    kernel.NewUUID(),
		PatientID:   kernel.NewUUID(),
		StartTime:   start,
		Status:      appointment.Completed,
		CreatedAt:   now,
		CompletedAt: &completedAt,
		Version:     1,
	})

	require.NoError(t, err)
	assert.Equal(t, appointment.Completed, a.Status())
	assert.Equal(t, int64(1), a.Version())
}
