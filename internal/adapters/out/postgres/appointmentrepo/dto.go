// Package appointmentrepo persists appointments with GORM.
package appointmentrepo

import (
	"time"

	"medmarket/internal/adapters/out/postgres/pgutil"
	"medmarket/internal/core/domain/model/appointment"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	DoctorID    uuid.UUID `gorm:"type:uuid;index:idx_appointments_doctor_status"`
	PatientID   uuid.UUID `gorm:"type:uuid;index"`
	Status      string    `gorm:"size:40;index:idx_appointments_doctor_status"`
	StartTime   time.Time
	CreatedAt   time.Time `gorm:"index"`
	CompletedAt *time.Time
	CancelledAt *time.Time
	Version     int64          `gorm:"not null;default:0"`
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

func (AppointmentDTO) TableName() string {
	return "appointments"
}

func fromDomain(a *appointment.Appointment) AppointmentDTO {
	return AppointmentDTO{
		ID:          a.ID().Bytes(),
		DoctorID:    a.DoctorID().Bytes(),
		PatientID:   a.PatientID().Bytes(),
		Status:      a.Status().String(),
		StartTime:   a.StartTime(),
		CreatedAt:   a.CreatedAt(),
		CompletedAt: a.CompletedAt(),
		CancelledAt: a.CancelledAt(),
		Version:     a.Version(),
	}
}

func toDomain(dto AppointmentDTO) (*appointment.Appointment, error) {
	id, err := pgutil.ToUUID(dto.ID)
	if err != nil {
		return nil, err
	}
	doctorID, err := pgutil.ToUUID(dto.DoctorID)
	if err != nil {
		return nil, err
	}
	patientID, err := pgutil.ToUUID(dto.PatientID)
	if err != nil {
		return nil, err
	}
	status, err := appointment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return appointment.Restore(appointment.Snapshot{
		ID:          id,
		DoctorID:    doctorID,
		PatientID:   patientID,
		StartTime:   dto.StartTime,
		Status:      status,
		CreatedAt:   dto.CreatedAt,
		CompletedAt: dto.CompletedAt,
		CancelledAt: dto.CancelledAt,
		Version:     dto.Version,
	})
}
