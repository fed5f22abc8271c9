package ports

import (
	"time"

	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/model/review"
)

// Nil fields of a filter do not constrain the query.

type PrescriptionFilter struct {
	AppointmentID *kernel.UUID
	DoctorID      *kernel.UUID
	PatientID     *kernel.UUID
}

type LabOrderFilter struct {
	PrescriptionID *kernel.UUID
	LaboratoryID   *kernel.UUID
	PatientID      *kernel.UUID
	Status         *laborder.Status
	CreatedBefore  *time.Time
}

type PharmacyOrderFilter struct {
	Number         *pharmacyorder.OrderNumber
	PrescriptionID *kernel.UUID
	PharmacyID     *kernel.UUID
	PatientID      *kernel.UUID
	Status         *pharmacyorder.Status
	CreatedBefore  *time.Time
}

type AppointmentFilter struct {
	DoctorID  *kernel.UUID
	PatientID *kernel.UUID
	Status    *appointment.Status
}

type ReviewFilter struct {
	Subject  *review.Subject
	SourceID *kernel.UUID
}
