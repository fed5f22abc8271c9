package ports

import (
	"context"

	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/core/domain/model/review"
)

// PrescriptionRepository stores immutable prescriptions.
type PrescriptionRepository interface {
	Adder[*prescription.Prescription]
	Getter[*prescription.Prescription]
	Querier[*prescription.Prescription, PrescriptionFilter]
}

// LabOrderRepository stores lab orders together with their tests and results.
type LabOrderRepository interface {
	Adder[*laborder.LabOrder]
	Updater[*laborder.LabOrder]
	Getter[*laborder.LabOrder]
	Querier[*laborder.LabOrder, LabOrderFilter]
}

// PharmacyOrderRepository stores pharmacy orders together with their items.
// A duplicate order number on Add is reported as a concurrency conflict.
type PharmacyOrderRepository interface {
	Adder[*pharmacyorder.PharmacyOrder]
	Updater[*pharmacyorder.PharmacyOrder]
	Getter[*pharmacyorder.PharmacyOrder]
	Querier[*pharmacyorder.PharmacyOrder, PharmacyOrderFilter]
}

type AppointmentRepository interface {
	Adder[*appointment.Appointment]
	Updater[*appointment.Appointment]
	Getter[*appointment.Appointment]
	Querier[*appointment.Appointment, AppointmentFilter]
}

// ReviewRepository stores immutable reviews. Add reports a second review for the
// same source as errs.DuplicateReviewError.
type ReviewRepository interface {
	Adder[*review.Review]
	Querier[*review.Review, ReviewFilter]

	// Summary computes average rating and count of a subject in one query.
	Summary(ctx context.Context, subject review.Subject) (review.Summary, error)
}
