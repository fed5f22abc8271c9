package ports

import (
	"context"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/paging"
)

var firstOnly, _ = paging.NewPage(1, 1)

// FindPharmacyOrderByNumber is an exact-match lookup; soft-deleted orders are not found.
func FindPharmacyOrderByNumber(
	ctx context.Context,
	q Querier[*pharmacyorder.PharmacyOrder, PharmacyOrderFilter],
	number pharmacyorder.OrderNumber,
) (*pharmacyorder.PharmacyOrder, error) {
	if err := number.Validate(); err != nil {
		return nil, err
	}
	orders, _, err := q.Query(ctx, PharmacyOrderFilter{Number: &number}, firstOnly)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, errs.NewObjectNotFoundError("order number", number.String())
	}
	return orders[0], nil
}

// FindPrescriptionByAppointment returns the prescription issued for an appointment, if any.
func FindPrescriptionByAppointment(
	ctx context.Context,
	q Querier[*prescription.Prescription, PrescriptionFilter],
	appointmentID kernel.UUID,
) (*prescription.Prescription, bool, error) {
	found, _, err := q.Query(ctx, PrescriptionFilter{AppointmentID: &appointmentID}, firstOnly)
	if err != nil || len(found) == 0 {
		return nil, false, err
	}
	return found[0], true, nil
}

// FindReviewBySource returns the review written for an appointment or order, if any.
func FindReviewBySource(
	ctx context.Context,
	q Querier[*review.Review, ReviewFilter],
	sourceID kernel.UUID,
) (*review.Review, bool, error) {
	found, _, err := q.Query(ctx, ReviewFilter{SourceID: &sourceID}, firstOnly)
	if err != nil || len(found) == 0 {
		return nil, false, err
	}
	return found[0], true, nil
}

// FindAbandonedLabOrders pages through orders still waiting for payment that were
// created before cutoff.
func FindAbandonedLabOrders(
	ctx context.Context,
	q Querier[*laborder.LabOrder, LabOrderFilter],
	cutoff time.Time,
	page paging.Page,
) ([]*laborder.LabOrder, int64, error) {
	status := laborder.PendingPayment
	return q.Query(ctx, LabOrderFilter{Status: &status, CreatedBefore: &cutoff}, page)
}

// FindAbandonedPharmacyOrders pages through placed orders nobody confirmed before cutoff.
func FindAbandonedPharmacyOrders(
	ctx context.Context,
	q Querier[*pharmacyorder.PharmacyOrder, PharmacyOrderFilter],
	cutoff time.Time,
	page paging.Page,
) ([]*pharmacyorder.PharmacyOrder, int64, error) {
	status := pharmacyorder.Placed
	return q.Query(ctx, PharmacyOrderFilter{Status: &status, CreatedBefore: &cutoff}, page)
}
