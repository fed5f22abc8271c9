// Package queries holds the read side of the marketplace: role-scoped order lists,
// the doctor's patient roster and review lookups.
//
// List views run SQL directly against the tables owned by the postgres adapter and
// return flat response structs instead of aggregates. Every list applies the same
// predicate to its page and to its total count.
package queries

import (
	"database/sql"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"

	"github.com/google/uuid"
)

// OrderKind tells lab orders and pharmacy orders apart in mixed listings.
type OrderKind string

const (
	LabOrderKind      OrderKind = "lab"
	PharmacyOrderKind OrderKind = "pharmacy"
)

// OrderSummary is one row of a patient or provider order listing.
//
// Number is empty for lab orders. AmountMinor is the paid amount of a lab order or
// the delivery fee of a pharmacy order.
type OrderSummary struct {
	ID             kernel.UUID
	Kind           OrderKind
	Number         string
	PrescriptionID kernel.UUID
	ProviderID     kernel.UUID
	PatientID      kernel.UUID
	Status         string
	StatusText     string
	AmountMinor    int64
	CreatedAt      time.Time
}

// orderSummaryColumns is the select list shared by every order listing. The
// statements built on it must project the same columns in this order.
const orderSummaryColumns = "id, kind, number, prescription_id, provider_id, patient_id, status, amount_minor, created_at"

func scanOrderSummaries(rows *sql.Rows) ([]OrderSummary, error) {
	defer rows.Close()

	items := make([]OrderSummary, 0)
	for rows.Next() {
		var s OrderSummary
		var kind string
		var id, prescriptionID, providerID, patientID uuid.UUID
		if err := rows.Scan(
			&id,
			&kind,
			&s.Number,
			&prescriptionID,
			&providerID,
			&patientID,
			&s.Status,
			&s.AmountMinor,
			&s.CreatedAt,
		); err != nil {
			return nil, err
		}

		var err error
		if s.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return nil, err
		}
		if s.PrescriptionID, err = kernel.UUIDFromBytes(prescriptionID[:]); err != nil {
			return nil, err
		}
		if s.ProviderID, err = kernel.UUIDFromBytes(providerID[:]); err != nil {
			return nil, err
		}
		if s.PatientID, err = kernel.UUIDFromBytes(patientID[:]); err != nil {
			return nil, err
		}
		s.Kind = OrderKind(kind)
		s.CreatedAt = s.CreatedAt.UTC()
		s.StatusText = displayText(s.Kind, s.Status)
		items = append(items, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// displayText falls back to the stored value for statuses this build does not know.
func displayText(kind OrderKind, status string) string {
	switch kind {
	case LabOrderKind:
		if s, err := laborder.ParseStatus(status); err == nil {
			return s.DisplayText()
		}
	case PharmacyOrderKind:
		if s, err := pharmacyorder.ParseStatus(status); err == nil {
			return s.DisplayText()
		}
	}
	return status
}
