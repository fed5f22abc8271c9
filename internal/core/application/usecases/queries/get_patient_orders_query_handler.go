package queries

import (
	"context"

	"medmarket/internal/pkg/paging"

	"gorm.io/gorm"
)

// GetPatientOrdersQueryHandler merges a patient's lab and pharmacy orders into one
// listing ordered by creation time.
type GetPatientOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetPatientOrdersQueryHandler(db *gorm.DB) GetPatientOrdersQueryHandler {
	return GetPatientOrdersQueryHandler{db: db}
}

// Handle returns the requested page and the total number of the patient's orders.
// Soft-deleted orders are neither listed nor counted. Orders created at the same
// instant are ordered by id so that pages never overlap.
func (h GetPatientOrdersQueryHandler) Handle(
	ctx context.Context,
	query GetPatientOrdersQuery,
) (paging.Result[OrderSummary], error) {
	if err := query.Validate(); err != nil {
		return paging.Result[OrderSummary]{}, err
	}

	patientID := query.PatientID().Bytes()
	page := query.Page()

	var total int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM lab_orders WHERE patient_id = ? AND deleted_at IS NULL) +
			(SELECT COUNT(*) FROM pharmacy_orders WHERE patient_id = ? AND deleted_at IS NULL)
	`, patientID, patientID).Row().Scan(&total)
	if err != nil {
		return paging.Result[OrderSummary]{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderSummaryColumns+` FROM (
			SELECT
				id,
				'lab' AS kind,
				'' AS number,
				prescription_id,
				laboratory_id AS provider_id,
				patient_id,
				status,
				amount_minor,
				created_at
			FROM lab_orders
			WHERE patient_id = ? AND deleted_at IS NULL
			UNION ALL
			SELECT
				id,
				'pharmacy' AS kind,
				number,
				prescription_id,
				pharmacy_id AS provider_id,
				patient_id,
				status,
				delivery_fee AS amount_minor,
				created_at
			FROM pharmacy_orders
			WHERE patient_id = ? AND deleted_at IS NULL
		) AS patient_orders
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, patientID, patientID, page.Size(), page.Offset()).Rows()
	if err != nil {
		return paging.Result[OrderSummary]{}, err
	}

	items, err := scanOrderSummaries(rows)
	if err != nil {
		return paging.Result[OrderSummary]{}, err
	}
	return paging.NewResult(items, total, page), nil
}
