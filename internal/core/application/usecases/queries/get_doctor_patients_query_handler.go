package queries

import (
	"context"

	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/paging"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetDoctorPatientsQueryHandler ranks a doctor's patients by their latest completed
// visit. The ranking key is computed per patient before the page is cut, so a patient
// seen once last week ranks above one seen ten times last year.
type GetDoctorPatientsQueryHandler struct {
	db *gorm.DB
}

func NewGetDoctorPatientsQueryHandler(db *gorm.DB) GetDoctorPatientsQueryHandler {
	return GetDoctorPatientsQueryHandler{db: db}
}

func (h GetDoctorPatientsQueryHandler) Handle(
	ctx context.Context,
	query GetDoctorPatientsQuery,
) (paging.Result[DoctorPatient], error) {
	if err := query.Validate(); err != nil {
		return paging.Result[DoctorPatient]{}, err
	}

	doctorID := query.DoctorID().Bytes()
	completed := appointment.Completed.String()
	page := query.Page()

	var total int64
	err := h.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT patient_id)
		FROM appointments
		WHERE doctor_id = ? AND status = ? AND deleted_at IS NULL
	`, doctorID, completed).Row().Scan(&total)
	if err != nil {
		return paging.Result[DoctorPatient]{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			patient_id,
			MAX(start_time) AS last_visit_at,
			COUNT(*) AS completed_visits
		FROM appointments
		WHERE doctor_id = ? AND status = ? AND deleted_at IS NULL
		GROUP BY patient_id
		ORDER BY last_visit_at DESC, patient_id
		LIMIT ? OFFSET ?
	`, doctorID, completed, page.Size(), page.Offset()).Rows()
	if err != nil {
		return paging.Result[DoctorPatient]{}, err
	}
	defer rows.Close()

	patients := make([]DoctorPatient, 0)
	for rows.Next() {
		var p DoctorPatient
		var id uuid.UUID
		if err := rows.Scan(&id, &p.LastVisitAt, &p.CompletedVisits); err != nil {
			return paging.Result[DoctorPatient]{}, err
		}
		if p.PatientID, err = kernel.UUIDFromBytes(id[:]); err != nil {
			return paging.Result[DoctorPatient]{}, err
		}
		p.LastVisitAt = p.LastVisitAt.UTC()
		patients = append(patients, p)
	}
	if err := rows.Err(); err != nil {
		return paging.Result[DoctorPatient]{}, err
	}

	return paging.NewResult(patients, total, page), nil
}
