package queries

import (
	"errors"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
	"medmarket/internal/pkg/paging"
)

var ErrGetDoctorPatientsQueryIsNotConstructed = errors.New(
	"GetDoctorPatientsQuery must be created via NewGetDoctorPatientsQuery constructor",
)

// GetDoctorPatientsQuery builds a doctor's patient roster: every patient with at least
// one completed appointment with the doctor.
type GetDoctorPatientsQuery struct {
	doctorID kernel.UUID
	page     paging.Page

	guard guard.ConstructorGuard
}

func NewGetDoctorPatientsQuery(doctorID kernel.UUID, page paging.Page) (GetDoctorPatientsQuery, error) {
	if err := doctorID.Validate(); err != nil {
		return GetDoctorPatientsQuery{}, errs.NewValueIsInvalidErrorWithCause("doctorID", err)
	}
	if page.IsZero() {
		return GetDoctorPatientsQuery{}, errs.NewValueIsRequiredError("page")
	}
	return GetDoctorPatientsQuery{
		doctorID: doctorID,
		page:     page,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetDoctorPatientsQuery) DoctorID() kernel.UUID {
	return q.doctorID
}

func (q GetDoctorPatientsQuery) Page() paging.Page {
	return q.page
}

func (q GetDoctorPatientsQuery) Validate() error {
	return q.guard.Validate(ErrGetDoctorPatientsQueryIsNotConstructed)
}

// DoctorPatient is one roster entry.
type DoctorPatient struct {
	PatientID kernel.UUID
	// LastVisitAt is the start time of the patient's most recent completed appointment.
	LastVisitAt     time.Time
	CompletedVisits int64
}
