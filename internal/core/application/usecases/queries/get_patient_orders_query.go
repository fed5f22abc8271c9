package queries

import (
	"errors"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
	"medmarket/internal/pkg/paging"
)

var ErrGetPatientOrdersQueryIsNotConstructed = errors.New(
	"GetPatientOrdersQuery must be created via NewGetPatientOrdersQuery constructor",
)

// GetPatientOrdersQuery lists every lab and pharmacy order of one patient, newest
// first, across all providers.
//
// Example:
//
//	page, _ := limits.NewPage(2, 10)
//	query, err := NewGetPatientOrdersQuery(patientID, page)
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, query)
type GetPatientOrdersQuery struct {
	patientID kernel.UUID
	page      paging.Page

	guard guard.ConstructorGuard
}

func NewGetPatientOrdersQuery(patientID kernel.UUID, page paging.Page) (GetPatientOrdersQuery, error) {
	if err := patientID.Validate(); err != nil {
		return GetPatientOrdersQuery{}, errs.NewValueIsInvalidErrorWithCause("patientID", err)
	}
	if page.IsZero() {
		return GetPatientOrdersQuery{}, errs.NewValueIsRequiredError("page")
	}
	return GetPatientOrdersQuery{
		patientID: patientID,
		page:      page,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (q GetPatientOrdersQuery) PatientID() kernel.UUID {
	return q.patientID
}

func (q GetPatientOrdersQuery) Page() paging.Page {
	return q.page
}

func (q GetPatientOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetPatientOrdersQueryIsNotConstructed)
}
