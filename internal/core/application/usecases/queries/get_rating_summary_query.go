package queries

import (
	"errors"

	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var ErrGetRatingSummaryQueryIsNotConstructed = errors.New(
	"GetRatingSummaryQuery must be created via NewGetRatingSummaryQuery constructor",
)

// GetRatingSummaryQuery asks for the average rating and review count of a doctor,
// laboratory or pharmacy.
type GetRatingSummaryQuery struct {
	subject review.Subject
	guard   guard.ConstructorGuard
}

func NewGetRatingSummaryQuery(subject review.Subject) (GetRatingSummaryQuery, error) {
	if _, err := review.NewSubject(subject.Kind, subject.ID); err != nil {
		return GetRatingSummaryQuery{}, errs.NewValueIsInvalidErrorWithCause("subject", err)
	}
	return GetRatingSummaryQuery{subject: subject, guard: guard.NewConstructorGuard()}, nil
}

func (q GetRatingSummaryQuery) Subject() review.Subject {
	return q.subject
}

func (q GetRatingSummaryQuery) Validate() error {
	return q.guard.Validate(ErrGetRatingSummaryQueryIsNotConstructed)
}
