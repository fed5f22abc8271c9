package queries

import (
	"errors"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var ErrGetReviewBySourceQueryIsNotConstructed = errors.New(
	"GetReviewBySourceQuery must be created via NewGetReviewBySourceQuery constructor",
)

// GetReviewBySourceQuery looks up the review written for an appointment, lab order or
// pharmacy order. For an appointment this is the doctor review of that visit.
type GetReviewBySourceQuery struct {
	sourceID kernel.UUID
	guard    guard.ConstructorGuard
}

func NewGetReviewBySourceQuery(sourceID kernel.UUID) (GetReviewBySourceQuery, error) {
	if err := sourceID.Validate(); err != nil {
		return GetReviewBySourceQuery{}, errs.NewValueIsInvalidErrorWithCause("sourceID", err)
	}
	return GetReviewBySourceQuery{sourceID: sourceID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetReviewBySourceQuery) SourceID() kernel.UUID {
	return q.sourceID
}

func (q GetReviewBySourceQuery) Validate() error {
	return q.guard.Validate(ErrGetReviewBySourceQueryIsNotConstructed)
}
