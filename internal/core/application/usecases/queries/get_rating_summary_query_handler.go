package queries

import (
	"context"

	"medmarket/internal/core/domain/model/review"
)

// RatingSummarizer aggregates the stored ratings of one subject.
type RatingSummarizer interface {
	Summary(ctx context.Context, subject review.Subject) (review.Summary, error)
}

// GetRatingSummaryQueryHandler returns a zero average, not an error, for a subject
// nobody has reviewed yet.
type GetRatingSummaryQueryHandler struct {
	reviews RatingSummarizer
}

func NewGetRatingSummaryQueryHandler(reviews RatingSummarizer) GetRatingSummaryQueryHandler {
	return GetRatingSummaryQueryHandler{reviews: reviews}
}

func (h GetRatingSummaryQueryHandler) Handle(ctx context.Context, query GetRatingSummaryQuery) (review.Summary, error) {
	if err := query.Validate(); err != nil {
		return review.Summary{}, err
	}
	return h.reviews.Summary(ctx, query.Subject())
}
