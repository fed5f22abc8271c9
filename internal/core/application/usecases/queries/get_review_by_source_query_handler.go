package queries

import (
	"context"

	"medmarket/internal/core/domain/model/review"
	"medmarket/internal/core/ports"
)

type GetReviewBySourceQueryHandler struct {
	reviews ports.Querier[*review.Review, ports.ReviewFilter]
}

func NewGetReviewBySourceQueryHandler(
	reviews ports.Querier[*review.Review, ports.ReviewFilter],
) GetReviewBySourceQueryHandler {
	return GetReviewBySourceQueryHandler{reviews: reviews}
}

// Handle returns the single review of the source, or nil when none was written.
func (h GetReviewBySourceQueryHandler) Handle(ctx context.Context, query GetReviewBySourceQuery) (*review.Review, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	r, found, err := ports.FindReviewBySource(ctx, h.reviews, query.SourceID())
	if err != nil || !found {
		return nil, err
	}
	return r, nil
}
