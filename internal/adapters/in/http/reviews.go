package http

import (
	"net/http"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/application/usecases/queries"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/review"

	"github.com/labstack/echo/v4"
)

// CreateReview handles POST /api/v1/reviews. The reviewed doctor, laboratory or
// pharmacy is derived from the source appointment or order.
func (s *Server) CreateReview(c echo.Context) error {
	var req CreateReviewRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	kind, err := review.ParseSubjectKind(req.SubjectKind)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewCreateReviewCommand(
		kernel.NewUUID(), kind, kernelUUID(req.SourceID), kernelUUID(req.PatientID), req.Scores, req.Comment,
	)
	if err != nil {
		return s.fail(c, err)
	}

	r, err := s.h.CreateReview.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toReviewResponse(r))
}

// GetReview handles GET .../:id/review for appointments, lab orders and pharmacy
// orders. It answers 404 while no review has been written.
func (s *Server) GetReview(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetReviewBySourceQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	r, err := s.h.GetReviewBySource.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	if r == nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Code: http.StatusNotFound, Message: "no review for " + id.String()})
	}
	return c.JSON(http.StatusOK, toReviewResponse(r))
}

func (s *Server) ratingSummary(kind review.SubjectKind) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := pathID(c, "id")
		if err != nil {
			return s.fail(c, err)
		}
		subject, err := review.NewSubject(kind, id)
		if err != nil {
			return s.fail(c, err)
		}
		query, err := queries.NewGetRatingSummaryQuery(subject)
		if err != nil {
			return s.fail(c, err)
		}

		summary, err := s.h.GetRatingSummary.Handle(c.Request().Context(), query)
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, RatingSummaryResponse{Average: summary.Average, Count: summary.Count})
	}
}
