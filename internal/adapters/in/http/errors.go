package http

import (
	"errors"
	"net/http"

	"medmarket/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps the workflow error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUnknownTestReference), errors.Is(err, errs.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrDuplicateReview):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err as an ErrorResponse. Internal errors are logged and their text is
// not sent to the client.
func (s *Server) fail(c echo.Context, err error) error {
	code := statusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "Request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"error", err,
		)
		message = "Internal server error"
	}
	return c.JSON(code, ErrorResponse{Code: code, Message: message})
}

func badRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Code: http.StatusBadRequest, Message: message})
}
