package http

import (
	"net/http"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/domain/model/appointment"
	"medmarket/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// pathID parses a UUID path parameter; a malformed value is a validation error.
func pathID(c echo.Context, name string) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param(name))
}

// ScheduleAppointment handles POST /api/v1/appointments.
func (s *Server) ScheduleAppointment(c echo.Context) error {
	var req ScheduleAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewScheduleAppointmentCommand(
		kernel.NewUUID(), kernelUUID(req.DoctorID), kernelUUID(req.PatientID), req.StartTime,
	)
	if err != nil {
		return s.fail(c, err)
	}

	a, err := s.h.ScheduleAppointment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toAppointmentResponse(a))
}

// CompleteAppointment handles POST /api/v1/appointments/:id/complete.
func (s *Server) CompleteAppointment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewCompleteAppointmentCommand(id)
	if err != nil {
		return s.fail(c, err)
	}

	a, err := s.h.CompleteAppointment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(a))
}

// CancelAppointment handles POST /api/v1/appointments/:id/cancel.
func (s *Server) CancelAppointment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var req CancelAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	actor, err := appointment.ParseActor(req.Actor)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewCancelAppointmentCommand(id, actor)
	if err != nil {
		return s.fail(c, err)
	}

	a, err := s.h.CancelAppointment.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toAppointmentResponse(a))
}
