package http

import (
	"net/http"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/application/usecases/queries"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"

	"github.com/labstack/echo/v4"
)

// GetLabOrder handles GET /api/v1/lab-orders/:id.
func (s *Server) GetLabOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	query, err := queries.NewGetLabOrderQuery(id)
	if err != nil {
		return s.fail(c, err)
	}

	o, err := s.h.GetLabOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusOK, toLabOrderResponse(o))
}

// RecordLabPayment handles POST /api/v1/lab-orders/:id/payment.
func (s *Server) RecordLabPayment(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var req RecordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	amount, err := kernel.NewMoney(req.AmountMinor)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewRecordLabPaymentCommand(id, amount)
	if err != nil {
		return s.fail(c, err)
	}

	return s.labOrderResult(c)(s.h.RecordLabPayment.Handle(c.Request().Context(), cmd))
}

// RejectLabOrder handles POST /api/v1/lab-orders/:id/reject.
func (s *Server) RejectLabOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	cmd, err := commands.NewRejectLabOrderCommand(id, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}

	return s.labOrderResult(c)(s.h.RejectLabOrder.Handle(c.Request().Context(), cmd))
}

// SubmitLabResults handles POST /api/v1/lab-orders/:id/results.
func (s *Server) SubmitLabResults(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var req SubmitResultsRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	cmd, err := commands.NewSubmitLabResultsCommand(id, toResultInputs(req.Results))
	if err != nil {
		return s.fail(c, err)
	}

	return s.labOrderResult(c)(s.h.SubmitLabResults.Handle(c.Request().Context(), cmd))
}

// ChangeLabOrderStatus handles POST /api/v1/lab-orders/:id/{confirm,collect-samples,complete,cancel}.
func (s *Server) ChangeLabOrderStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	action, err := commands.ParseLabOrderAction(c.Param("action"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Code: http.StatusNotFound, Message: err.Error()})
	}
	cmd, err := commands.NewChangeLabOrderStatusCommand(id, action)
	if err != nil {
		return s.fail(c, err)
	}

	return s.labOrderResult(c)(s.h.ChangeLabOrderStatus.Handle(c.Request().Context(), cmd))
}

func (s *Server) labOrderResult(c echo.Context) func(*laborder.LabOrder, error) error {
	return func(o *laborder.LabOrder, err error) error {
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, toLabOrderResponse(o))
	}
}
