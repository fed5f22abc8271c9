package http

import (
	"net/http"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/application/usecases/queries"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/pharmacyorder"

	"github.com/labstack/echo/v4"
)

// GetPharmacyOrderByNumber handles GET /api/v1/pharmacy-orders/by-number/:number.
func (s *Server) GetPharmacyOrderByNumber(c echo.Context) error {
	query, err := queries.NewGetPharmacyOrderByNumberQuery(c.Param("number"))
	if err != nil {
		return s.fail(c, err)
	}
	return s.pharmacyOrderResult(c)(s.h.GetPharmacyOrderByNumber.Handle(c.Request().Context(), query))
}

// ConfirmPharmacyOrder handles POST /api/v1/pharmacy-orders/:id/confirm.
func (s *Server) ConfirmPharmacyOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var req ConfirmPharmacyOrderRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	fee, err := kernel.NewMoney(req.DeliveryFeeMinor)
	if err != nil {
		return s.fail(c, err)
	}
	cmd, err := commands.NewConfirmPharmacyOrderCommand(id, fee)
	if err != nil {
		return s.fail(c, err)
	}

	return s.pharmacyOrderResult(c)(s.h.ConfirmPharmacyOrder.Handle(c.Request().Context(), cmd))
}

// RejectPharmacyOrder handles POST /api/v1/pharmacy-orders/:id/reject.
func (s *Server) RejectPharmacyOrder(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var req RejectRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	cmd, err := commands.NewRejectPharmacyOrderCommand(id, req.Reason)
	if err != nil {
		return s.fail(c, err)
	}

	return s.pharmacyOrderResult(c)(s.h.RejectPharmacyOrder.Handle(c.Request().Context(), cmd))
}

// ChangePharmacyOrderStatus handles
// POST /api/v1/pharmacy-orders/:id/{start-preparing,dispatch,deliver,cancel}.
func (s *Server) ChangePharmacyOrderStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	action, err := commands.ParsePharmacyOrderAction(c.Param("action"))
	if err != nil {
		return c.JSON(http.StatusNotFound, ErrorResponse{Code: http.StatusNotFound, Message: err.Error()})
	}
	cmd, err := commands.NewChangePharmacyOrderStatusCommand(id, action)
	if err != nil {
		return s.fail(c, err)
	}

	return s.pharmacyOrderResult(c)(s.h.ChangePharmacyOrderStatus.Handle(c.Request().Context(), cmd))
}

func (s *Server) pharmacyOrderResult(c echo.Context) func(*pharmacyorder.PharmacyOrder, error) error {
	return func(o *pharmacyorder.PharmacyOrder, err error) error {
		if err != nil {
			return s.fail(c, err)
		}
		return c.JSON(http.StatusOK, toPharmacyOrderResponse(o))
	}
}
