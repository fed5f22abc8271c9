package http

import (
	"net/http"

	"medmarket/internal/core/application/usecases/commands"
	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/prescription"

	"github.com/labstack/echo/v4"
)

// CreatePrescription handles POST /api/v1/prescriptions.
func (s *Server) CreatePrescription(c echo.Context) error {
	var req CreatePrescriptionRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	items := make([]commands.PrescriptionItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		kind, err := prescription.ParseItemKind(item.Kind)
		if err != nil {
			return s.fail(c, err)
		}
		items = append(items, commands.PrescriptionItemInput{
			Kind:         kind,
			ReferenceID:  item.ReferenceID,
			Name:         item.Name,
			Instructions: item.Instructions,
		})
	}

	cmd, err := commands.NewCreatePrescriptionCommand(
		kernel.NewUUID(),
		kernelUUID(req.AppointmentID),
		kernelUUID(req.DoctorID),
		kernelUUID(req.PatientID),
		req.Notes,
		items,
	)
	if err != nil {
		return s.fail(c, err)
	}

	p, err := s.h.CreatePrescription.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toPrescriptionResponse(p))
}

// CreateOrders handles POST /api/v1/prescriptions/:id/orders: the patient routes
// prescription items to providers and one order is created per provider.
func (s *Server) CreateOrders(c echo.Context) error {
	prescriptionID, err := pathID(c, "id")
	if err != nil {
		return s.fail(c, err)
	}
	var req CreateOrdersRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	selections, err := toSelections(req.Selections)
	if err != nil {
		return s.fail(c, err)
	}

	cmd, err := commands.NewCreateOrdersFromPrescriptionCommand(prescriptionID, kernelUUID(req.PatientID), selections)
	if err != nil {
		return s.fail(c, err)
	}

	result, err := s.h.CreateOrders.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(http.StatusCreated, toCreateOrdersResponse(result))
}
