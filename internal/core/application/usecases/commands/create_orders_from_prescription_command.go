package commands

import (
	"errors"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/services"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var ErrCreateOrdersFromPrescriptionCommandIsNotConstructed = errors.New(
	"CreateOrdersFromPrescriptionCommand must be created via NewCreateOrdersFromPrescriptionCommand constructor",
)

// CreateOrdersFromPrescriptionCommand is a patient's routing of prescription items
// to laboratories and pharmacies.
//
// Example:
//
//	cmd, err := NewCreateOrdersFromPrescriptionCommand(prescriptionID, patientID, []services.Selection{
//	    {ProviderKind: services.PharmacyProvider, ProviderID: pharmacyID, ItemIDs: []kernel.UUID{a, b}},
//	    {ProviderKind: services.LaboratoryProvider, ProviderID: labID, ItemIDs: []kernel.UUID{c}},
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := handler.Handle(ctx, cmd)
//	// result.PharmacyOrders has one order, result.LabOrders has one order
type CreateOrdersFromPrescriptionCommand struct { //nolint:recvcheck //using for validation
	prescriptionID kernel.UUID
	patientID      kernel.UUID
	selections     []services.Selection

	guard guard.ConstructorGuard
}

func NewCreateOrdersFromPrescriptionCommand(
	prescriptionID, patientID kernel.UUID,
	selections []services.Selection,
) (CreateOrdersFromPrescriptionCommand, error) {
	cmd := CreateOrdersFromPrescriptionCommand{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		setCommandUUID(&cmd.prescriptionID, prescriptionID),
		setCommandUUID(&cmd.patientID, patientID),
		cmd.setSelections(selections),
	); err != nil {
		return CreateOrdersFromPrescriptionCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrdersFromPrescriptionCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrdersFromPrescriptionCommandIsNotConstructed)
}

func (c CreateOrdersFromPrescriptionCommand) PrescriptionID() kernel.UUID {
	return c.prescriptionID
}

// PatientID is the patient confirming the selection; it must own the prescription.
func (c CreateOrdersFromPrescriptionCommand) PatientID() kernel.UUID {
	return c.patientID
}

func (c CreateOrdersFromPrescriptionCommand) Selections() []services.Selection {
	out := make([]services.Selection, len(c.selections))
	for i, s := range c.selections {
		s.ItemIDs = append([]kernel.UUID(nil), s.ItemIDs...)
		out[i] = s
	}
	return out
}

func (c *CreateOrdersFromPrescriptionCommand) setSelections(selections []services.Selection) error {
	if len(selections) == 0 {
		return errs.NewValueIsRequiredError("selections")
	}

	c.selections = make([]services.Selection, len(selections))
	for i, s := range selections {
		s.ItemIDs = append([]kernel.UUID(nil), s.ItemIDs...)
		c.selections[i] = s
	}
	return nil
}
