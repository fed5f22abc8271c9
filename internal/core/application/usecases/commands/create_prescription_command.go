package commands

import (
	"errors"
	"strings"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/pkg/errs"
	"medmarket/internal/pkg/guard"
)

var ErrCreatePrescriptionCommandIsNotConstructed = errors.New(
	"CreatePrescriptionCommand must be created via NewCreatePrescriptionCommand constructor",
)

// PrescriptionItemInput describes one test or medication a doctor prescribes.
type PrescriptionItemInput struct {
	Kind         prescription.ItemKind
	ReferenceID  string
	Name         string
	Instructions string
}

// CreatePrescriptionCommand represents a doctor issuing a prescription for an appointment.
type CreatePrescriptionCommand struct { //nolint:recvcheck //using for validation
	prescriptionID kernel.UUID
	appointmentID  kernel.UUID
	doctorID       kernel.UUID
	patientID      kernel.UUID
	notes          string
	items          []prescription.Item

	guard guard.ConstructorGuard
}

// NewCreatePrescriptionCommand validates the items eagerly and assigns them ids, so
// the handler works with domain items only.
func NewCreatePrescriptionCommand(
	prescriptionID, appointmentID, doctorID, patientID kernel.UUID,
	notes string,
	items []PrescriptionItemInput,
) (CreatePrescriptionCommand, error) {
	cmd := CreatePrescriptionCommand{
		notes: strings.TrimSpace(notes),
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		setCommandUUID(&cmd.prescriptionID, prescriptionID),
		setCommandUUID(&cmd.appointmentID, appointmentID),
		setCommandUUID(&cmd.doctorID, doctorID),
		setCommandUUID(&cmd.patientID, patientID),
		cmd.setItems(items),
	); err != nil {
		return CreatePrescriptionCommand{}, err
	}

	return cmd, nil
}

func (c CreatePrescriptionCommand) Validate() error {
	return c.guard.Validate(ErrCreatePrescriptionCommandIsNotConstructed)
}

func (c CreatePrescriptionCommand) PrescriptionID() kernel.UUID {
	return c.prescriptionID
}

func (c CreatePrescriptionCommand) AppointmentID() kernel.UUID {
	return c.appointmentID
}

func (c CreatePrescriptionCommand) DoctorID() kernel.UUID {
	return c.doctorID
}

func (c CreatePrescriptionCommand) PatientID() kernel.UUID {
	return c.patientID
}

func (c CreatePrescriptionCommand) Notes() string {
	return c.notes
}

func (c CreatePrescriptionCommand) Items() []prescription.Item {
	return append([]prescription.Item(nil), c.items...)
}

func (c *CreatePrescriptionCommand) setItems(inputs []PrescriptionItemInput) error {
	if len(inputs) == 0 {
		return errs.NewValueIsRequiredError("prescription items")
	}

	items := make([]prescription.Item, 0, len(inputs))
	for _, in := range inputs {
		item, err := prescription.NewItem(kernel.NewUUID(), in.Kind, in.ReferenceID, in.Name, in.Instructions)
		if err != nil {
			return err
		}
		items = append(items, item)
	}

	c.items = items
	return nil
}
