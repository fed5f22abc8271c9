package pharmacyorder

import (
	"strings"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

// Item is one medication from the prescription routed to the pharmacy.
type Item struct {
	prescriptionItemID kernel.UUID
	medicationID       string
	name               string
	instructions       string
}

func NewItem(prescriptionItemID kernel.UUID, medicationID, name, instructions string) (Item, error) {
	if err := prescriptionItemID.Validate(); err != nil {
		return Item{}, err
	}
	medicationID = strings.TrimSpace(medicationID)
	if medicationID == "" {
		return Item{}, errs.NewValueIsRequiredError("medication id")
	}
	return Item{
		prescriptionItemID: prescriptionItemID,
		medicationID:       medicationID,
		name:               strings.TrimSpace(name),
		instructions:       strings.TrimSpace(instructions),
	}, nil
}

func (i Item) PrescriptionItemID() kernel.UUID { return i.prescriptionItemID }
func (i Item) MedicationID() string            { return i.medicationID }
func (i Item) Name() string                    { return i.name }
func (i Item) Instructions() string            { return i.instructions }
