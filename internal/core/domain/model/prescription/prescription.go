package prescription

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

// ErrPrescriptionIsNotConstructed is returned by Validate for zero-value prescriptions.
var ErrPrescriptionIsNotConstructed = errors.New("Prescription must be created via NewPrescription constructor")

// Prescription is issued by a doctor for one appointment.
//
// Invariants:
//   - doctor, patient and appointment identifiers are valid
//   - at least one item, item identifiers are unique
//   - immutable after construction
type Prescription struct {
	id            kernel.UUID
	appointmentID kernel.UUID
	doctorID      kernel.UUID
	patientID     kernel.UUID
	notes         string
	items         []Item
	createdAt     time.Time

	isConstructed bool
}

// NewPrescription validates and builds a prescription. RestorePrescription shares the
// same rules, since a stored prescription can never be in a state a new one could not.
func NewPrescription(
	id, appointmentID, doctorID, patientID kernel.UUID,
	notes string,
	items []Item,
	createdAt time.Time,
) (*Prescription, error) {
	p := &Prescription{
		notes:         strings.TrimSpace(notes),
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		setUUID(&p.id, id),
		setUUID(&p.appointmentID, appointmentID),
		setUUID(&p.doctorID, doctorID),
		setUUID(&p.patientID, patientID),
		p.setItems(items),
	); err != nil {
		return nil, err
	}

	return p, nil
}

// RestorePrescription rehydrates a stored prescription.
func RestorePrescription(
	id, appointmentID, doctorID, patientID kernel.UUID,
	notes string,
	items []Item,
	createdAt time.Time,
) (*Prescription, error) {
	return NewPrescription(id, appointmentID, doctorID, patientID, notes, items, createdAt)
}

func (p *Prescription) Validate() error {
	if p == nil || !p.isConstructed {
		return ErrPrescriptionIsNotConstructed
	}
	return nil
}

func (p *Prescription) ID() kernel.UUID {
	return p.id
}

func (p *Prescription) AppointmentID() kernel.UUID {
	return p.appointmentID
}

func (p *Prescription) DoctorID() kernel.UUID {
	return p.doctorID
}

func (p *Prescription) PatientID() kernel.UUID {
	return p.patientID
}

func (p *Prescription) Notes() string {
	return p.notes
}

func (p *Prescription) CreatedAt() time.Time {
	return p.createdAt
}

// Items returns a copy of the prescription items.
func (p *Prescription) Items() []Item {
	items := make([]Item, len(p.items))
	copy(items, p.items)
	return items
}

// Item finds an item by identifier.
func (p *Prescription) Item(id kernel.UUID) (Item, bool) {
	for _, item := range p.items {
		if item.id.IsEqual(id) {
			return item, true
		}
	}
	return Item{}, false
}

func (p *Prescription) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("prescription items")
	}

	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.id.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.id]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"prescription items",
				fmt.Errorf("item %s is listed twice", item.id),
			)
		}
		seen[item.id] = struct{}{}
	}

	p.items = make([]Item, len(items))
	copy(p.items, items)
	return nil
}

func setUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	*dst = id
	return nil
}
