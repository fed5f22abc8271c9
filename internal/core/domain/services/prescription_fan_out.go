package services

import (
	"errors"
	"fmt"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/core/domain/model/laborder"
	"medmarket/internal/core/domain/model/pharmacyorder"
	"medmarket/internal/core/domain/model/prescription"
	"medmarket/internal/pkg/errs"
)

// ProviderKind tells which kind of provider a selection is routed to.
type ProviderKind int

const (
	UnknownProvider ProviderKind = iota
	LaboratoryProvider
	PharmacyProvider
)

func (k ProviderKind) String() string {
	switch k {
	case LaboratoryProvider:
		return "laboratory"
	case PharmacyProvider:
		return "pharmacy"
	default:
		return "unknown"
	}
}

// ParseProviderKind accepts "laboratory" and "pharmacy".
func ParseProviderKind(s string) (ProviderKind, error) {
	switch s {
	case "laboratory":
		return LaboratoryProvider, nil
	case "pharmacy":
		return PharmacyProvider, nil
	}
	return UnknownProvider, errs.NewValueIsInvalidErrorWithCause("provider kind", fmt.Errorf("%q is not a provider kind", s))
}

func (k ProviderKind) itemKind() prescription.ItemKind {
	switch k {
	case LaboratoryProvider:
		return prescription.LabTest
	case PharmacyProvider:
		return prescription.Medication
	default:
		return prescription.UnknownItemKind
	}
}

// Selection routes a set of prescription items to one provider.
type Selection struct {
	ProviderKind ProviderKind
	ProviderID   kernel.UUID
	ItemIDs      []kernel.UUID
}

// FanOutResult holds the orders created by one fan-out call. Nothing is persisted yet.
type FanOutResult struct {
	LabOrders      []*laborder.LabOrder
	PharmacyOrders []*pharmacyorder.PharmacyOrder
}

// Len returns the number of orders created.
func (r FanOutResult) Len() int {
	return len(r.LabOrders) + len(r.PharmacyOrders)
}

// PrescriptionFanOut is a domain service creating one order per distinct provider
// from a patient's selection of prescription items.
//
// Business rules:
//   - Selections naming the same provider are merged into a single order
//   - Lab tests go to laboratories and medications to pharmacies only
//   - An item may appear once per call; it may appear again in a later call
//   - Every order links to the shared prescription and the prescription's patient
//   - Either every order is built or none is
//
// Example usage:
//
//	fanOut := services.NewPrescriptionFanOut()
//	result, err := fanOut.Plan(p, []services.Selection{
//	    {ProviderKind: services.PharmacyProvider, ProviderID: pharmacyID, ItemIDs: []kernel.UUID{a, b}},
//	    {ProviderKind: services.LaboratoryProvider, ProviderID: labID, ItemIDs: []kernel.UUID{c}},
//	}, time.Now())
//	if err != nil {
//	    return err
//	}
//	// result.PharmacyOrders[0] holds a and b, result.LabOrders[0] holds c
type PrescriptionFanOut struct{}

// NewPrescriptionFanOut creates a new PrescriptionFanOut instance.
func NewPrescriptionFanOut() PrescriptionFanOut {
	return PrescriptionFanOut{}
}

type providerKey struct {
	kind ProviderKind
	id   kernel.UUID
}

// Plan validates the selections against the prescription and builds the orders.
//
// Parameters:
//   - p: the prescription being fulfilled (must be valid)
//   - selections: item routing chosen by the patient, at least one
//   - now: creation time of the new orders
//
// Returns:
//   - FanOutResult: new orders in PendingPayment (lab) or Placed (pharmacy) state,
//     in the order their providers first appear in selections
//   - error: ObjectNotFoundError for an item outside the prescription, a validation
//     error for empty or inconsistent selections
func (f PrescriptionFanOut) Plan(p *prescription.Prescription, selections []Selection, now time.Time) (FanOutResult, error) {
	if err := p.Validate(); err != nil {
		return FanOutResult{}, err
	}
	if len(selections) == 0 {
		return FanOutResult{}, errs.NewValueIsRequiredError("selections")
	}

	grouped, order, err := f.group(p, selections)
	if err != nil {
		return FanOutResult{}, err
	}

	var result FanOutResult
	for _, key := range order {
		items := grouped[key]
		switch key.kind {
		case LaboratoryProvider:
			o, err := f.newLabOrder(p, key.id, items, now)
			if err != nil {
				return FanOutResult{}, err
			}
			result.LabOrders = append(result.LabOrders, o)
		case PharmacyProvider:
			o, err := f.newPharmacyOrder(p, key.id, items, now)
			if err != nil {
				return FanOutResult{}, err
			}
			result.PharmacyOrders = append(result.PharmacyOrders, o)
		}
	}
	return result, nil
}

// group merges selections per provider and checks each item once.
func (f PrescriptionFanOut) group(
	p *prescription.Prescription,
	selections []Selection,
) (map[providerKey][]prescription.Item, []providerKey, error) {
	grouped := make(map[providerKey][]prescription.Item)
	var order []providerKey
	used := make(map[kernel.UUID]struct{})

	for i, s := range selections {
		if s.ProviderKind != LaboratoryProvider && s.ProviderKind != PharmacyProvider {
			return nil, nil, errs.NewValueIsInvalidErrorWithCause(
				"selection", fmt.Errorf("selection %d has no provider kind", i))
		}
		if err := s.ProviderID.Validate(); err != nil {
			return nil, nil, errors.Join(errs.NewValueIsInvalidError(fmt.Sprintf("selection %d provider", i)), err)
		}
		if len(s.ItemIDs) == 0 {
			return nil, nil, errs.NewValueIsRequiredError(fmt.Sprintf("selection %d items", i))
		}

		key := providerKey{kind: s.ProviderKind, id: s.ProviderID}
		for _, itemID := range s.ItemIDs {
			item, ok := p.Item(itemID)
			if !ok {
				return nil, nil, errs.NewObjectNotFoundError("prescription item", itemID)
			}
			if item.Kind() != s.ProviderKind.itemKind() {
				return nil, nil, errs.NewValueIsInvalidErrorWithCause("selection", fmt.Errorf(
					"%s item %s cannot be sent to a %s", item.Kind(), itemID, s.ProviderKind))
			}
			if _, dup := used[itemID]; dup {
				return nil, nil, errs.NewValueIsInvalidErrorWithCause("selection", fmt.Errorf(
					"item %s is selected more than once", itemID))
			}
			used[itemID] = struct{}{}

			if _, seen := grouped[key]; !seen {
				order = append(order, key)
			}
			grouped[key] = append(grouped[key], item)
		}
	}
	return grouped, order, nil
}

func (f PrescriptionFanOut) newLabOrder(
	p *prescription.Prescription,
	laboratoryID kernel.UUID,
	items []prescription.Item,
	now time.Time,
) (*laborder.LabOrder, error) {
	tests := make([]laborder.Test, 0, len(items))
	for _, item := range items {
		t, err := laborder.NewTest(item.ID(), item.ReferenceID(), item.Name())
		if err != nil {
			return nil, err
		}
		tests = append(tests, t)
	}
	return laborder.NewLabOrder(kernel.NewUUID(), p.ID(), laboratoryID, p.PatientID(), tests, now)
}

func (f PrescriptionFanOut) newPharmacyOrder(
	p *prescription.Prescription,
	pharmacyID kernel.UUID,
	items []prescription.Item,
	now time.Time,
) (*pharmacyorder.PharmacyOrder, error) {
	orderItems := make([]pharmacyorder.Item, 0, len(items))
	for _, item := range items {
		i, err := pharmacyorder.NewItem(item.ID(), item.ReferenceID(), item.Name(), item.Instructions())
		if err != nil {
			return nil, err
		}
		orderItems = append(orderItems, i)
	}
	return pharmacyorder.NewPharmacyOrder(kernel.NewUUID(), p.ID(), pharmacyID, p.PatientID(), orderItems, now)
}
