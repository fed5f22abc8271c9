package pharmacyorder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

// AggregateKind labels pharmacy order events and errors.
const AggregateKind = "pharmacy order"

var ErrPharmacyOrderIsNotConstructed = errors.New("PharmacyOrder must be created via NewPharmacyOrder constructor")

// PharmacyOrder is the aggregate root for one pharmacy's share of a prescription.
//
// Invariants:
//   - prescription, pharmacy and patient identifiers are always valid
//   - at least one item, each from a distinct prescription item
//   - the order number never changes
//   - RejectedAt and a reason are set exactly when the status is RejectedByPharmacy
type PharmacyOrder struct {
	id             kernel.UUID
	number         OrderNumber
	prescriptionID kernel.UUID
	pharmacyID     kernel.UUID
	patientID      kernel.UUID
	items          []Item

	status          Status
	deliveryFee     kernel.Money
	rejectionReason string

	createdAt    time.Time
	confirmedAt  *time.Time
	rejectedAt   *time.Time
	preparingAt  *time.Time
	dispatchedAt *time.Time
	deliveredAt  *time.Time
	cancelledAt  *time.Time

	version int64

	kernel.EventRecorder
	isConstructed bool
}

// NewPharmacyOrder places an order. The order number is derived from the creation
// date and a fresh random UUID.
func NewPharmacyOrder(
	id, prescriptionID, pharmacyID, patientID kernel.UUID,
	items []Item,
	createdAt time.Time,
) (*PharmacyOrder, error) {
	number, err := NewOrderNumber(createdAt, kernel.NewUUID())
	if err != nil {
		return nil, err
	}
	return newPharmacyOrder(id, number, prescriptionID, pharmacyID, patientID, items, createdAt)
}

func newPharmacyOrder(
	id kernel.UUID,
	number OrderNumber,
	prescriptionID, pharmacyID, patientID kernel.UUID,
	items []Item,
	createdAt time.Time,
) (*PharmacyOrder, error) {
	o := &PharmacyOrder{
		number:        number,
		status:        Placed,
		deliveryFee:   kernel.ZeroMoney(),
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		setUUID(&o.id, id),
		number.Validate(),
		setUUID(&o.prescriptionID, prescriptionID),
		setUUID(&o.pharmacyID, pharmacyID),
		setUUID(&o.patientID, patientID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}
	return o, nil
}

// Snapshot is the full persisted state of a pharmacy order.
type Snapshot struct {
	ID              kernel.UUID
	Number          OrderNumber
	PrescriptionID  kernel.UUID
	PharmacyID      kernel.UUID
	PatientID       kernel.UUID
	Items           []Item
	Status          Status
	DeliveryFee     kernel.Money
	RejectionReason string
	CreatedAt       time.Time
	ConfirmedAt     *time.Time
	RejectedAt      *time.Time
	PreparingAt     *time.Time
	DispatchedAt    *time.Time
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	Version         int64
}

func Restore(s Snapshot) (*PharmacyOrder, error) {
	o, err := newPharmacyOrder(s.ID, s.Number, s.PrescriptionID, s.PharmacyID, s.PatientID, s.Items, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = errors.Join(s.Status.Validate(), s.DeliveryFee.Validate()); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.deliveryFee = s.DeliveryFee
	o.rejectionReason = s.RejectionReason
	o.confirmedAt = s.ConfirmedAt
	o.rejectedAt = s.RejectedAt
	o.preparingAt = s.PreparingAt
	o.dispatchedAt = s.DispatchedAt
	o.deliveredAt = s.DeliveredAt
	o.cancelledAt = s.CancelledAt
	o.version = s.Version

	if (o.status == RejectedByPharmacy) != (o.rejectedAt != nil) {
		return nil, errs.NewValueIsInvalidErrorWithCause("pharmacy order",
			fmt.Errorf("%s order has inconsistent rejection time", o.status))
	}
	if o.status == RejectedByPharmacy && strings.TrimSpace(o.rejectionReason) == "" {
		return nil, errs.NewValueIsRequiredError("rejection reason")
	}
	return o, nil
}

func (o *PharmacyOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrPharmacyOrderIsNotConstructed
	}
	return nil
}

// ConfirmByPharmacy accepts the order and fixes the delivery fee, which may be zero.
func (o *PharmacyOrder) ConfirmByPharmacy(deliveryFee kernel.Money, now time.Time) error {
	next, err := o.status.Confirm()
	if err != nil {
		return err
	}
	if err = deliveryFee.Validate(); err != nil {
		return err
	}

	o.deliveryFee = deliveryFee
	o.confirmedAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

// RejectByPharmacy refuses the order. An empty reason is a validation error
// regardless of the current status.
func (o *PharmacyOrder) RejectByPharmacy(reason string, now time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("rejection reason")
	}
	next, err := o.status.Reject()
	if err != nil {
		return err
	}

	o.rejectionReason = reason
	o.rejectedAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

func (o *PharmacyOrder) StartPreparing(now time.Time) error {
	next, err := o.status.StartPreparing()
	if err != nil {
		return err
	}

	o.preparingAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

func (o *PharmacyOrder) Dispatch(now time.Time) error {
	next, err := o.status.Dispatch()
	if err != nil {
		return err
	}

	o.dispatchedAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

func (o *PharmacyOrder) MarkDelivered(now time.Time) error {
	next, err := o.status.MarkDelivered()
	if err != nil {
		return err
	}

	o.deliveredAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

// CancelByPatient withdraws the order before preparation starts.
func (o *PharmacyOrder) CancelByPatient(now time.Time) error {
	next, err := o.status.CancelByPatient()
	if err != nil {
		return err
	}

	o.cancelledAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

func (o *PharmacyOrder) IncrementVersion() {
	o.version++
}

func (o *PharmacyOrder) ID() kernel.UUID             { return o.id }
func (o *PharmacyOrder) Number() OrderNumber         { return o.number }
func (o *PharmacyOrder) PrescriptionID() kernel.UUID { return o.prescriptionID }
func (o *PharmacyOrder) PharmacyID() kernel.UUID     { return o.pharmacyID }
func (o *PharmacyOrder) PatientID() kernel.UUID      { return o.patientID }
func (o *PharmacyOrder) Status() Status              { return o.status }
func (o *PharmacyOrder) DeliveryFee() kernel.Money   { return o.deliveryFee }
func (o *PharmacyOrder) RejectionReason() string     { return o.rejectionReason }
func (o *PharmacyOrder) CreatedAt() time.Time        { return o.createdAt }
func (o *PharmacyOrder) ConfirmedAt() *time.Time     { return o.confirmedAt }
func (o *PharmacyOrder) RejectedAt() *time.Time      { return o.rejectedAt }
func (o *PharmacyOrder) PreparingAt() *time.Time     { return o.preparingAt }
func (o *PharmacyOrder) DispatchedAt() *time.Time    { return o.dispatchedAt }
func (o *PharmacyOrder) DeliveredAt() *time.Time     { return o.deliveredAt }
func (o *PharmacyOrder) CancelledAt() *time.Time     { return o.cancelledAt }
func (o *PharmacyOrder) Version() int64              { return o.version }

func (o *PharmacyOrder) Items() []Item {
	return append([]Item(nil), o.items...)
}

func (o *PharmacyOrder) moveTo(next Status, now time.Time) {
	o.Record(kernel.StatusChanged{
		AggregateID:   o.id,
		AggregateKind: AggregateKind,
		From:          o.status.String(),
		To:            next.String(),
		OccurredAt:    now.UTC(),
	})
	o.status = next
}

func (o *PharmacyOrder) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("pharmacy order items")
	}
	seen := make(map[kernel.UUID]struct{}, len(items))
	for _, item := range items {
		if err := item.prescriptionItemID.Validate(); err != nil {
			return err
		}
		if _, dup := seen[item.prescriptionItemID]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"pharmacy order items",
				fmt.Errorf("prescription item %s is listed twice", item.prescriptionItemID),
			)
		}
		seen[item.prescriptionItemID] = struct{}{}
	}
	o.items = append([]Item(nil), items...)
	return nil
}

func setUUID(dst *kernel.UUID, id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	*dst = id
	return nil
}

func timePtr(t time.Time) *time.Time {
	utc := t.UTC()
	return &utc
}
