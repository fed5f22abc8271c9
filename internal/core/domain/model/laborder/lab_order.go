package laborder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

// AggregateKind labels lab order events and errors.
const AggregateKind = "lab order"

var (
	// ErrLabOrderIsNotConstructed is returned when a LabOrder did not come from NewLabOrder or Restore.
	ErrLabOrderIsNotConstructed = errors.New("LabOrder must be created via NewLabOrder constructor")
)

// LabOrder is the aggregate root for one laboratory's share of a prescription.
//
// Invariants:
//   - prescription, laboratory and patient identifiers are always valid (no orphans)
//   - at least one test, each from a distinct prescription item
//   - status only moves along the edges declared in status.go
//   - RejectedAt is set exactly when the status is CancelledByLab, together with a reason
//   - PaidAt is set for every status at or after PaidPendingLabConfirmation
//   - results exist once the order reaches ResultsReady
//
// Every transition either fully applies or returns an error and leaves the order as it was.
type LabOrder struct {
	id             kernel.UUID
	prescriptionID kernel.UUID
	laboratoryID   kernel.UUID
	patientID      kernel.UUID
	tests          []Test

	status          Status
	amount          kernel.Money
	rejectionReason string
	results         []LabResult

	createdAt          time.Time
	paidAt             *time.Time
	confirmedAt        *time.Time
	rejectedAt         *time.Time
	samplesCollectedAt *time.Time
	resultsReadyAt     *time.Time
	completedAt        *time.Time
	cancelledAt        *time.Time

	version int64

	kernel.EventRecorder
	isConstructed bool
}

// NewLabOrder creates an order in PendingPayment. It is called by the prescription
// fan-out only; every other state is reached through the transition methods.
func NewLabOrder(
	id, prescriptionID, laboratoryID, patientID kernel.UUID,
	tests []Test,
	createdAt time.Time,
) (*LabOrder, error) {
	o := &LabOrder{
		status:        PendingPayment,
		amount:        kernel.ZeroMoney(),
		createdAt:     createdAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		setUUID(&o.id, id),
		setUUID(&o.prescriptionID, prescriptionID),
		setUUID(&o.laboratoryID, laboratoryID),
		setUUID(&o.patientID, patientID),
		o.setTests(tests),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot is the full persisted state of a lab order.
type Snapshot struct {
	ID                 kernel.UUID
	PrescriptionID     kernel.UUID
	LaboratoryID       kernel.UUID
	PatientID          kernel.UUID
	Tests              []Test
	Status             Status
	Amount             kernel.Money
	RejectionReason    string
	Results            []LabResult
	CreatedAt          time.Time
	PaidAt             *time.Time
	ConfirmedAt        *time.Time
	RejectedAt         *time.Time
	SamplesCollectedAt *time.Time
	ResultsReadyAt     *time.Time
	CompletedAt        *time.Time
	CancelledAt        *time.Time
	Version            int64
}

// Restore rehydrates a stored lab order and re-checks the status invariants.
func Restore(s Snapshot) (*LabOrder, error) {
	o, err := NewLabOrder(s.ID, s.PrescriptionID, s.LaboratoryID, s.PatientID, s.Tests, s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if err = s.Status.Validate(); err != nil {
		return nil, err
	}
	if err = s.Amount.Validate(); err != nil {
		return nil, err
	}

	o.status = s.Status
	o.amount = s.Amount
	o.rejectionReason = s.RejectionReason
	o.results = append([]LabResult(nil), s.Results...)
	o.paidAt = s.PaidAt
	o.confirmedAt = s.ConfirmedAt
	o.rejectedAt = s.RejectedAt
	o.samplesCollectedAt = s.SamplesCollectedAt
	o.resultsReadyAt = s.ResultsReadyAt
	o.completedAt = s.CompletedAt
	o.cancelledAt = s.CancelledAt
	o.version = s.Version

	if err = o.checkInvariants(); err != nil {
		return nil, err
	}
	return o, nil
}

func (o *LabOrder) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrLabOrderIsNotConstructed
	}
	return nil
}

// RecordPayment stores the paid amount and moves the order to PaidPendingLabConfirmation.
func (o *LabOrder) RecordPayment(amount kernel.Money, now time.Time) error {
	next, err := o.status.RecordPayment()
	if err != nil {
		return err
	}
	if err = amount.Validate(); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is not greater than 0", amount))
	}

	o.amount = amount
	o.paidAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

// ConfirmByLab accepts a paid order on behalf of the laboratory.
func (o *LabOrder) ConfirmByLab(now time.Time) error {
	next, err := o.status.Confirm()
	if err != nil {
		return err
	}

	o.confirmedAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

// RejectByLab cancels the order on behalf of the laboratory. An empty reason is
// a validation error regardless of the current status.
func (o *LabOrder) RejectByLab(reason string, now time.Time) error {
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

// MarkSamplesCollected starts testing.
func (o *LabOrder) MarkSamplesCollected(now time.Time) error {
	next, err := o.status.MarkSamplesCollected()
	if err != nil {
		return err
	}

	o.samplesCollectedAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

// SubmitResults attaches results and moves the order to ResultsReady.
//
// Each result must reference a test of this order (UnknownTestReferenceError
// otherwise) and a test may be reported once per submission.
func (o *LabOrder) SubmitResults(results []LabResult, now time.Time) error {
	next, err := o.status.SubmitResults()
	if err != nil {
		return err
	}
	if len(results) == 0 {
		return errs.NewValueIsRequiredError("lab results")
	}

	known := make(map[string]struct{}, len(o.tests))
	for _, t := range o.tests {
		known[t.testID] = struct{}{}
	}
	reported := make(map[string]struct{}, len(results))
	for _, r := range results {
		if err = r.id.Validate(); err != nil {
			return err
		}
		if _, ok := known[r.testID]; !ok {
			return errs.NewUnknownTestReferenceError(r.testID)
		}
		if _, dup := reported[r.testID]; dup {
			return errs.NewValueIsInvalidErrorWithCause("lab results", fmt.Errorf("test %s is reported twice", r.testID))
		}
		reported[r.testID] = struct{}{}
	}

	o.results = append([]LabResult(nil), results...)
	o.resultsReadyAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

// MarkCompleted records the patient's acknowledgment of the results.
func (o *LabOrder) MarkCompleted(now time.Time) error {
	next, err := o.status.MarkCompleted()
	if err != nil {
		return err
	}

	o.completedAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

// CancelByPatient withdraws the order before the laboratory confirms it.
func (o *LabOrder) CancelByPatient(now time.Time) error {
	next, err := o.status.CancelByPatient()
	if err != nil {
		return err
	}

	o.cancelledAt = timePtr(now)
	o.moveTo(next, now)
	return nil
}

// IncrementVersion is called by the repository after an optimistic update succeeds.
func (o *LabOrder) IncrementVersion() {
	o.version++
}

func (o *LabOrder) ID() kernel.UUID             { return o.id }
func (o *LabOrder) PrescriptionID() kernel.UUID { return o.prescriptionID }
func (o *LabOrder) LaboratoryID() kernel.UUID   { return o.laboratoryID }
func (o *LabOrder) PatientID() kernel.UUID      { return o.patientID }
func (o *LabOrder) Status() Status              { return o.status }
func (o *LabOrder) Amount() kernel.Money        { return o.amount }
func (o *LabOrder) RejectionReason() string     { return o.rejectionReason }
func (o *LabOrder) CreatedAt() time.Time        { return o.createdAt }
func (o *LabOrder) PaidAt() *time.Time          { return o.paidAt }
func (o *LabOrder) ConfirmedAt() *time.Time     { return o.confirmedAt }
func (o *LabOrder) RejectedAt() *time.Time      { return o.rejectedAt }
func (o *LabOrder) SamplesCollectedAt() *time.Time { return o.samplesCollectedAt }
func (o *LabOrder) ResultsReadyAt() *time.Time     { return o.resultsReadyAt }
func (o *LabOrder) CompletedAt() *time.Time        { return o.completedAt }
func (o *LabOrder) CancelledAt() *time.Time        { return o.cancelledAt }
func (o *LabOrder) Version() int64                 { return o.version }

// Tests returns a copy of the tests routed to this laboratory.
func (o *LabOrder) Tests() []Test {
	return append([]Test(nil), o.tests...)
}

// Results returns a copy of the submitted results.
func (o *LabOrder) Results() []LabResult {
	return append([]LabResult(nil), o.results...)
}

func (o *LabOrder) moveTo(next Status, now time.Time) {
	o.Record(kernel.StatusChanged{
		AggregateID:   o.id,
		AggregateKind: AggregateKind,
		From:          o.status.String(),
		To:            next.String(),
		OccurredAt:    now.UTC(),
	})
	o.status = next
}

func (o *LabOrder) setTests(tests []Test) error {
	if len(tests) == 0 {
		return errs.NewValueIsRequiredError("lab order tests")
	}
	seen := make(map[kernel.UUID]struct{}, len(tests))
	for _, t := range tests {
		if err := t.prescriptionItemID.Validate(); err != nil {
			return err
		}
		if _, dup := seen[t.prescriptionItemID]; dup {
			return errs.NewValueIsInvalidErrorWithCause(
				"lab order tests",
				fmt.Errorf("prescription item %s is listed twice", t.prescriptionItemID),
			)
		}
		seen[t.prescriptionItemID] = struct{}{}
	}
	o.tests = append([]Test(nil), tests...)
	return nil
}

func (o *LabOrder) checkInvariants() error {
	requiresPayment := o.status != PendingPayment && o.status != CancelledByPatient

	switch {
	case requiresPayment && o.paidAt == nil:
		return errs.NewValueIsInvalidErrorWithCause("lab order", fmt.Errorf("%s order has no payment time", o.status))
	case o.status == PendingPayment && o.paidAt != nil:
		return errs.NewValueIsInvalidErrorWithCause("lab order", errors.New("unpaid order has a payment time"))
	case (o.status == CancelledByLab) != (o.rejectedAt != nil):
		return errs.NewValueIsInvalidErrorWithCause("lab order", fmt.Errorf("%s order has inconsistent rejection time", o.status))
	case o.status == CancelledByLab && strings.TrimSpace(o.rejectionReason) == "":
		return errs.NewValueIsRequiredError("rejection reason")
	case (o.status == ResultsReady || o.status == Completed) && len(o.results) == 0:
		return errs.NewValueIsInvalidErrorWithCause("lab order", fmt.Errorf("%s order has no results", o.status))
	}
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
