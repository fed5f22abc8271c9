package laborder

import (
	"errors"
	"strings"
	"time"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

// Test is one prescription item routed to the laboratory.
// TestID is the catalogue code that submitted results must reference.
type Test struct {
	prescriptionItemID kernel.UUID
	testID             string
	name               string
}

func NewTest(prescriptionItemID kernel.UUID, testID, name string) (Test, error) {
	if err := prescriptionItemID.Validate(); err != nil {
		return Test{}, err
	}
	testID = strings.TrimSpace(testID)
	if testID == "" {
		return Test{}, errs.NewValueIsRequiredError("test id")
	}
	return Test{prescriptionItemID: prescriptionItemID, testID: testID, name: strings.TrimSpace(name)}, nil
}

func (t Test) PrescriptionItemID() kernel.UUID {
	return t.prescriptionItemID
}

func (t Test) TestID() string {
	return t.testID
}

func (t Test) Name() string {
	return t.name
}

// ResultInput carries one submitted result before it is attached to an order.
type ResultInput struct {
	TestID         string
	Value          string
	ReferenceRange string
	Unit           string
	Notes          string
	AttachmentRef  string
	IsAbnormal     bool
}

// LabResult is an immutable result row owned by a LabOrder.
type LabResult struct {
	id             kernel.UUID
	testID         string
	value          string
	referenceRange string
	unit           string
	notes          string
	attachmentRef  string
	isAbnormal     bool
	recordedAt     time.Time
}

// NewLabResult validates a single result. Membership of TestID in the order is
// checked by LabOrder.SubmitResults.
func NewLabResult(id kernel.UUID, in ResultInput, recordedAt time.Time) (LabResult, error) {
	r := LabResult{
		id:             id,
		testID:         strings.TrimSpace(in.TestID),
		value:          strings.TrimSpace(in.Value),
		referenceRange: strings.TrimSpace(in.ReferenceRange),
		unit:           strings.TrimSpace(in.Unit),
		notes:          strings.TrimSpace(in.Notes),
		attachmentRef:  strings.TrimSpace(in.AttachmentRef),
		isAbnormal:     in.IsAbnormal,
		recordedAt:     recordedAt.UTC(),
	}

	var testErr, valueErr error
	if r.testID == "" {
		testErr = errs.NewValueIsRequiredError("result test id")
	}
	if r.value == "" && r.attachmentRef == "" {
		valueErr = errs.NewValueIsRequiredError("result value or attachment")
	}
	if err := errors.Join(id.Validate(), testErr, valueErr); err != nil {
		return LabResult{}, err
	}
	return r, nil
}

func (r LabResult) ID() kernel.UUID        { return r.id }
func (r LabResult) TestID() string         { return r.testID }
func (r LabResult) Value() string          { return r.value }
func (r LabResult) ReferenceRange() string { return r.referenceRange }
func (r LabResult) Unit() string           { return r.unit }
func (r LabResult) Notes() string          { return r.notes }
func (r LabResult) AttachmentRef() string  { return r.attachmentRef }
func (r LabResult) IsAbnormal() bool       { return r.isAbnormal }
func (r LabResult) RecordedAt() time.Time  { return r.recordedAt }
