package laborder

import (
	"fmt"
	"slices"

	"medmarket/internal/pkg/errs"
)

// Status represents the lifecycle state of a lab order.
//
// State transitions:
//
//	PendingPayment ──> PaidPendingLabConfirmation ──> ConfirmedByLab ──> InProgress ──> ResultsReady ──> Completed
//	      │                     │        │                  │
//	      │                     │        └──────────────────┴──> CancelledByLab (reason required)
//	      └─────────────────────┴──> CancelledByPatient
//
// Completed, CancelledByPatient and CancelledByLab are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	Unknown Status = iota

	// PendingPayment is the initial status set by the prescription fan-out.
	PendingPayment

	// PaidPendingLabConfirmation means the patient paid and the laboratory has not answered yet.
	PaidPendingLabConfirmation

	// ConfirmedByLab means the laboratory accepted the order and awaits samples.
	ConfirmedByLab

	// InProgress means samples were collected and tests are running.
	InProgress

	// ResultsReady means results were submitted and await patient acknowledgment.
	ResultsReady

	// Completed is the successful terminal state.
	Completed

	// CancelledByPatient is terminal; reachable before the laboratory confirms.
	CancelledByPatient

	// CancelledByLab is terminal and always carries a rejection reason.
	CancelledByLab
)

// action names a transition; it doubles as the verb in InvalidTransitionError.
type action string

const (
	actionRecordPayment        action = "record payment for"
	actionConfirm              action = "confirm"
	actionReject               action = "reject"
	actionMarkSamplesCollected action = "mark samples collected for"
	actionSubmitResults        action = "submit results for"
	actionMarkCompleted        action = "complete"
	actionCancelByPatient      action = "cancel"
)

type edge struct {
	from []Status
	to   Status
}

// getTransitions is the lab order status graph. Every mutation goes through it.
func getTransitions() map[action]edge {
	return map[action]edge{
		actionRecordPayment:        {from: []Status{PendingPayment}, to: PaidPendingLabConfirmation},
		actionConfirm:              {from: []Status{PaidPendingLabConfirmation}, to: ConfirmedByLab},
		actionReject:               {from: []Status{PaidPendingLabConfirmation, ConfirmedByLab}, to: CancelledByLab},
		actionMarkSamplesCollected: {from: []Status{ConfirmedByLab}, to: InProgress},
		actionSubmitResults:        {from: []Status{InProgress}, to: ResultsReady},
		actionMarkCompleted:        {from: []Status{ResultsReady}, to: Completed},
		actionCancelByPatient:      {from: []Status{PendingPayment, PaidPendingLabConfirmation}, to: CancelledByPatient},
	}
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:                    "Unknown",
		PendingPayment:             "PendingPayment",
		PaidPendingLabConfirmation: "PaidPendingLabConfirmation",
		ConfirmedByLab:             "ConfirmedByLab",
		InProgress:                 "InProgress",
		ResultsReady:               "ResultsReady",
		Completed:                  "Completed",
		CancelledByPatient:         "CancelledByPatient",
		CancelledByLab:             "CancelledByLab",
	}
}

// getDisplayTexts holds the patient-facing wording, kept apart from the state machine.
func getDisplayTexts() map[Status]string {
	//nolint:exhaustive // Unknown has no display text
	return map[Status]string{
		PendingPayment:             "Waiting for payment",
		PaidPendingLabConfirmation: "Paid, waiting for the laboratory to confirm",
		ConfirmedByLab:             "Confirmed by the laboratory",
		InProgress:                 "Samples collected, tests in progress",
		ResultsReady:               "Results are ready",
		Completed:                  "Completed",
		CancelledByPatient:         "Cancelled by patient",
		CancelledByLab:             "Rejected by the laboratory",
	}
}

// Validate checks that s is one of the defined states (Unknown excluded).
func (s Status) Validate() error {
	if _, ok := getDisplayTexts()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the persisted name of the status, "Unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// DisplayText returns the human-readable description, empty for invalid values.
func (s Status) DisplayText() string {
	return getDisplayTexts()[s]
}

// ParseStatus is the inverse of String for valid statuses.
func ParseStatus(str string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == str {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", str))
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == Completed || s == CancelledByPatient || s == CancelledByLab
}

// CanTransitionTo reports whether the graph has an edge s -> next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, e := range getTransitions() {
		if e.to == next && slices.Contains(e.from, s) {
			return true
		}
	}
	return false
}

// RecordPayment: PendingPayment -> PaidPendingLabConfirmation.
func (s Status) RecordPayment() (Status, error) { return s.apply(actionRecordPayment) }

// Confirm: PaidPendingLabConfirmation -> ConfirmedByLab.
func (s Status) Confirm() (Status, error) { return s.apply(actionConfirm) }

// Reject: PaidPendingLabConfirmation | ConfirmedByLab -> CancelledByLab.
func (s Status) Reject() (Status, error) { return s.apply(actionReject) }

// MarkSamplesCollected: ConfirmedByLab -> InProgress.
func (s Status) MarkSamplesCollected() (Status, error) { return s.apply(actionMarkSamplesCollected) }

// SubmitResults: InProgress -> ResultsReady.
func (s Status) SubmitResults() (Status, error) { return s.apply(actionSubmitResults) }

// MarkCompleted: ResultsReady -> Completed.
func (s Status) MarkCompleted() (Status, error) { return s.apply(actionMarkCompleted) }

// CancelByPatient: PendingPayment | PaidPendingLabConfirmation -> CancelledByPatient.
func (s Status) CancelByPatient() (Status, error) { return s.apply(actionCancelByPatient) }

func (s Status) apply(a action) (Status, error) {
	e := getTransitions()[a]
	if !slices.Contains(e.from, s) {
		return Unknown, errs.NewInvalidTransitionError("lab order", string(a), s.String())
	}
	return e.to, nil
}
