package pharmacyorder

import (
	"fmt"
	"slices"

	"medmarket/internal/pkg/errs"
)

// Status represents the lifecycle state of a pharmacy order.
//
// State transitions:
//
//	Placed ──> Confirmed ──> Preparing ──> OutForDelivery ──> Delivered
//	  │            │
//	  ├────────────┴──> RejectedByPharmacy (reason required)
//	  └────────────┴──> CancelledByPatient
//
// Delivered, CancelledByPatient and RejectedByPharmacy are terminal.
type Status int

const (
	Unknown Status = iota
	Placed
	Confirmed
	Preparing
	OutForDelivery
	Delivered
	CancelledByPatient
	RejectedByPharmacy
)

type action string

const (
	actionConfirm         action = "confirm"
	actionReject          action = "reject"
	actionStartPreparing  action = "start preparing"
	actionDispatch        action = "dispatch"
	actionMarkDelivered   action = "mark delivered"
	actionCancelByPatient action = "cancel"
)

type edge struct {
	from []Status
	to   Status
}

func getTransitions() map[action]edge {
	return map[action]edge{
		actionConfirm:         {from: []Status{Placed}, to: Confirmed},
		actionReject:          {from: []Status{Placed, Confirmed}, to: RejectedByPharmacy},
		actionStartPreparing:  {from: []Status{Confirmed}, to: Preparing},
		actionDispatch:        {from: []Status{Preparing}, to: OutForDelivery},
		actionMarkDelivered:   {from: []Status{OutForDelivery}, to: Delivered},
		actionCancelByPatient: {from: []Status{Placed, Confirmed}, to: CancelledByPatient},
	}
}

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:            "Unknown",
		Placed:             "Placed",
		Confirmed:          "Confirmed",
		Preparing:          "Preparing",
		OutForDelivery:     "OutForDelivery",
		Delivered:          "Delivered",
		CancelledByPatient: "CancelledByPatient",
		RejectedByPharmacy: "RejectedByPharmacy",
	}
}

func getDisplayTexts() map[Status]string {
	//nolint:exhaustive // Unknown has no display text
	return map[Status]string{
		Placed:             "Waiting for the pharmacy to confirm",
		Confirmed:          "Confirmed by the pharmacy",
		Preparing:          "Being prepared",
		OutForDelivery:     "Out for delivery",
		Delivered:          "Delivered",
		CancelledByPatient: "Cancelled by patient",
		RejectedByPharmacy: "Rejected by the pharmacy",
	}
}

func (s Status) Validate() error {
	if _, ok := getDisplayTexts()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

func (s Status) DisplayText() string {
	return getDisplayTexts()[s]
}

func ParseStatus(str string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == str {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", str))
}

func (s Status) IsTerminal() bool {
	return s == Delivered || s == CancelledByPatient || s == RejectedByPharmacy
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, e := range getTransitions() {
		if e.to == next && slices.Contains(e.from, s) {
			return true
		}
	}
	return false
}

func (s Status) Confirm() (Status, error)         { return s.apply(actionConfirm) }
func (s Status) Reject() (Status, error)          { return s.apply(actionReject) }
func (s Status) StartPreparing() (Status, error)  { return s.apply(actionStartPreparing) }
func (s Status) Dispatch() (Status, error)        { return s.apply(actionDispatch) }
func (s Status) MarkDelivered() (Status, error)   { return s.apply(actionMarkDelivered) }
func (s Status) CancelByPatient() (Status, error) { return s.apply(actionCancelByPatient) }

func (s Status) apply(a action) (Status, error) {
	e := getTransitions()[a]
	if !slices.Contains(e.from, s) {
		return Unknown, errs.NewInvalidTransitionError(AggregateKind, string(a), s.String())
	}
	return e.to, nil
}
