package appointment

import (
	"fmt"

	"medmarket/internal/pkg/errs"
)

// Status represents the lifecycle state of an appointment.
//
//	Scheduled ──> Completed
//	    ├──────> CancelledByPatient
//	    └──────> CancelledByDoctor
type Status int

const (
	Unknown Status = iota
	Scheduled
	Completed
	CancelledByPatient
	CancelledByDoctor
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:            "Unknown",
		Scheduled:          "Scheduled",
		Completed:          "Completed",
		CancelledByPatient: "CancelledByPatient",
		CancelledByDoctor:  "CancelledByDoctor",
	}
}

func (s Status) Validate() error {
	if s < Scheduled || s > CancelledByDoctor {
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

func ParseStatus(str string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && name == str {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a valid status", str))
}

func (s Status) IsCancelled() bool {
	return s == CancelledByPatient || s == CancelledByDoctor
}

// Actor is the party cancelling an appointment.
type Actor int

const (
	UnknownActor Actor = iota
	Patient
	Doctor
)

func (a Actor) String() string {
	switch a {
	case Patient:
		return "patient"
	case Doctor:
		return "doctor"
	default:
		return "unknown"
	}
}

func ParseActor(s string) (Actor, error) {
	switch s {
	case "patient":
		return Patient, nil
	case "doctor":
		return Doctor, nil
	}
	return UnknownActor, errs.NewValueIsInvalidErrorWithCause("actor", fmt.Errorf("%q is neither patient nor doctor", s))
}
