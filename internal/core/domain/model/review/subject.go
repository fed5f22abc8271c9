package review

import (
	"fmt"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"
)

// SubjectKind is the type of the reviewed party.
type SubjectKind int

const (
	UnknownSubject SubjectKind = iota
	Doctor
	Laboratory
	Pharmacy
)

func getSubjectKindStrings() map[SubjectKind]string {
	return map[SubjectKind]string{
		UnknownSubject: "Unknown",
		Doctor:         "Doctor",
		Laboratory:     "Laboratory",
		Pharmacy:       "Pharmacy",
	}
}

// getCriteria lists the sub-ratings a patient gives for each kind of subject.
func getCriteria() map[SubjectKind][]string {
	return map[SubjectKind][]string{
		Doctor:     {"communication", "professionalism", "punctuality"},
		Laboratory: {"accuracy", "turnaround", "service"},
		Pharmacy:   {"availability", "delivery", "service"},
	}
}

func (k SubjectKind) String() string {
	if str, ok := getSubjectKindStrings()[k]; ok {
		return str
	}
	return "Unknown"
}

func (k SubjectKind) Validate() error {
	if _, ok := getCriteria()[k]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("subject kind", fmt.Errorf("%d is not a valid subject kind", k))
	}
	return nil
}

// Criteria returns the names of the sub-ratings expected for k.
func (k SubjectKind) Criteria() []string {
	return append([]string(nil), getCriteria()[k]...)
}

func ParseSubjectKind(s string) (SubjectKind, error) {
	for kind, str := range getSubjectKindStrings() {
		if kind != UnknownSubject && str == s {
			return kind, nil
		}
	}
	return UnknownSubject, errs.NewValueIsInvalidErrorWithCause("subject kind", fmt.Errorf("%q is not a valid subject kind", s))
}

// Subject is the reviewed party.
type Subject struct {
	Kind SubjectKind
	ID   kernel.UUID
}

func NewSubject(kind SubjectKind, id kernel.UUID) (Subject, error) {
	if err := kind.Validate(); err != nil {
		return Subject{}, err
	}
	if err := id.Validate(); err != nil {
		return Subject{}, err
	}
	return Subject{Kind: kind, ID: id}, nil
}

func (s Subject) String() string {
	return fmt.Sprintf("%s %s", s.Kind, s.ID)
}
