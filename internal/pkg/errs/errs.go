package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound       = errors.New("object not found")
	ErrValueIsInvalid       = errors.New("value is invalid")
	ErrValueIsOutOfRange    = errors.New("value is out of range")
	ErrValueIsRequired      = errors.New("value is required")
	ErrInvalidTransition    = errors.New("invalid transition")
	ErrUnknownTestReference = errors.New("unknown test reference")
	ErrDuplicateReview      = errors.New("duplicate review")
	ErrConflict             = errors.New("concurrency conflict")

	// ErrValidation is matched by every error describing bad caller input:
	// ValueIsInvalidError, ValueIsOutOfRangeError and ValueIsRequiredError.
	ErrValidation = errors.New("validation error")
)

// ObjectNotFoundError reports a missing or soft-deleted entity.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %v)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a malformed value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsInvalid, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

func (e *ValueIsInvalidError) Is(target error) bool {
	return target == ErrValidation
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	msg := fmt.Sprintf("%s: %s is %s, min value is %s, max value is %s",
		ErrValueIsInvalid,
		sanitize(e.Value), e.ParamName, sanitize(e.Min), sanitize(e.Max))
	if e.Cause != nil {
		msg += fmt.Sprintf(" (cause: %v)", e.Cause)
	}
	return msg
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

func (e *ValueIsOutOfRangeError) Is(target error) bool {
	return target == ErrValidation
}

// ValueIsRequiredError reports a missing required value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", ErrValueIsRequired, e.ParamName, e.Cause)
	}
	return fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

func (e *ValueIsRequiredError) Is(target error) bool {
	return target == ErrValidation
}

// InvalidTransitionError reports an action that the current status does not allow.
// The caller should re-read the entity before deciding what to do next.
type InvalidTransitionError struct {
	Entity string
	Action string
	From   string
}

func NewInvalidTransitionError(entity, action, from string) *InvalidTransitionError {
	return &InvalidTransitionError{Entity: entity, Action: action, From: from}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot %s %s in status %s", ErrInvalidTransition, e.Action, e.Entity, e.From)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// UnknownTestReferenceError reports a lab result for a test the order does not contain.
type UnknownTestReferenceError struct {
	TestID string
}

func NewUnknownTestReferenceError(testID string) *UnknownTestReferenceError {
	return &UnknownTestReferenceError{TestID: testID}
}

func (e *UnknownTestReferenceError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnknownTestReference, e.TestID)
}

func (e *UnknownTestReferenceError) Unwrap() error {
	return ErrUnknownTestReference
}

// DuplicateReviewError reports a second review for the same appointment or order.
type DuplicateReviewError struct {
	SourceID string
}

func NewDuplicateReviewError(sourceID string) *DuplicateReviewError {
	return &DuplicateReviewError{SourceID: sourceID}
}

func (e *DuplicateReviewError) Error() string {
	return fmt.Sprintf("%s: %s is already reviewed", ErrDuplicateReview, e.SourceID)
}

func (e *DuplicateReviewError) Unwrap() error {
	return ErrDuplicateReview
}

// ConcurrencyConflictError reports that an entity changed between load and commit.
// It is the only error kind that is safe to retry as a whole operation.
type ConcurrencyConflictError struct {
	Entity string
	ID     string
	Cause  error
}

func NewConcurrencyConflictError(entity, id string) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Entity: entity, ID: id}
}

func NewConcurrencyConflictErrorWithCause(entity, id string, cause error) *ConcurrencyConflictError {
	return &ConcurrencyConflictError{Entity: entity, ID: id, Cause: cause}
}

func (e *ConcurrencyConflictError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s %s was modified concurrently (cause: %v)", ErrConflict, e.Entity, e.ID, e.Cause)
	}
	return fmt.Sprintf("%s: %s %s was modified concurrently", ErrConflict, e.Entity, e.ID)
}

func (e *ConcurrencyConflictError) Unwrap() error {
	return ErrConflict
}

func sanitize(v any) string {
	return strings.ReplaceAll(fmt.Sprint(v), "\n", " ")
}
