// Package errs provides the error taxonomy shared by the order workflow.
//
// Every error type follows the same pattern:
//   - A sentinel error variable (e.g., ErrInvalidTransition)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method returning the sentinel, so errors.Is works
//
// Callers distinguish three situations:
//   - ErrConflict: the entity changed concurrently, retry the whole operation
//   - ErrInvalidTransition: the action is not allowed in the current status
//   - ErrValidation / ErrUnknownTestReference: the input was bad
//
// ErrObjectNotFound and ErrDuplicateReview complete the set.
package errs
