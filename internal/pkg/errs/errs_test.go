package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"medmarket/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("labOrder", "123")

		assert.Equal(t, "labOrder", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("labOrder", "123", cause)

		assert.Equal(t, cause, err.Cause)
		assert.Equal(t,
			"object not found: param is: labOrder, ID is: 123 (cause: database connection failed)",
			err.Error())
	})
}

func TestValidationErrors(t *testing.T) {
	t.Run("value is invalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("amount", errors.New("negative"))

		assert.Equal(t, "value is invalid: amount (cause: negative)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("value is required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("reason")

		assert.Equal(t, "value is required: reason", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("value is out of range", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("score", 7, 1, 5)

		assert.Equal(t, "value is invalid: 7 is score, min value is 1, max value is 5", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("newlines are flattened", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)
		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})

	t.Run("validation errors survive wrapping and joining", func(t *testing.T) {
		joined := errors.Join(errs.NewValueIsRequiredError("a"), errs.NewValueIsInvalidError("b"))
		wrapped := fmt.Errorf("create prescription: %w", joined)

		require.ErrorIs(t, wrapped, errs.ErrValidation)
	})
}

func TestWorkflowErrors(t *testing.T) {
	t.Run("invalid transition", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("lab order", "confirm", "PendingPayment")

		assert.Equal(t, "invalid transition: cannot confirm lab order in status PendingPayment", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.NotErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("unknown test reference", func(t *testing.T) {
		err := errs.NewUnknownTestReferenceError("CBC")

		assert.Equal(t, "unknown test reference: CBC", err.Error())
		require.ErrorIs(t, err, errs.ErrUnknownTestReference)
	})

	t.Run("duplicate review", func(t *testing.T) {
		err := errs.NewDuplicateReviewError("appt-1")

		assert.Equal(t, "duplicate review: appt-1 is already reviewed", err.Error())
		require.ErrorIs(t, err, errs.ErrDuplicateReview)
	})

	t.Run("concurrency conflict", func(t *testing.T) {
		err := errs.NewConcurrencyConflictError("lab order", "42")

		assert.Equal(t, "concurrency conflict: lab order 42 was modified concurrently", err.Error())
		require.ErrorIs(t, err, errs.ErrConflict)

		withCause := errs.NewConcurrencyConflictErrorWithCause("lab order", "42", errors.New("stale version"))
		assert.Contains(t, withCause.Error(), "(cause: stale version)")
	})
}

func TestSentinelErrors(t *testing.T) {
	assert.Equal(t, "object not found", errs.ErrObjectNotFound.Error())
	assert.Equal(t, "value is invalid", errs.ErrValueIsInvalid.Error())
	assert.Equal(t, "value is out of range", errs.ErrValueIsOutOfRange.Error())
	assert.Equal(t, "value is required", errs.ErrValueIsRequired.Error())
	assert.Equal(t, "invalid transition", errs.ErrInvalidTransition.Error())
	assert.Equal(t, "concurrency conflict", errs.ErrConflict.Error())
}
