package kernel_test

import (
	"testing"

	"medmarket/internal/core/domain/model/kernel"
	"medmarket/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	id1 := kernel.NewUUID()
	id2 := kernel.NewUUID()

	require.NoError(t, id1.Validate())
	assert.NotEqual(t, uuid.Nil.String(), id1.String())
	assert.False(t, id1.IsEqual(id2))
}

func TestUUIDFromString(t *testing.T) {
	const valid = "550e8400-e29b-41d4-a716-446655440000"

	t.Run("parses canonical form", func(t *testing.T) {
		id, err := kernel.UUIDFromString(valid)

		require.NoError(t, err)
		assert.Equal(t, valid, id.String())
	})

	t.Run("rejects garbage as a validation error", func(t *testing.T) {
		_, err := kernel.UUIDFromString("not-a-uuid")

		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("rejects the nil UUID", func(t *testing.T) {
		_, err := kernel.UUIDFromString(uuid.Nil.String())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUIDFromBytes(t *testing.T) {
	original := kernel.NewUUID()
	raw := original.Bytes()

	restored, err := kernel.UUIDFromBytes(raw[:])

	require.NoError(t, err)
	assert.True(t, original.IsEqual(restored))

	_, err = kernel.UUIDFromBytes([]byte{1, 2, 3})
	require.Error(t, err)

	_, err = kernel.UUIDFromBytes(make([]byte, 16))
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_ZeroValue(t *testing.T) {
	var id kernel.UUID

	require.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
}

func TestMustUUID(t *testing.T) {
	assert.NotPanics(t, func() { kernel.MustUUID("550e8400-e29b-41d4-a716-446655440000") })
	assert.Panics(t, func() { kernel.MustUUID("nope") })
}
