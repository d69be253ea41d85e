package guard_test

import (
	"errors"
	"testing"

	"orders/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstructorGuard(t *testing.T) {
	t.Run("creates_properly_constructed_guard", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		customError := errors.New("test object not constructed")
		require.NoError(t, g.Validate(customError))
		require.NoError(t, g.Validate(nil))
	})
}

func TestConstructorGuard_Validate(t *testing.T) {
	t.Run("properly_constructed_guard_returns_nil", func(t *testing.T) {
		g := guard.NewConstructorGuard()

		err := g.Validate(errors.New("not constructed"))

		require.NoError(t, err)
	})

	t.Run("zero_value_guard_returns_custom_error", func(t *testing.T) {
		var g guard.ConstructorGuard
		expectedError := errors.New("entity not constructed")

		err := g.Validate(expectedError)

		require.Error(t, err)
		assert.Equal(t, expectedError, err)
	})

	t.Run("zero_value_guard_returns_default_error_when_nil", func(t *testing.T) {
		var g guard.ConstructorGuard

		err := g.Validate(nil)

		require.Error(t, err)
		assert.Equal(t, guard.ErrDefaultConstructorGuard, err)
	})
}

// TestConstructorGuardUsageExample demonstrates the pattern on a guarded
// value object of the kind the domain model uses.
func TestConstructorGuardUsageExample(t *testing.T) {
	type CorrelationID struct {
		value string
		guard guard.ConstructorGuard
	}

	var errNotConstructed = errors.New("CorrelationID must be created via its constructor")

	newCorrelationID := func(value string) (CorrelationID, error) {
		if value == "" {
			return CorrelationID{}, errors.New("value is required")
		}
		return CorrelationID{value: value, guard: guard.NewConstructorGuard()}, nil
	}

	validate := func(c CorrelationID) error {
		return c.guard.Validate(errNotConstructed)
	}

	t.Run("valid_construction_through_constructor", func(t *testing.T) {
		id, err := newCorrelationID("corr-123")

		require.NoError(t, err)
		require.NoError(t, validate(id))
		assert.Equal(t, "corr-123", id.value)
	})

	t.Run("zero_value_construction_validation", func(t *testing.T) {
		var id CorrelationID

		err := validate(id)

		require.Error(t, err)
		assert.Equal(t, errNotConstructed, err)
	})
}
