package session_test

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lantern/internal/session"
)

func passwordViolationKeys(t *testing.T, err error) []string {
	t.Helper()

	var richErr *errors.Error
	require.True(t, errors.As(err, &richErr))

	violations, ok := richErr.Metadata["errors"].(validation.Errors)
	require.True(t, ok, "expected aggregated violations in metadata")

	pwErrs, ok := violations["password"].(validation.Errors)
	require.True(t, ok, "expected password violations")

	keys := make([]string, 0, len(pwErrs))
	for key := range pwErrs {
		keys = append(keys, key)
	}
	return keys
}

func TestValidateSignup(t *testing.T) {
	t.Run("accepts a compliant payload", func(t *testing.T) {
		err := session.ValidateSignup("user@example.com", "Sup3r$ecret")
		assert.NoError(t, err)
	})

	t.Run("reports every violated password rule, not just the first", func(t *testing.T) {
		err := session.ValidateSignup("user@example.com", "abc")
		require.Error(t, err)

		keys := passwordViolationKeys(t, err)
		assert.GreaterOrEqual(t, len(keys), 4)
		assert.Contains(t, keys, "length")
		assert.Contains(t, keys, "uppercase")
		assert.Contains(t, keys, "number")
		assert.Contains(t, keys, "special")
	})

	t.Run("missing lowercase is reported", func(t *testing.T) {
		err := session.ValidateSignup("user@example.com", "ABCDEF1!")
		require.Error(t, err)
		assert.Contains(t, passwordViolationKeys(t, err), "lowercase")
	})

	t.Run("rejects a malformed email", func(t *testing.T) {
		err := session.ValidateSignup("not-an-email", "Sup3r$ecret")
		require.Error(t, err)

		var richErr *errors.Error
		require.True(t, errors.As(err, &richErr))
		assert.Equal(t, errors.CategoryValidation, richErr.Category)

		violations := richErr.Metadata["errors"].(validation.Errors)
		assert.Contains(t, violations, "email")
	})

	t.Run("rejects an empty email", func(t *testing.T) {
		err := session.ValidateSignup("", "Sup3r$ecret")
		assert.Error(t, err)
	})

	t.Run("empty password violates the whole policy", func(t *testing.T) {
		err := session.ValidateSignup("user@example.com", "")
		require.Error(t, err)
		assert.Len(t, passwordViolationKeys(t, err), 5)
	})
}
