package bibierr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		context  string
		cause    error
		expected string
	}{
		{
			name:     "simple error",
			context:  "reading block",
			cause:    errors.New("short read"),
			expected: "reading block: short read",
		},
		{
			name:     "empty context",
			context:  "",
			cause:    errors.New("some error"),
			expected: ": some error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &Error{Context: tt.context, Cause: tt.cause}
			require.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestWrap(t *testing.T) {
	t.Run("wraps a non-nil cause", func(t *testing.T) {
		cause := errors.New("disk full")
		err := Wrap("appending block", cause)

		require.Error(t, err)

		var be *Error
		require.True(t, errors.As(err, &be))
		require.Equal(t, "appending block", be.Context)
		require.Equal(t, cause, be.Cause)
	})

	t.Run("nil cause wraps to nil", func(t *testing.T) {
		require.NoError(t, Wrap("noop", nil))
	})
}

func TestWrap_ChainedUnwrapping(t *testing.T) {
	base := errors.New("base error")
	level1 := Wrap("level 1", base)
	level2 := Wrap("level 2", level1)

	require.True(t, errors.Is(level2, base))

	var be *Error
	require.True(t, errors.As(level2, &be))
	require.Equal(t, "level 2", be.Context)

	inner := errors.Unwrap(level2)
	require.True(t, errors.As(inner, &be))
	require.Equal(t, "level 1", be.Context)
}
