package common

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapError(t *testing.T) {
	tests := []struct {
		name            string
		originalError   error
		message         string
		expectedMessage string
	}{
		{
			name:            "wrap simple error",
			originalError:   errors.New("original error"),
			message:         "wrapper message",
			expectedMessage: "wrapper message: original error",
		},
		{
			name:            "empty wrapper message",
			originalError:   errors.New("original error"),
			message:         "",
			expectedMessage: ": original error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrappedError := WrapError(tt.originalError, tt.message)
			assert.Error(t, wrappedError)
			assert.Equal(t, tt.expectedMessage, wrappedError.Error())
		})
	}
}

func TestWrapErrorNilPassesThrough(t *testing.T) {
	assert.NoError(t, WrapError(nil, "context"))
	assert.NoError(t, WrapErrorf(nil, "context %d", 1))
}

func TestWrapErrorPreservesSentinel(t *testing.T) {
	wrapped := WrapError(ErrTimeout, "download wait")

	assert.ErrorIs(t, wrapped, ErrTimeout)
	assert.Equal(t, "download wait: operation timed out", wrapped.Error())
}

func TestWrapErrorf(t *testing.T) {
	wrapped := WrapErrorf(ErrNotFound, "model %s", "42")

	assert.ErrorIs(t, wrapped, ErrNotFound)
	assert.Equal(t, "model 42: not found", wrapped.Error())
}

func TestNewError(t *testing.T) {
	err := NewError("bad status %d from %s", 503, "server")
	assert.EqualError(t, err, "bad status 503 from server")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("pool_size", 99, "must be between 1 and 8")

	assert.Equal(t, "validation failed for field 'pool_size': must be between 1 and 8 (value: 99)", err.Error())
}
