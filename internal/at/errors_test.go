package at

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTokenMapping(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want error
	}{
		{"cme error", "+CME ERROR: 3", ErrCommunication},
		{"cms error", "+CMS ERROR: 500", ErrCommunication},
		{"bare error", "ERROR", ErrCommunication},
		{"timeout", "timeout waiting for final result", ErrCommunication},
		{"no carrier", "NO CARRIER", ErrCommunication},
		{"operation not allowed", "operation not allowed", ErrBadParameter},
		{"parameter invalid", "PARAMETER INVALID", ErrBadParameter},
		{"malformed line", "malformed line from device", ErrParse},
		{"unknown token degrades to communication", "flux capacitor drained", ErrCommunication},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Normalize("AT+CFUN?", errors.New(tt.msg))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNormalizeNil(t *testing.T) {
	assert.NoError(t, Normalize("AT", nil))
}

func TestNormalizePreservesAlreadyNormalized(t *testing.T) {
	wrapped := fmt.Errorf("%w: token 7 outside domain", ErrParse)
	err := Normalize("AT+QSTK?", wrapped)
	assert.Equal(t, wrapped, err, "already normalized errors pass through")

	err = Normalize("AT", ErrBadParameter)
	assert.ErrorIs(t, err, ErrBadParameter)
	var cmdErr *CommandError
	assert.False(t, errors.As(err, &cmdErr), "no double wrapping")
}

func TestCommandErrorPreservesDiagnostics(t *testing.T) {
	original := errors.New("+CME ERROR: 13")
	err := Normalize("AT+CFUN=4", original)

	var cmdErr *CommandError
	require.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, "AT+CFUN=4", cmdErr.Command)
	assert.Equal(t, original, cmdErr.Original)
	assert.ErrorIs(t, err, ErrCommunication)
	assert.Contains(t, err.Error(), "AT+CFUN=4")
	assert.Contains(t, err.Error(), "+CME ERROR: 13")
}

func TestNormalizeWithUnknownFamilyFallsBackToGeneric(t *testing.T) {
	err := NormalizeWithFamily("AT", errors.New("BAD PARAMETER"), "no-such-family")
	assert.ErrorIs(t, err, ErrBadParameter)
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable(ErrCommunication))
	assert.True(t, Retryable(ErrParse))
	assert.True(t, Retryable(fmt.Errorf("wrapped: %w", ErrCommunication)))
	assert.False(t, Retryable(ErrBadParameter))
	assert.False(t, Retryable(ErrResourceExhaustion))
	assert.False(t, Retryable(ErrSequence))
	assert.False(t, Retryable(errors.New("unclassified")))
}
