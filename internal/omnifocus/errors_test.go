package omnifocus

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorRetryable(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want bool
	}{
		{KindValidation, false},
		{KindEncoding, false},
		{KindHostUnavailable, false},
		{KindTimeout, true},
		{KindHostScript, true},
		{KindNotFound, false},
		{KindParse, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			err := newError(tt.kind, "op", "boom")
			assert.Equal(t, tt.want, err.Retryable())
		})
	}
}

func TestErrorFormatting(t *testing.T) {
	err := newError(KindHostScript, "add_task", "host exited with code %d", 1)
	err.Detail = "Error: no such project"

	msg := err.Error()
	assert.Contains(t, msg, "add_task")
	assert.Contains(t, msg, "host_script_error")
	assert.Contains(t, msg, "host exited with code 1")
	assert.Contains(t, msg, "Error: no such project")
}

func TestKindOf(t *testing.T) {
	bridgeErr := newError(KindTimeout, "op", "slow host")

	assert.Equal(t, KindTimeout, KindOf(bridgeErr))
	assert.Equal(t, KindTimeout, KindOf(fmt.Errorf("wrapped: %w", bridgeErr)))
	assert.Equal(t, ErrorKind(""), KindOf(errors.New("plain")))
	assert.Equal(t, ErrorKind(""), KindOf(nil))

	assert.True(t, IsKind(bridgeErr, KindTimeout))
	assert.False(t, IsKind(bridgeErr, KindParse))
	assert.False(t, IsKind(nil, KindTimeout))
}

func TestErrorUnwrap(t *testing.T) {
	inner := errors.New("context deadline exceeded")
	err := newError(KindTimeout, "op", "host did not respond")
	err.Err = inner

	assert.ErrorIs(t, err, inner)
}
