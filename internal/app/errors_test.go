package app

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOperationError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *OperationError
		expected string
	}{
		{"nil error", nil, ""},
		{"op only", &OperationError{Op: "save"}, "save"},
		{"op and target", &OperationError{Op: "open", Target: "/tmp/a.html"}, "open /tmp/a.html"},
		{"full chain", &OperationError{Op: "open", Target: "/tmp/a.html", Err: errors.New("io error")}, "open /tmp/a.html: io error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestOperationError_Unwrap(t *testing.T) {
	err := NewOperationError("save", "", ErrNoActiveDocument)
	assert.ErrorIs(t, err, ErrNoActiveDocument)

	var nilErr *OperationError
	assert.Nil(t, nilErr.Unwrap())
}

func TestInitError(t *testing.T) {
	cause := errors.New("bad plugin")
	err := &InitError{Component: "editor", Err: cause}

	assert.Equal(t, "failed to initialize editor: bad plugin", err.Error())
	assert.ErrorIs(t, err, ErrInitialization)
	assert.ErrorIs(t, err, cause)
}
