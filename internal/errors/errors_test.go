// Package apperrors provides tests for application error types.
package apperrors

import (
	"context"
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "invalid flag value"},
			expected: "invalid flag value",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("invalid value %d for flag %s", 42, "--pool-size"),
			expected: "invalid value 42 for flag --pool-size",
		},
		{
			name:        "ConfigError type assertion",
			err:         NewConfigError("test error"),
			expected:    "test error",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestPreconditionError(t *testing.T) {
	t.Parallel()

	err := NewPreconditionError("Ctx.End", "End without matching Start")
	expected := `precondition violated in Ctx.End: End without matching Start`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	var precondErr PreconditionError
	if !errors.As(err, &precondErr) {
		t.Fatal("expected error to be PreconditionError type")
	}
	if precondErr.Op != "Ctx.End" {
		t.Errorf("Op = %q, want %q", precondErr.Op, "Ctx.End")
	}
}

func TestSelfTestError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		cause       error
		section     string
		expectedMsg string
		checkIs     error
		checkUnwrap bool
	}{
		{
			name:        "Error names section and cause",
			cause:       errors.New("bit 63 not set after SetBit"),
			section:     "bit-operations",
			expectedMsg: `self-test section "bit-operations" failed: bit 63 not set after SetBit`,
		},
		{
			name:        "Unwrap returns cause",
			cause:       errors.New("original error"),
			section:     "nesting",
			expectedMsg: `self-test section "nesting" failed: original error`,
			checkUnwrap: true,
		},
		{
			name:        "errors.Is works with wrapped error",
			cause:       context.Canceled,
			section:     "pool-exhaustion",
			expectedMsg: `self-test section "pool-exhaustion" failed: context canceled`,
			checkIs:     context.Canceled,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := SelfTestError{Section: tt.section, Cause: tt.cause}

			if err.Error() != tt.expectedMsg {
				t.Errorf("expected %q, got %q", tt.expectedMsg, err.Error())
			}

			if tt.checkUnwrap && err.Unwrap() != tt.cause {
				t.Error("Unwrap should return the original cause")
			}

			if tt.checkIs != nil && !errors.Is(err, tt.checkIs) {
				t.Errorf("errors.Is should find %v in the chain", tt.checkIs)
			}
		})
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()

	t.Run("wraps with context", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("disk full")
		err := WrapError(cause, "writing state for trial %d", 3)
		if err.Error() != "writing state for trial 3: disk full" {
			t.Errorf("unexpected message %q", err.Error())
		}
		if !errors.Is(err, cause) {
			t.Error("wrapped error should match cause with errors.Is")
		}
	})

	t.Run("nil error returns nil", func(t *testing.T) {
		t.Parallel()
		if WrapError(nil, "context") != nil {
			t.Error("WrapError(nil, ...) should return nil")
		}
	})
}

func TestIsContextError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"canceled", context.Canceled, true},
		{"deadline exceeded", context.DeadlineExceeded, true},
		{"wrapped canceled", WrapError(context.Canceled, "trial"), true},
		{"other error", errors.New("boom"), false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := IsContextError(tt.err); got != tt.want {
				t.Errorf("IsContextError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}
