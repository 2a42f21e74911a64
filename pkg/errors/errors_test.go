package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeNotFound, "zone not found")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Message != "zone not found" {
		t.Errorf("expected message 'zone not found', got %s", err.Message)
	}
	if err.Cause != nil {
		t.Errorf("expected nil cause, got %v", err.Cause)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeIO, "read failed", cause)

	if err.Code != ErrCodeIO {
		t.Errorf("expected code %s, got %s", ErrCodeIO, err.Code)
	}
	if !errors.Is(err, cause) {
		t.Errorf("expected cause to be wrapped")
	}
}

func TestWrapWithContext(t *testing.T) {
	cause := errors.New("denied")
	ctx := map[string]any{
		"path": "/sys/class/powercap/intel-rapl/intel-rapl:0/energy_uj",
	}

	err := WrapWithContext(ErrCodePermission, "open failed", cause, ctx)

	if err.Code != ErrCodePermission {
		t.Errorf("expected code %s, got %s", ErrCodePermission, err.Code)
	}
	if err.Context == nil {
		t.Fatal("expected context to be set")
	}
	if err.Context["path"] != ctx["path"] {
		t.Errorf("expected path context to be preserved")
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name     string
		err      *StructuredError
		expected string
	}{
		{
			name:     "error without cause",
			err:      New(ErrCodeNotSupported, "not supported"),
			expected: "[NOT_SUPPORTED] not supported",
		},
		{
			name:     "error with cause",
			err:      Wrap(ErrCodeIO, "failed", errors.New("root cause")),
			expected: "[IO] failed: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			if got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		cause error
		want  ErrorCode
	}{
		{name: "nil", cause: nil, want: ""},
		{name: "enoent", cause: syscall.ENOENT, want: ErrCodeNotFound},
		{name: "fs not exist", cause: fs.ErrNotExist, want: ErrCodeNotFound},
		{name: "eacces", cause: syscall.EACCES, want: ErrCodePermission},
		{name: "eperm", cause: syscall.EPERM, want: ErrCodePermission},
		{name: "eio", cause: syscall.EIO, want: ErrCodeIO},
		{name: "wrapped path error", cause: &fs.PathError{Op: "open", Path: "x", Err: syscall.EACCES}, want: ErrCodePermission},
		{name: "structured keeps code", cause: fmt.Errorf("outer: %w", New(ErrCodeInvalidArgument, "bad")), want: ErrCodeInvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.cause); got != tt.want {
				t.Errorf("Classify() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWrapSyscall(t *testing.T) {
	err := WrapSyscall("open", syscall.EACCES, nil)
	if err.Code != ErrCodePermission {
		t.Errorf("expected %s, got %s", ErrCodePermission, err.Code)
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("expected errors.Is(err, fs.ErrPermission) to hold")
	}
}

func TestCodeOf(t *testing.T) {
	inner := New(ErrCodeNotSupported, "absent")
	wrapped := fmt.Errorf("get energy: %w", inner)

	if got := CodeOf(wrapped); got != ErrCodeNotSupported {
		t.Errorf("CodeOf() = %q, want %q", got, ErrCodeNotSupported)
	}
	if got := CodeOf(errors.New("plain")); got != "" {
		t.Errorf("CodeOf(plain) = %q, want empty", got)
	}
	if !IsCode(wrapped, ErrCodeNotSupported) {
		t.Error("IsCode should match wrapped code")
	}
	if IsCode(nil, ErrCodeNotSupported) {
		t.Error("IsCode(nil) should be false")
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := Wrap(ErrCodeInternal, "wrapped", cause)

	unwrapped := err.Unwrap()
	if !errors.Is(unwrapped, cause) {
		t.Errorf("expected unwrapped error to be original cause")
	}
}

func TestErrorCodes(t *testing.T) {
	codes := []ErrorCode{
		ErrCodeNotFound,
		ErrCodeNotSupported,
		ErrCodePermission,
		ErrCodeInvalidArgument,
		ErrCodeIO,
		ErrCodeInternal,
		ErrCodeUnavailable,
		ErrCodeMethodNotAllowed,
		ErrCodeRateLimitExceeded,
		ErrCodeTimeout,
	}

	for _, code := range codes {
		if string(code) == "" {
			t.Errorf("error code should not be empty: %v", code)
		}
	}
}
