package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind     Kind
		expected string
	}{
		{KindUnknown, "unknown error"},
		{KindNotFound, "not found"},
		{KindInvalid, "invalid"},
		{KindIO, "I/O error"},
		{KindNetwork, "network error"},
		{KindConfig, "configuration error"},
		{KindTimeout, "timeout"},
		{KindStatus, "bad status"},
		{KindDecode, "decode error"},
		{KindCanceled, "canceled"},
		{KindClosed, "connection closed"},
		{Kind(999), "unknown error"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.expected {
				t.Errorf("Kind.String() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "with op and context",
			err:      &Error{Op: "test.Op", Context: "some context", Err: errors.New("underlying error")},
			expected: "test.Op: some context: underlying error",
		},
		{
			name:     "with op only",
			err:      &Error{Op: "test.Op", Err: errors.New("underlying error")},
			expected: "test.Op: underlying error",
		},
		{
			name:     "without op",
			err:      &Error{Err: errors.New("underlying error")},
			expected: "underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error.Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestE_ContextBecomesErrorWithoutUnderlying(t *testing.T) {
	err := E(Op("test.Op"), KindInvalid, "just a message")
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("E() returned %T, want *Error", err)
	}
	if e.Err == nil || e.Err.Error() != "just a message" {
		t.Errorf("E().Err = %v, want %q", e.Err, "just a message")
	}
	if e.Context != "" {
		t.Errorf("E().Context = %q, want empty", e.Context)
	}
}

func TestIsAndGetKind(t *testing.T) {
	err := E(Op("test.Op"), KindStatus, "bad")
	wrapped := fmt.Errorf("outer: %w", err)

	if !Is(wrapped, KindStatus) {
		t.Error("Is() should see through fmt wrapping")
	}
	if Is(wrapped, KindNetwork) {
		t.Error("Is() matched the wrong kind")
	}
	if GetKind(wrapped) != KindStatus {
		t.Errorf("GetKind() = %v, want %v", GetKind(wrapped), KindStatus)
	}
	if GetKind(errors.New("plain")) != KindUnknown {
		t.Error("GetKind() of a plain error should be KindUnknown")
	}
}

func TestBadStatus(t *testing.T) {
	err := BadStatus("/load_chats", 404, "not found")

	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("BadStatus returned %T", err)
	}
	if e.Kind != KindStatus {
		t.Errorf("Kind = %v, want %v", e.Kind, KindStatus)
	}
	if e.Status != 404 {
		t.Errorf("Status = %d, want 404", e.Status)
	}
}

func TestRequestFailed_ClassifiesContextErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"canceled", context.Canceled, KindCanceled},
		{"deadline", context.DeadlineExceeded, KindTimeout},
		{"other", errors.New("connection refused"), KindNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GetKind(RequestFailed("/send_message", fmt.Errorf("post: %w", tt.err)))
			if got != tt.want {
				t.Errorf("kind = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsCanceled(t *testing.T) {
	if !IsCanceled(context.Canceled) {
		t.Error("context.Canceled should be canceled")
	}
	if !IsCanceled(RequestFailed("/x", context.Canceled)) {
		t.Error("KindCanceled should be canceled")
	}
	if IsCanceled(DecodeFailed("/x", errors.New("bad json"))) {
		t.Error("decode failure should not be canceled")
	}
}
