package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "without wrapped error",
			err:  &AppError{Code: "QUEUE_FULL", Message: "Notification queue is at capacity"},
			want: "Notification queue is at capacity",
		},
		{
			name: "with wrapped error",
			err: &AppError{
				Code:    "PERSISTENCE_FAILED",
				Message: "Alert could not be persisted",
				Err:     errors.New("connection refused"),
			},
			want: "Alert could not be persisted: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := ErrPersistence.WithError(cause)

	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the wrapped cause")
	}
}

func TestAppError_WithError_DoesNotMutateOriginal(t *testing.T) {
	wrapped := ErrQueueFull.WithError(errors.New("boom"))

	if ErrQueueFull.Err != nil {
		t.Error("WithError must not mutate the predefined error")
	}
	if wrapped.Code != ErrQueueFull.Code || wrapped.StatusCode != ErrQueueFull.StatusCode {
		t.Error("WithError must preserve code and status")
	}
}

func TestAppError_AsTarget(t *testing.T) {
	var appErr *AppError
	err := fmt.Errorf("classify face: %w", ErrAlertAlreadyClosed)

	if !errors.As(err, &appErr) {
		t.Fatal("errors.As should unwrap to *AppError")
	}
	if appErr.StatusCode != 409 {
		t.Errorf("StatusCode = %d, want 409", appErr.StatusCode)
	}
}
