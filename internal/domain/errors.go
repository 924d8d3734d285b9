package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrUnauthorized = &AppError{
		Code:       "UNAUTHORIZED",
		Message:    "Invalid or missing operator token",
		StatusCode: 401,
	}

	ErrForbidden = &AppError{
		Code:       "FORBIDDEN",
		Message:    "Operator role does not allow this action",
		StatusCode: 403,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the frame",
		StatusCode: 422,
	}

	ErrInvalidTolerance = &AppError{
		Code:       "INVALID_TOLERANCE",
		Message:    "Match tolerance must be between 0 and 1",
		StatusCode: 422,
	}

	ErrInvalidPriority = &AppError{
		Code:       "INVALID_PRIORITY",
		Message:    "Priority must be ALTA, MEDIA or BAJA",
		StatusCode: 422,
	}

	ErrInvalidState = &AppError{
		Code:       "INVALID_STATE",
		Message:    "State must be REVISADA or FALSO_POSITIVO",
		StatusCode: 422,
	}

	ErrInvalidChannel = &AppError{
		Code:       "INVALID_CHANNEL",
		Message:    "Unknown delivery channel",
		StatusCode: 422,
	}

	ErrIdentityExists = &AppError{
		Code:       "IDENTITY_EXISTS",
		Message:    "Watchlist identity already registered",
		StatusCode: 409,
	}

	ErrIdentityNotFound = &AppError{
		Code:       "IDENTITY_NOT_FOUND",
		Message:    "Watchlist identity not found",
		StatusCode: 404,
	}

	ErrAlertNotFound = &AppError{
		Code:       "ALERT_NOT_FOUND",
		Message:    "Alert not found",
		StatusCode: 404,
	}

	// ErrAlertAlreadyClosed enforces the terminal-state policy: a second
	// transition is rejected, not ignored.
	ErrAlertAlreadyClosed = &AppError{
		Code:       "ALERT_ALREADY_CLOSED",
		Message:    "Alert is already in a terminal state",
		StatusCode: 409,
	}

	ErrNotificationNotFound = &AppError{
		Code:       "NOTIFICATION_NOT_FOUND",
		Message:    "Notification not found in the dispatcher logs",
		StatusCode: 404,
	}

	// ErrQueueFull is the capacity signal of the notification queue.
	// Enqueue never blocks and never drops silently.
	ErrQueueFull = &AppError{
		Code:       "QUEUE_FULL",
		Message:    "Notification queue is at capacity",
		StatusCode: 429,
	}

	// ErrPersistence is surfaced to the caller of a frame submission for
	// the one face whose alert could not be stored.
	ErrPersistence = &AppError{
		Code:       "PERSISTENCE_FAILED",
		Message:    "Alert could not be persisted",
		StatusCode: 502,
	}

	// ErrDelivery is recorded in the dispatcher error log; it never
	// propagates out of the worker loop.
	ErrDelivery = &AppError{
		Code:       "DELIVERY_FAILED",
		Message:    "Notification delivery failed",
		StatusCode: 502,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Frame submission rate limit exceeded for this camera",
		StatusCode: 429,
	}
)
