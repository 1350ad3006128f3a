package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for the booking workflow.
var (
	// Local validation: blocked before any network call.
	ErrMissingTime  = New("MISSING_TIME", http.StatusBadRequest, "start and end times are required")
	ErrInvalidOrder = New("INVALID_TIME_ORDER", http.StatusBadRequest, "end time must be after start time")
	ErrTooShort     = New("SLOT_TOO_SHORT", http.StatusBadRequest, "a slot must last at least 15 minutes")
	ErrValidation   = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")

	// Availability round trip.
	ErrSlotUnavailable = New("SLOT_UNAVAILABLE", http.StatusConflict, "slot unavailable")
	ErrCheckFailed     = New("AVAILABILITY_CHECK_FAILED", http.StatusBadGateway, "availability check failed")

	// Submission, mapped from backend HTTP statuses.
	ErrInvalidData    = New("INVALID_DATA", http.StatusBadRequest, "the backend rejected the submitted data")
	ErrSlotTaken      = New("SLOT_TAKEN", http.StatusConflict, "the slot was already taken")
	ErrSubmitFailed   = New("SUBMIT_FAILED", http.StatusBadGateway, "the backend could not save the booking")
	ErrSubmitInFlight = New("SUBMIT_IN_FLIGHT", http.StatusConflict, "a submission is already in progress")

	// Transport never reached the backend.
	ErrNetwork = New("NETWORK_ERROR", http.StatusBadGateway, "could not reach the school backend, check connectivity")

	ErrNotFound  = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrCacheMiss = New("CACHE_MISS", http.StatusNotFound, "cache miss")
	ErrInternal  = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
