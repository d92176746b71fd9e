package domain

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindStoreFailure Kind = iota
	KindNotFound
	KindValidation
	KindConflict
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "store_failure"
	}
}

// Error is the error type returned by the app layer. Two Errors match under
// errors.Is when their Codes are equal, so callers can compare against the
// sentinels below even after a Message has been specialised.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// With returns a copy carrying a more specific message.
func (e *Error) With(format string, args ...any) *Error {
	c := *e
	c.Message = fmt.Sprintf(format, args...)
	return &c
}

func newErr(k Kind, code, msg string) *Error { return &Error{Kind: k, Code: code, Message: msg} }

var (
	ErrNotFound        = newErr(KindNotFound, "not_found", "not found")
	ErrHotelNotFound   = newErr(KindNotFound, "hotel_not_found", "hotel not found")
	ErrRoomNotFound    = newErr(KindNotFound, "room_not_found", "room not found")
	ErrBookingNotFound = newErr(KindNotFound, "booking_not_found", "booking not found")
	ErrUserNotFound    = newErr(KindNotFound, "user_not_found", "user not found")

	ErrValidation          = newErr(KindValidation, "validation_failed", "invalid input")
	ErrRoomDisabled        = newErr(KindValidation, "room_disabled", "room is not open for booking")
	ErrCapacityExceeded    = newErr(KindValidation, "capacity_exceeded", "guest count exceeds room capacity")
	ErrInvalidDateRange    = newErr(KindValidation, "invalid_date_range", "check-out must be after check-in and check-in cannot be in the past")
	ErrGuestDetailMismatch = newErr(KindValidation, "guest_detail_mismatch", "number of guest details must match number of guests")
	ErrMissingPrimaryGuest = newErr(KindValidation, "missing_primary_guest", "primary guest must be specified")

	ErrRoomNotAvailable = newErr(KindConflict, "room_not_available", "room is not available for the selected dates")
	ErrAlreadyCancelled = newErr(KindConflict, "booking_already_cancelled", "booking is already cancelled")
	ErrEmailTaken       = newErr(KindConflict, "email_taken", "email already exists")

	ErrUnauthorized             = newErr(KindUnauthorized, "unauthorized", "not allowed to act on this resource")
	ErrCancellationWindowPassed = newErr(KindUnauthorized, "cancellation_window_passed", "booking can no longer be cancelled")
	ErrInvalidCredentials       = newErr(KindUnauthorized, "invalid_credentials", "invalid email or password")
)

// StoreFailure wraps a persistence error. Callers on write paths should treat it
// as retryable.
func StoreFailure(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStoreFailure, Code: "store_failure", Message: "store unavailable", Err: err}
}

// KindOf classifies err; anything that is not a *Error counts as a store failure.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStoreFailure
}

// CodeOf returns the machine code of err, or "internal".
func CodeOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return "internal"
}
