package database

import "errors"

var (
	// ErrValidation required booking fields are missing or the slot
	// selection is not valid.
	ErrValidation = errors.New("validation failed")

	// ErrSlotTaken the requested interval overlaps an existing booking.
	ErrSlotTaken = errors.New("time slot is already taken")

	// ErrPastDate the requested date is before today.
	ErrPastDate = errors.New("booking date is in the past")

	// ErrDateTooFar the requested date is beyond the guest forward window.
	ErrDateTooFar = errors.New("booking date is too far in the future")

	// ErrAuthFailed generic authentication failure. Deliberately does not
	// distinguish unknown user from wrong secret.
	ErrAuthFailed = errors.New("invalid username or password")

	// ErrNothingToDelete tail deletion was requested on an empty collection.
	ErrNothingToDelete = errors.New("nothing to delete")

	// ErrNotFound no record matches the given identifier.
	ErrNotFound = errors.New("record not found")

	// ErrForbidden the operation requires the administrator role.
	ErrForbidden = errors.New("administrator role required")
)
