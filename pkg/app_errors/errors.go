package apperrors

import "errors"

var (
	ErrExperienceNotFound       = errors.New("experience not found")
	ErrTimeSlotNotFound         = errors.New("time slot not found")
	ErrBookingNotFound          = errors.New("booking not found")
	ErrInsufficientAvailability = errors.New("insufficient availability")
	ErrInvalidStatusTransition  = errors.New("invalid status transition")
	ErrInvalidInput             = errors.New("invalid input")
	ErrInternalServerError      = errors.New("internal server error")
)
