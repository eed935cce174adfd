package model

import (
	"time"

	"github.com/google/uuid"
)

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

// IsValid reports whether the status is one of the known values.
func (s BookingStatus) IsValid() bool {
	switch s {
	case BookingStatusConfirmed, BookingStatusCancelled, BookingStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo checks whether the target status is reachable from s.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	transitions := map[BookingStatus][]BookingStatus{
		BookingStatusConfirmed: {BookingStatusCancelled, BookingStatusCompleted},
		BookingStatusCancelled: {},
		BookingStatusCompleted: {},
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// CustomerInfo identifies who the booking was made for.
type CustomerInfo struct {
	FullName string `json:"full_name" db:"full_name"`
	Email    string `json:"email" db:"email"`
}

// Booking is one accepted purchase against a single time slot.
// ExperienceTitle is a snapshot taken at admission time and does not track
// later renames of the experience.
type Booking struct {
	ID              int           `json:"id" db:"id"`
	BookingID       uuid.UUID     `json:"booking_id" db:"booking_id"`
	ExperienceID    int           `json:"-" db:"experience_id"`
	ExperienceUUID  uuid.UUID     `json:"experience_id" db:"-"`
	ExperienceTitle string        `json:"experience_title" db:"experience_title"`
	DateLabel       string        `json:"date" db:"date_label"`
	TimeLabel       string        `json:"time" db:"time_label"`
	Quantity        int           `json:"quantity" db:"quantity"`
	Subtotal        float64       `json:"subtotal" db:"subtotal"`
	Taxes           float64       `json:"taxes" db:"taxes"`
	Total           float64       `json:"total" db:"total"`
	CustomerInfo    CustomerInfo  `json:"customer_info"`
	Status          BookingStatus `json:"status" db:"status"`
	CreatedAt       time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" db:"updated_at"`
}

// CustomerInfoRequest mirrors the customerInfo object of the booking payload.
type CustomerInfoRequest struct {
	FullName string `json:"fullName" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
}

// CreateBookingRequest is the booking admission payload. The request may carry
// client-computed subtotal/taxes/total for display continuity, but the stored
// amounts are always recomputed server-side from the experience's unit price
// and tax rate.
type CreateBookingRequest struct {
	ExperienceID uuid.UUID           `json:"experienceId" binding:"required"`
	Date         string              `json:"date" binding:"required"`
	Time         string              `json:"time" binding:"required"`
	Quantity     int                 `json:"quantity" binding:"required,min=1"`
	CustomerInfo CustomerInfoRequest `json:"customerInfo" binding:"required"`

	// ignored; kept so existing clients sending totals still bind cleanly
	Subtotal *float64 `json:"subtotal"`
	Taxes    *float64 `json:"taxes"`
	Total    *float64 `json:"total"`
}
