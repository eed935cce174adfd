package model

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTaxRate applies when an experience is created without an explicit rate.
const DefaultTaxRate = 0.05

// TimeSlot is one bookable time within an experience. Available is the
// remaining inventory and never goes below zero or above Total.
type TimeSlot struct {
	ID        int    `json:"id" db:"id"`
	TimeLabel string `json:"time" db:"time_label"`
	Available int    `json:"available" db:"available"`
	Total     int    `json:"total" db:"total"`
}

// Experience is a bookable activity with per-time-slot inventory.
type Experience struct {
	ID           int          `json:"id" db:"id"`
	ExperienceID uuid.UUID    `json:"experience_id" db:"experience_id"`
	Title        string       `json:"title" db:"title"`
	Location     string       `json:"location" db:"location"`
	Description  string       `json:"description" db:"description"`
	ImageURL     string       `json:"image_url" db:"image_url"`
	Details      *string      `json:"details,omitempty" db:"details"`
	Price        float64      `json:"price" db:"price"`
	BasePrice    *float64     `json:"base_price,omitempty" db:"base_price"`
	TaxRate      float64      `json:"tax_rate" db:"tax_rate"`
	Dates        []string     `json:"dates" db:"dates"`
	TimeSlots    []TimeSlot   `json:"times" db:"-"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at" db:"updated_at"`
}

// EffectiveUnitPrice is the price a booking is charged at: the base price
// override when present, the listed price otherwise.
func (e *Experience) EffectiveUnitPrice() float64 {
	if e.BasePrice != nil {
		return *e.BasePrice
	}
	return e.Price
}

// FindTimeSlot returns the slot with the given label, or nil.
func (e *Experience) FindTimeSlot(timeLabel string) *TimeSlot {
	for i := range e.TimeSlots {
		if e.TimeSlots[i].TimeLabel == timeLabel {
			return &e.TimeSlots[i]
		}
	}
	return nil
}

// TimeSlotInput is a slot as supplied on create/update/bulk upload.
type TimeSlotInput struct {
	Time      string `json:"time" binding:"required"`
	Available int    `json:"available" binding:"min=0"`
}

// CreateExperienceRequest is the admin payload for a single catalog entry.
type CreateExperienceRequest struct {
	Title       string          `json:"title" binding:"required"`
	Location    string          `json:"location" binding:"required"`
	Description string          `json:"description" binding:"required"`
	ImageURL    string          `json:"image_url" binding:"required"`
	Details     *string         `json:"details"`
	Price       float64         `json:"price" binding:"min=0"`
	BasePrice   *float64        `json:"base_price"`
	TaxRate     *float64        `json:"tax_rate"`
	Dates       []string        `json:"dates"`
	Times       []TimeSlotInput `json:"times"`
}

// UpdateExperienceParams carries a partial update; nil fields are untouched.
// A non-nil Times replaces the slot set wholesale.
type UpdateExperienceParams struct {
	Title       *string
	Location    *string
	Description *string
	ImageURL    *string
	Details     *string
	Price       *float64
	BasePrice   *float64
	TaxRate     *float64
	Dates       *[]string
	Times       *[]TimeSlotInput
}
