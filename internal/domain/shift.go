package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// SlotCategory is the lane a shift window (and the slots carved from it) belongs to
type SlotCategory string

const (
	CategoryRegular  SlotCategory = "regular"
	CategoryReserved SlotCategory = "reserved"
)

// ParseSlotCategory validates a category string
func ParseSlotCategory(s string) (SlotCategory, error) {
	c := SlotCategory(s)
	if !c.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// IsValid returns true for a known category
func (c SlotCategory) IsValid() bool {
	return c == CategoryRegular || c == CategoryReserved
}

// ShiftWindow is an admin-defined working-hours interval on one calendar day
type ShiftWindow struct {
	ID        uuid.UUID
	Date      time.Time
	Start     types.TimeString
	End       types.TimeString
	Category  SlotCategory
	CreatedAt time.Time
}

// Validate checks time formats, category and start < end
func (w *ShiftWindow) Validate() error {
	if err := w.Start.Validate(); err != nil {
		return err
	}
	if err := w.End.Validate(); err != nil {
		return err
	}
	if !w.Category.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, w.Category)
	}
	if !w.Start.IsBefore(w.End) {
		return fmt.Errorf("%w: %s-%s", ErrInvalidShiftRange, w.Start, w.End)
	}
	return nil
}

// Contains reports start <= slot < end
func (w *ShiftWindow) Contains(slot types.TimeString) bool {
	return !slot.IsBefore(w.Start) && slot.IsBefore(w.End)
}

// SameRange reports whether both windows cover the same interval in the same lane
func (w *ShiftWindow) SameRange(other *ShiftWindow) bool {
	return w.Start == other.Start && w.End == other.End && w.Category == other.Category
}
