package domain

import (
	"time"

	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// DayState distinguishes a closed day from an open day with no free slots
type DayState string

const (
	DayClosed      DayState = "closed"
	DayFullyBooked DayState = "fully_booked"
	DayAvailable   DayState = "available"
)

// DaySlots is the set of bookable slots of one day, split by lane
type DaySlots struct {
	Date     time.Time
	State    DayState
	Regular  []types.TimeString
	Reserved []types.TimeString
}

// IsClosed returns true if the day has no shift windows
func (d *DaySlots) IsClosed() bool {
	return d.State == DayClosed
}

// IsFullyBooked returns true if the day is open but nothing is left to book
func (d *DaySlots) IsFullyBooked() bool {
	return d.State == DayFullyBooked
}

// Total returns the number of bookable slots in both lanes
func (d *DaySlots) Total() int {
	return len(d.Regular) + len(d.Reserved)
}

// Bucket returns the slots of one lane
func (d *DaySlots) Bucket(category SlotCategory) []types.TimeString {
	if category == CategoryReserved {
		return d.Reserved
	}
	return d.Regular
}
