package domain

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusUpcoming  BookingStatus = "upcoming"
	StatusCompleted BookingStatus = "completed"
	StatusCanceled  BookingStatus = "canceled"
)

// ParseBookingStatus validates a status string
func ParseBookingStatus(s string) (BookingStatus, error) {
	status := BookingStatus(s)
	if !status.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}

// IsValid returns true for a known status
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusUpcoming, StatusCompleted, StatusCanceled:
		return true
	}
	return false
}

// IsTerminal returns true for statuses that allow no further transitions
func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCanceled
}

// CheckTransition validates a status change.
// Returns changed=false for a same-state transition (no write needed).
// Any change out of a terminal status is rejected with ErrInvalidTransition.
func CheckTransition(from, to BookingStatus) (changed bool, err error) {
	if !to.IsValid() {
		return false, fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}
	if from == to {
		return false, nil
	}
	if from.IsTerminal() {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	if to == StatusUpcoming {
		return false, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return true, nil
}

// Booking represents one reserved appointment.
// The pair (Date, TimeSlot) is the natural key: at most one non-canceled
// booking exists per pair.
type Booking struct {
	ID            int64
	CustomerID    string
	CustomerName  string
	CustomerPhone string
	Date          time.Time
	TimeSlot      types.TimeString
	Category      SlotCategory
	Status        BookingStatus
	Notes         *string

	CancellationReason *string
	CanceledAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the booking still occupies its slot
func (b *Booking) IsActive() bool {
	return b.Status != StatusCanceled
}

// IsUpcoming returns true if the booking has not been completed or canceled
func (b *Booking) IsUpcoming() bool {
	return b.Status == StatusUpcoming
}

// IsOwnedBy returns true if the booking belongs to the customer
func (b *Booking) IsOwnedBy(customerID string) bool {
	return customerID != "" && b.CustomerID == customerID
}

// StartsAt returns the appointment instant in the business location.
// Date is read from the store as a calendar date, so only its Y/M/D are used.
func (b *Booking) StartsAt(loc *time.Location) time.Time {
	return b.TimeSlot.On(DateIn(b.Date, loc))
}

// CanCustomerCancel reports whether the owning customer may still cancel at now
func (b *Booking) CanCustomerCancel(now time.Time, cutoff time.Duration, loc *time.Location) bool {
	if !b.IsUpcoming() {
		return false
	}
	return b.StartsAt(loc).Add(-cutoff).After(now)
}

// DateIn returns midnight of t's calendar date in loc
func DateIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// BookingsFilter фильтр списка бронирований
type BookingsFilter struct {
	CustomerID      *string        // nil - все клиенты (только для администратора)
	StartDate       *time.Time     // Начало периода (включительно)
	EndDate         *time.Time     // Конец периода (включительно)
	Status          *BookingStatus // Фильтр по статусу
	IncludeCanceled bool           // Включать ли отменённые (если Status не задан)
}

// Today returns midnight of now's calendar date in the business location
func Today(now time.Time, loc *time.Location) time.Time {
	return DateIn(now.In(loc), loc)
}

// IsPastDate reports whether date is before today in loc
func IsPastDate(date, now time.Time, loc *time.Location) bool {
	return DateIn(date, loc).Before(Today(now, loc))
}

// IsBeyondHorizon reports whether date is more than horizonDays after today in loc
func IsBeyondHorizon(date, now time.Time, loc *time.Location, horizonDays int) bool {
	return DateIn(date, loc).After(Today(now, loc).AddDate(0, 0, horizonDays))
}
