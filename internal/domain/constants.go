package domain

// Default settings values
const (
	DefaultSlotDurationMinutes       = 30
	DefaultPricePerCut               = "45"
	DefaultCancellationCutoffMinutes = 120 // 2 hours
	DefaultBookingHorizonDays        = 14
	DefaultCurrency                  = "ILS"
)

// Business validation constants
const (
	MinSlotDurationMinutes       = 5
	MaxSlotDurationMinutes       = 480 // 8 hours
	MinCancellationCutoffMinutes = 0
	MaxCancellationCutoffMinutes = 10080 // 1 week
	MinBookingHorizonDays        = 1
	MaxBookingHorizonDays        = 365
	MaxNameLength                = 100
	MaxNotesLength               = 500
	MaxExpenseTitleLength        = 200
	MaxCancellationReasonLength  = 500
	MinPhoneDigits               = 9
	MaxPhoneDigits               = 15
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Cancellation reasons recorded on bookings
const (
	ReasonShiftRemoved       = "shift removed"
	ReasonCanceledByAdmin    = "canceled by admin"
	ReasonCanceledByCustomer = "canceled by customer"
)
