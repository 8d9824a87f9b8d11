package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BusinessSettings is the shop-wide configuration aggregate
type BusinessSettings struct {
	SlotDurationMinutes       int
	PricePerCut               decimal.Decimal
	CancellationCutoffMinutes int
	BookingHorizonDays        int
	Currency                  string
	UpdatedAt                 time.Time
}

// DefaultSettings returns the settings used before the admin saves any
func DefaultSettings() *BusinessSettings {
	return &BusinessSettings{
		SlotDurationMinutes:       DefaultSlotDurationMinutes,
		PricePerCut:               decimal.RequireFromString(DefaultPricePerCut),
		CancellationCutoffMinutes: DefaultCancellationCutoffMinutes,
		BookingHorizonDays:        DefaultBookingHorizonDays,
		Currency:                  DefaultCurrency,
	}
}

// CancellationCutoff returns the customer cancellation cutoff as a duration
func (s *BusinessSettings) CancellationCutoff() time.Duration {
	return time.Duration(s.CancellationCutoffMinutes) * time.Minute
}

// SlotDuration returns the slot duration as a duration
func (s *BusinessSettings) SlotDuration() time.Duration {
	return time.Duration(s.SlotDurationMinutes) * time.Minute
}

// SettingsPatch is a field-level update: nil fields are left untouched
type SettingsPatch struct {
	SlotDurationMinutes       *int
	PricePerCut               *decimal.Decimal
	CancellationCutoffMinutes *int
	BookingHorizonDays        *int
	Currency                  *string
}

// IsEmpty returns true if the patch changes nothing
func (p *SettingsPatch) IsEmpty() bool {
	return p.SlotDurationMinutes == nil &&
		p.PricePerCut == nil &&
		p.CancellationCutoffMinutes == nil &&
		p.BookingHorizonDays == nil &&
		p.Currency == nil
}

// ApplyTo merges the patch into settings
func (p *SettingsPatch) ApplyTo(s *BusinessSettings) {
	if p.SlotDurationMinutes != nil {
		s.SlotDurationMinutes = *p.SlotDurationMinutes
	}
	if p.PricePerCut != nil {
		s.PricePerCut = *p.PricePerCut
	}
	if p.CancellationCutoffMinutes != nil {
		s.CancellationCutoffMinutes = *p.CancellationCutoffMinutes
	}
	if p.BookingHorizonDays != nil {
		s.BookingHorizonDays = *p.BookingHorizonDays
	}
	if p.Currency != nil {
		s.Currency = *p.Currency
	}
}
