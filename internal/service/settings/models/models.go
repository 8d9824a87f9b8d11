package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/ptr"
)

// UpdateSettingsRequest запрос на обновление настроек
// Все поля опциональны - обновляются только переданные значения
type UpdateSettingsRequest struct {
	Session                   *domain.Session
	SlotDurationMinutes       *int
	PricePerCut               *decimal.Decimal
	CancellationCutoffMinutes *int
	BookingHorizonDays        *int
	Currency                  *string
}

// ToDomainPatch конвертирует запрос в патч настроек
// Код валюты приводится к верхнему регистру
func (r *UpdateSettingsRequest) ToDomainPatch() domain.SettingsPatch {
	patch := domain.SettingsPatch{
		SlotDurationMinutes:       r.SlotDurationMinutes,
		PricePerCut:               r.PricePerCut,
		CancellationCutoffMinutes: r.CancellationCutoffMinutes,
		BookingHorizonDays:        r.BookingHorizonDays,
	}
	if r.Currency != nil {
		patch.Currency = ptr.Ptr(strings.ToUpper(strings.TrimSpace(*r.Currency)))
	}
	return patch
}

// SettingsResponse ответ с настройками барбершопа
type SettingsResponse struct {
	SlotDurationMinutes       int             `json:"slotDurationMinutes"`
	PricePerCut               decimal.Decimal `json:"pricePerCut"`
	CancellationCutoffMinutes int             `json:"cancellationCutoffMinutes"`
	BookingHorizonDays        int             `json:"bookingHorizonDays"`
	Currency                  string          `json:"currency"`
	UpdatedAt                 *time.Time      `json:"updatedAt,omitempty"` // nil - настройки по умолчанию
}

// FromDomainSettings конвертирует domain модель в DTO
func FromDomainSettings(s *domain.BusinessSettings) *SettingsResponse {
	resp := &SettingsResponse{
		SlotDurationMinutes:       s.SlotDurationMinutes,
		PricePerCut:               s.PricePerCut,
		CancellationCutoffMinutes: s.CancellationCutoffMinutes,
		BookingHorizonDays:        s.BookingHorizonDays,
		Currency:                  s.Currency,
	}
	if !s.UpdatedAt.IsZero() {
		resp.UpdatedAt = ptr.Ptr(s.UpdatedAt)
	}
	return resp
}
