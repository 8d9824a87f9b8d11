package update_settings

import (
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/service/settings/models"
)

// UpdateSettingsRequest HTTP request model
// Передаются только изменяемые поля
type UpdateSettingsRequest struct {
	SlotDurationMinutes       *int             `json:"slotDurationMinutes,omitempty"`
	PricePerCut               *decimal.Decimal `json:"pricePerCut,omitempty"`
	CancellationCutoffMinutes *int             `json:"cancellationCutoffMinutes,omitempty"`
	BookingHorizonDays        *int             `json:"bookingHorizonDays,omitempty"`
	Currency                  *string          `json:"currency,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateSettingsRequest) ToServiceRequest(session *domain.Session) *models.UpdateSettingsRequest {
	return &models.UpdateSettingsRequest{
		Session:                   session,
		SlotDurationMinutes:       r.SlotDurationMinutes,
		PricePerCut:               r.PricePerCut,
		CancellationCutoffMinutes: r.CancellationCutoffMinutes,
		BookingHorizonDays:        r.BookingHorizonDays,
		Currency:                  r.Currency,
	}
}
