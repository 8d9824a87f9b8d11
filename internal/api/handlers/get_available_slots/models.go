package get_available_slots

import (
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-BarberShop/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
// state: closed - смен нет; fully_booked - смены есть, свободных слотов нет; available
type AvailableSlotsResponse struct {
	Date                string   `json:"date"`
	State               string   `json:"state"`
	Regular             []string `json:"regular"`
	Reserved            []string `json:"reserved"`
	SlotDurationMinutes int      `json:"slotDurationMinutes"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	out := &AvailableSlotsResponse{
		Date:                resp.Date.Format(domain.DateFormat),
		State:               string(resp.State),
		Regular:             make([]string, 0, len(resp.Regular)),
		Reserved:            make([]string, 0, len(resp.Reserved)),
		SlotDurationMinutes: resp.SlotDurationMinutes,
	}
	for _, slot := range resp.Regular {
		out.Regular = append(out.Regular, slot.String())
	}
	for _, slot := range resp.Reserved {
		out.Reserved = append(out.Reserved, slot.String())
	}
	return out
}
