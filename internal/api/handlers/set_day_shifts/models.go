package set_day_shifts

import (
	addShift "github.com/m04kA/SMC-BarberShop/internal/api/handlers/add_shift"
	"github.com/m04kA/SMC-BarberShop/internal/service/shifts/models"
)

// SetDayRequest HTTP request model; пустой список закрывает день
type SetDayRequest struct {
	Shifts []addShift.ShiftWindowRequest `json:"shifts" validate:"dive"`
}

// ToWindowInputs конвертирует смены запроса в модели сервиса
func (r *SetDayRequest) ToWindowInputs() ([]models.WindowInput, error) {
	out := make([]models.WindowInput, 0, len(r.Shifts))
	for _, s := range r.Shifts {
		in, err := s.ToWindowInput()
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, nil
}

// UncoveredResponse детали отказа: бронирования, которые остались бы без смены
type UncoveredResponse struct {
	BookingIDs []int64 `json:"bookingIds"`
}
