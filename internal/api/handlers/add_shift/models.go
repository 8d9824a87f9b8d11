package add_shift

import (
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/service/shifts/models"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

// ShiftWindowRequest HTTP модель смены
type ShiftWindowRequest struct {
	Start    string `json:"start" validate:"required"` // "09:00"
	End      string `json:"end" validate:"required"`   // "13:00"
	Category string `json:"category" validate:"omitempty,oneof=regular reserved"`
}

// ToWindowInput конвертирует HTTP модель в модель сервиса
func (r ShiftWindowRequest) ToWindowInput() (models.WindowInput, error) {
	start, err := types.NewTimeStringFromString(r.Start)
	if err != nil {
		return models.WindowInput{}, err
	}
	end, err := types.NewTimeStringFromString(r.End)
	if err != nil {
		return models.WindowInput{}, err
	}
	return models.WindowInput{
		Start:    start,
		End:      end,
		Category: domain.SlotCategory(r.Category),
	}, nil
}
