package add_shift

import (
	"context"

	"github.com/m04kA/SMC-BarberShop/internal/service/shifts/models"
)

type ShiftService interface {
	AddShift(ctx context.Context, req *models.AddShiftRequest) (*models.ShiftResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
