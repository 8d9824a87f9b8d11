package set_day_shifts

import (
	"context"

	"github.com/m04kA/SMC-BarberShop/internal/service/shifts/models"
)

type ShiftService interface {
	SetDay(ctx context.Context, req *models.SetDayRequest) (*models.DayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
