package get_day_shifts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/service/shifts/models"
)

type ShiftService interface {
	GetDay(ctx context.Context, date time.Time) (*models.DayResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
