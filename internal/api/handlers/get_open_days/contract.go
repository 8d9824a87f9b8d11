package get_open_days

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/service/shifts/models"
)

type ShiftService interface {
	OpenDays(ctx context.Context, from, to time.Time) (*models.OpenDaysResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
