package get_waitlist

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/service/waitlist/models"
)

type WaitlistService interface {
	List(ctx context.Context, session *domain.Session, date time.Time) (*models.WaitlistListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
