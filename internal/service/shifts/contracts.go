package shifts

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	GetByDate(ctx context.Context, date time.Time) ([]*domain.ShiftWindow, error)
	ListOpenDates(ctx context.Context, from, to time.Time) ([]time.Time, error)
	Create(ctx context.Context, w *domain.ShiftWindow) (*domain.ShiftWindow, error)
	ReplaceDay(ctx context.Context, date time.Time, windows []*domain.ShiftWindow) ([]*domain.ShiftWindow, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByDate(ctx context.Context, date time.Time, includeCanceled bool) ([]*domain.Booking, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
