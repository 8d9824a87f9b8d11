package remove_shift

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// ShiftRepository интерфейс репозитория смен
type ShiftRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ShiftWindow, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByDate(ctx context.Context, date time.Time, includeCanceled bool) ([]*domain.Booking, error)
	CancelMany(ctx context.Context, ids []int64, reason string) (int64, error)
}

// OutboxRepository интерфейс очереди исходящих уведомлений
type OutboxRepository interface {
	Enqueue(ctx context.Context, messages ...*domain.OutboxMessage) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс для учёта каскадных отмен
type MetricsRecorder interface {
	RecordCascadeCancellation(category string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
