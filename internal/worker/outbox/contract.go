package outbox

import (
	"context"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// Store интерфейс хранилища исходящих уведомлений
type Store interface {
	FetchPending(ctx context.Context, now time.Time, limit uint64) ([]*domain.OutboxMessage, error)
	MarkSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkFailed(ctx context.Context, id int64, errText string, nextAttempt *time.Time) error
}

// Publisher интерфейс доставки сообщения в брокер
type Publisher interface {
	Publish(ctx context.Context, m *domain.OutboxMessage) error
}

// TxManager интерфейс для управления транзакциями
type TxManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// MetricsRecorder интерфейс для учёта отправленных уведомлений
type MetricsRecorder interface {
	RecordNotification(kind, result string)
}

// TimeProvider интерфейс для получения текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
