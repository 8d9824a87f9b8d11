package outbox

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

const (
	resultSent    = "sent"
	resultRetry   = "retry"
	resultDropped = "dropped"
)

// Config параметры релея
type Config struct {
	Interval      time.Duration
	BatchSize     uint64
	RatePerSecond float64
	MaxAttempts   int
	RetryBackoff  time.Duration
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

// Now возвращает текущее время
func (RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Relay переносит сообщения из outbox в брокер
// Строки забираются через FOR UPDATE SKIP LOCKED, поэтому релей может работать в нескольких экземплярах
type Relay struct {
	cfg       Config
	store     Store
	publisher Publisher
	txManager TxManager
	limiter   *rate.Limiter
	metrics   MetricsRecorder
	clock     TimeProvider
	log       Logger
}

// NewRelay создает новый экземпляр Relay
func NewRelay(
	cfg Config,
	store Store,
	publisher Publisher,
	txManager TxManager,
	metrics MetricsRecorder,
	clock TimeProvider,
	log Logger,
) *Relay {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 2 * time.Second
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}

	return &Relay{
		cfg:       cfg,
		store:     store,
		publisher: publisher,
		txManager: txManager,
		limiter:   rate.NewLimiter(limit, 1),
		metrics:   metrics,
		clock:     clock,
		log:       log,
	}
}

// Run обрабатывает outbox по тикеру до отмены контекста
func (r *Relay) Run(ctx context.Context) {
	r.log.Info("OutboxRelay: started, interval=%s, batch=%d", r.cfg.Interval, r.cfg.BatchSize)

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info("OutboxRelay: stopped")
			return
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil && ctx.Err() == nil {
				r.log.Error("OutboxRelay: process batch: %v", err)
			}
		}
	}
}

// ProcessBatch отправляет одну пачку готовых сообщений и возвращает число успешно отправленных
//
// Публикация происходит внутри транзакции пачки: если отметка MarkSent/MarkFailed
// или ожидание лимитера падает, отметки откатываются и уже опубликованные сообщения
// уйдут повторно на следующем тике. Доставка at-least-once, потребитель отбрасывает
// дубликаты по MessageID. Метрики пишутся только после коммита.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	var outcomes []outcome

	err := r.txManager.Do(ctx, func(ctx context.Context) error {
		outcomes = outcomes[:0]

		messages, err := r.store.FetchPending(ctx, r.clock.Now(), r.cfg.BatchSize)
		if err != nil {
			return fmt.Errorf("fetch pending: %w", err)
		}

		for _, m := range messages {
			if err := r.limiter.Wait(ctx); err != nil {
				return err
			}

			pubErr := r.publisher.Publish(ctx, m)
			if pubErr == nil {
				if err := r.store.MarkSent(ctx, m.ID, r.clock.Now()); err != nil {
					return fmt.Errorf("mark sent id=%d: %w", m.ID, err)
				}
				outcomes = append(outcomes, outcome{kind: string(m.Kind), result: resultSent})
				continue
			}

			var next *time.Time
			result := resultDropped
			if m.Attempts+1 < r.cfg.MaxAttempts {
				at := r.clock.Now().Add(r.backoff(m.Attempts))
				next = &at
				result = resultRetry
			}

			r.log.Warn("OutboxRelay: publish failed, id=%d, kind=%s, attempt=%d, result=%s: %v",
				m.ID, m.Kind, m.Attempts+1, result, pubErr)

			if err := r.store.MarkFailed(ctx, m.ID, pubErr.Error(), next); err != nil {
				return fmt.Errorf("mark failed id=%d: %w", m.ID, err)
			}
			outcomes = append(outcomes, outcome{kind: string(m.Kind), result: result})
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, o := range outcomes {
		r.metrics.RecordNotification(o.kind, o.result)
		if o.result == resultSent {
			sent++
		}
	}
	return sent, nil
}

// outcome результат обработки одного сообщения в пачке
type outcome struct {
	kind   string
	result string
}

// backoff растёт линейно с номером попытки
func (r *Relay) backoff(attempts int) time.Duration {
	return r.cfg.RetryBackoff * time.Duration(attempts+1)
}
