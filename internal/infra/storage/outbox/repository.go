package outbox

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberShop/pkg/psqlbuilder"
)

const table = "notification_outbox"

var columns = []string{
	"id",
	"message_id",
	"kind",
	"payload",
	"status",
	"attempts",
	"next_attempt_at",
	"last_error",
	"created_at",
	"sent_at",
}

// Repository репозиторий исходящих уведомлений (transactional outbox)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория outbox
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Enqueue сохраняет сообщения со статусом pending
// Вызывается в той же транзакции, что и изменение, породившее уведомление
func (r *Repository) Enqueue(ctx context.Context, messages ...*domain.OutboxMessage) error {
	if len(messages) == 0 {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	insertBuilder := psqlbuilder.Insert(table).
		Columns("message_id", "kind", "payload", "status")

	for _, m := range messages {
		insertBuilder = insertBuilder.Values(m.MessageID, m.Kind, string(m.Payload), domain.OutboxPending)
	}

	query, args, err := insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: Enqueue - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Enqueue - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// FetchPending выбирает до limit сообщений, готовых к отправке
// Внутри транзакции строки блокируются с SKIP LOCKED, чтобы несколько релеев не отправили одно сообщение
func (r *Repository) FetchPending(ctx context.Context, now time.Time, limit uint64) ([]*domain.OutboxMessage, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"status": domain.OutboxPending}).
		Where(squirrel.LtOrEq{"next_attempt_at": now}).
		OrderBy("id ASC").
		Limit(limit)

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE SKIP LOCKED")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: FetchPending - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	messages := make([]*domain.OutboxMessage, 0)
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: FetchPending - scan row: %v", ErrScanRow, err)
		}
		messages = append(messages, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: FetchPending - rows error: %v", ErrScanRow, err)
	}

	return messages, nil
}

// MarkSent помечает сообщение отправленным
func (r *Repository) MarkSent(ctx context.Context, id int64, sentAt time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update(table).
		Set("status", domain.OutboxSent).
		Set("sent_at", sentAt).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", nil).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: MarkSent - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "MarkSent", query, args)
}

// MarkFailed фиксирует неудачную попытку
// Если nextAttempt задан, сообщение остаётся pending до этого момента, иначе переходит в failed
func (r *Repository) MarkFailed(ctx context.Context, id int64, errText string, nextAttempt *time.Time) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("attempts", squirrel.Expr("attempts + 1")).
		Set("last_error", errText).
		Where(squirrel.Eq{"id": id})

	if nextAttempt != nil {
		updateBuilder = updateBuilder.Set("next_attempt_at", *nextAttempt)
	} else {
		updateBuilder = updateBuilder.Set("status", domain.OutboxFailed)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: MarkFailed - build update query: %v", ErrBuildQuery, err)
	}

	return r.execOne(ctx, executor, "MarkFailed", query, args)
}

func (r *Repository) execOne(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) error {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}
	if rowsAffected == 0 {
		return ErrMessageNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMessage(row rowScanner) (*domain.OutboxMessage, error) {
	var m domain.OutboxMessage
	var payload []byte
	var lastError sql.NullString
	var nextAttemptAt, createdAt, sentAt sql.NullTime

	err := row.Scan(
		&m.ID,
		&m.MessageID,
		&m.Kind,
		&payload,
		&m.Status,
		&m.Attempts,
		&nextAttemptAt,
		&lastError,
		&createdAt,
		&sentAt,
	)
	if err != nil {
		return nil, err
	}

	m.Payload = payload
	m.NextAttemptAt = nextAttemptAt.Time
	m.CreatedAt = createdAt.Time
	if lastError.Valid {
		m.LastError = &lastError.String
	}
	if sentAt.Valid {
		m.SentAt = &sentAt.Time
	}

	return &m, nil
}
