package shift

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/infra/storage/pgerr"
	"github.com/m04kA/SMC-BarberShop/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberShop/pkg/psqlbuilder"
)

const table = "shift_windows"

var columns = []string{"id", "work_date", "start_time", "end_time", "category", "created_at"}

// Repository репозиторий смен (окон рабочего времени по датам)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория смен
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByDate возвращает смены на дату, отсортированные по началу
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetByDate(ctx context.Context, date time.Time) ([]*domain.ShiftWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"work_date": date.Format(domain.DateFormat)}).
		OrderBy("start_time ASC", "end_time ASC", "category ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	windows := make([]*domain.ShiftWindow, 0)
	for rows.Next() {
		w, err := scanWindow(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: GetByDate - scan row: %v", ErrScanRow, err)
		}
		windows = append(windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetByDate - rows error: %v", ErrScanRow, err)
	}

	return windows, nil
}

// GetByID возвращает смену по идентификатору
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ShiftWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": id.String()})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	w, err := scanWindow(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrShiftNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan row: %v", ErrScanRow, err)
	}

	return w, nil
}

// ListOpenDates возвращает даты в диапазоне [from, to], на которые есть хотя бы одна смена
func (r *Repository) ListOpenDates(ctx context.Context, from, to time.Time) ([]time.Time, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("DISTINCT work_date").
		From(table).
		Where(squirrel.GtOrEq{"work_date": from.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"work_date": to.Format(domain.DateFormat)}).
		OrderBy("work_date ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenDates - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListOpenDates - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	dates := make([]time.Time, 0)
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("%w: ListOpenDates - scan row: %v", ErrScanRow, err)
		}
		dates = append(dates, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListOpenDates - rows error: %v", ErrScanRow, err)
	}

	return dates, nil
}

// Create добавляет смену; если ID пустой, генерируется новый UUID
func (r *Repository) Create(ctx context.Context, w *domain.ShiftWindow) (*domain.ShiftWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}

	query, args, err := psqlbuilder.Insert(table).
		Columns("id", "work_date", "start_time", "end_time", "category").
		Values(w.ID.String(), w.Date.Format(domain.DateFormat), w.Start, w.End, w.Category).
		Suffix("RETURNING created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt); err != nil {
		if _, ok := pgerr.IsUniqueViolation(err); ok {
			return nil, fmt.Errorf("%w: %s %s-%s %s", ErrDuplicateShift,
				w.Date.Format(domain.DateFormat), w.Start, w.End, w.Category)
		}
		return nil, classify("Create - execute insert", err)
	}
	w.CreatedAt = createdAt.Time

	return w, nil
}

// Delete удаляет смену по идентификатору
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"id": id.String()}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return ErrShiftNotFound
	}

	return nil
}

// ReplaceDay полностью заменяет список смен на дату
// Должен вызываться внутри транзакции, иначе замена не атомарна
func (r *Repository) ReplaceDay(ctx context.Context, date time.Time, windows []*domain.ShiftWindow) ([]*domain.ShiftWindow, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete(table).
		Where(squirrel.Eq{"work_date": date.Format(domain.DateFormat)}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ReplaceDay - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return nil, classify("ReplaceDay - execute delete", err)
	}

	created := make([]*domain.ShiftWindow, 0, len(windows))
	for _, w := range windows {
		w.Date = date
		saved, err := r.Create(ctx, w)
		if err != nil {
			return nil, err
		}
		created = append(created, saved)
	}

	return created, nil
}

// classify оборачивает ошибку драйвера, выделяя конфликт сериализации
func classify(op string, err error) error {
	if pgerr.IsSerializationFailure(err) {
		return fmt.Errorf("%w: %s: %v", ErrSerializationFailure, op, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrExecQuery, op, err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWindow(row rowScanner) (*domain.ShiftWindow, error) {
	var w domain.ShiftWindow
	var id string
	var createdAt sql.NullTime

	if err := row.Scan(&id, &w.Date, &w.Start, &w.End, &w.Category, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse shift id %q: %w", id, err)
	}
	w.ID = parsed
	w.CreatedAt = createdAt.Time

	return &w, nil
}
