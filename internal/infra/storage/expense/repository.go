package expense

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberShop/pkg/psqlbuilder"
)

const table = "expenses"

// Repository репозиторий расходов (журнал только на добавление)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расходов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create добавляет запись о расходе
func (r *Repository) Create(ctx context.Context, expense *domain.Expense) (*domain.Expense, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("title", "amount", "expense_date").
		Values(expense.Title, expense.Amount.String(), expense.Date.Format(domain.DateFormat)).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&expense.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	expense.CreatedAt = createdAt.Time

	return expense, nil
}

// List возвращает расходы в диапазоне дат (границы включительно, nil - без ограничения)
func (r *Repository) List(ctx context.Context, from, to *time.Time) ([]*domain.Expense, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := applyRange(
		psqlbuilder.Select("id", "title", "amount", "expense_date", "created_at").From(table),
		from, to,
	).OrderBy("expense_date DESC", "id DESC")

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: List - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: List - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	expenses := make([]*domain.Expense, 0)
	for rows.Next() {
		var e domain.Expense
		var createdAt sql.NullTime
		if err := rows.Scan(&e.ID, &e.Title, &e.Amount, &e.Date, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: List - scan row: %v", ErrScanRow, err)
		}
		e.CreatedAt = createdAt.Time
		expenses = append(expenses, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: List - rows error: %v", ErrScanRow, err)
	}

	return expenses, nil
}

// Sum возвращает сумму расходов в диапазоне дат
func (r *Repository) Sum(ctx context.Context, from, to *time.Time) (decimal.Decimal, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := applyRange(
		psqlbuilder.Select("COALESCE(SUM(amount), 0)").From(table),
		from, to,
	).ToSql()

	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: Sum - build select query: %v", ErrBuildQuery, err)
	}

	var total decimal.Decimal
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("%w: Sum - scan total: %v", ErrScanRow, err)
	}

	return total, nil
}

func applyRange(b squirrel.SelectBuilder, from, to *time.Time) squirrel.SelectBuilder {
	if from != nil {
		b = b.Where(squirrel.GtOrEq{"expense_date": from.Format(domain.DateFormat)})
	}
	if to != nil {
		b = b.Where(squirrel.LtOrEq{"expense_date": to.Format(domain.DateFormat)})
	}
	return b
}
