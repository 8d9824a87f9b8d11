package waitlist

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

const table = "waitlist_requests"

// Repository репозиторий листа ожидания
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория листа ожидания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create сохраняет заявку в лист ожидания
func (r *Repository) Create(ctx context.Context, req *domain.WaitlistRequest) (*domain.WaitlistRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert(table).
		Columns("request_date", "name", "phone", "customer_id").
		Values(req.Date.Format(domain.DateFormat), req.Name, req.Phone, req.CustomerID).
		Suffix("RETURNING id, created_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&req.ID, &createdAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}
	req.CreatedAt = createdAt.Time

	return req, nil
}

// ListByDate возвращает заявки на дату в порядке поступления
func (r *Repository) ListByDate(ctx context.Context, date time.Time) ([]*domain.WaitlistRequest, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "request_date", "name", "phone", "customer_id", "created_at").
		From(table).
		Where(squirrel.Eq{"request_date": date.Format(domain.DateFormat)}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	requests := make([]*domain.WaitlistRequest, 0)
	for rows.Next() {
		var req domain.WaitlistRequest
		var customerID sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&req.ID, &req.Date, &req.Name, &req.Phone, &customerID, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: ListByDate - scan row: %v", ErrScanRow, err)
		}
		if customerID.Valid {
			req.CustomerID = &customerID.String
		}
		req.CreatedAt = createdAt.Time
		requests = append(requests, &req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByDate - rows error: %v", ErrScanRow, err)
	}

	return requests, nil
}
