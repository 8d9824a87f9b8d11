package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/pkg/dbmetrics"
	"github.com/m04kA/SMC-BarberShop/pkg/psqlbuilder"
)

const (
	table = "business_settings"

	// singletonID единственная строка настроек, создаётся миграцией
	singletonID = 1
)

var columns = []string{
	"slot_duration_minutes",
	"price_per_cut",
	"cancellation_cutoff_minutes",
	"booking_horizon_days",
	"currency",
	"updated_at",
}

// Repository репозиторий настроек барбершопа
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория настроек
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get возвращает текущие настройки
func (r *Repository) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(columns...).
		From(table).
		Where(squirrel.Eq{"id": singletonID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	settings, err := scanSettings(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan settings: %v", ErrScanRow, err)
	}

	return settings, nil
}

// Update применяет к строке настроек только заданные поля patch
func (r *Repository) Update(ctx context.Context, patch domain.SettingsPatch) (*domain.BusinessSettings, error) {
	if patch.IsEmpty() {
		return r.Get(ctx)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update(table).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": singletonID})

	if patch.SlotDurationMinutes != nil {
		updateBuilder = updateBuilder.Set("slot_duration_minutes", *patch.SlotDurationMinutes)
	}
	if patch.PricePerCut != nil {
		updateBuilder = updateBuilder.Set("price_per_cut", patch.PricePerCut.String())
	}
	if patch.CancellationCutoffMinutes != nil {
		updateBuilder = updateBuilder.Set("cancellation_cutoff_minutes", *patch.CancellationCutoffMinutes)
	}
	if patch.BookingHorizonDays != nil {
		updateBuilder = updateBuilder.Set("booking_horizon_days", *patch.BookingHorizonDays)
	}
	if patch.Currency != nil {
		updateBuilder = updateBuilder.Set("currency", *patch.Currency)
	}

	query, args, err := updateBuilder.
		Suffix("RETURNING slot_duration_minutes, price_per_cut, cancellation_cutoff_minutes, booking_horizon_days, currency, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	settings, err := scanSettings(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %v", ErrExecQuery, err)
	}

	return settings, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSettings(row rowScanner) (*domain.BusinessSettings, error) {
	var s domain.BusinessSettings
	var price decimal.Decimal
	var updatedAt sql.NullTime

	err := row.Scan(
		&s.SlotDurationMinutes,
		&price,
		&s.CancellationCutoffMinutes,
		&s.BookingHorizonDays,
		&s.Currency,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	s.PricePerCut = price
	s.UpdatedAt = updatedAt.Time

	return &s, nil
}
