package finance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	settingsRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/settings"
	"github.com/m04kA/SMC-BarberShop/internal/service/finance/models"
)

// Service финансовый агрегатор: доходы по завершённым записям и журнал расходов
type Service struct {
	bookingRepo  BookingRepository
	expenseRepo  ExpenseRepository
	settingsRepo SettingsRepository
	txManager    TransactionManager
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр финансового сервиса
func NewService(
	bookingRepo BookingRepository,
	expenseRepo ExpenseRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		expenseRepo:  expenseRepo,
		settingsRepo: settingsRepo,
		txManager:    txManager,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Summary считает доход, расходы и прибыль за период
// Доход = количество завершённых записей * текущая цена стрижки
func (s *Service) Summary(ctx context.Context, req *models.PeriodRequest) (*models.SummaryResponse, error) {
	from, to, err := s.checkPeriod(req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Summary: from=%s, to=%s", formatBound(from), formatBound(to))

	var summary domain.FinancialSummary

	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		settings, err := s.getSettings(txCtx)
		if err != nil {
			return err
		}

		completed := domain.StatusCompleted
		count, err := s.bookingRepo.Count(txCtx, domain.BookingsFilter{
			StartDate: from,
			EndDate:   to,
			Status:    &completed,
		})
		if err != nil {
			return fmt.Errorf("count completed bookings: %w", err)
		}

		expenses, err := s.expenseRepo.Sum(txCtx, from, to)
		if err != nil {
			return fmt.Errorf("sum expenses: %w", err)
		}

		summary = domain.Summarize(count, settings.PricePerCut, expenses)
		summary.Currency = settings.Currency
		return nil
	})
	if err != nil {
		s.logger.Error("Summary: %v", err)
		return nil, fmt.Errorf("%w: Summary - %v", ErrInternal, err)
	}

	summary.From, summary.To = from, to

	s.logger.Info("Summary: completed=%d, income=%s, expenses=%s, net=%s",
		summary.CompletedCount, summary.Income, summary.Expenses, summary.Net)
	return models.FromDomainSummary(summary), nil
}

// AddExpense добавляет запись в журнал расходов
func (s *Service) AddExpense(ctx context.Context, req *models.AddExpenseRequest) (*models.ExpenseResponse, error) {
	if req == nil || !req.Session.IsAdmin() {
		return nil, ErrAccessDenied
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(title) > domain.MaxExpenseTitleLength {
		return nil, fmt.Errorf("%w: title is longer than %d characters", ErrInvalidInput, domain.MaxExpenseTitleLength)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}

	date := domain.Today(s.timeProvider.Now(), s.location)
	if req.Date != nil {
		date = domain.DateIn(*req.Date, s.location)
	}

	s.logger.Info("AddExpense: title=%q, amount=%s, date=%s", title, req.Amount, date.Format(domain.DateFormat))

	created, err := s.expenseRepo.Create(ctx, &domain.Expense{
		Title:  title,
		Amount: req.Amount,
		Date:   date,
	})
	if err != nil {
		s.logger.Error("AddExpense: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddExpense - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddExpense: created expense id=%d", created.ID)
	resp := models.FromDomainExpense(created)
	return &resp, nil
}

// ListExpenses возвращает расходы за период, новые первыми
func (s *Service) ListExpenses(ctx context.Context, req *models.PeriodRequest) (*models.ExpenseListResponse, error) {
	from, to, err := s.checkPeriod(req)
	if err != nil {
		return nil, err
	}

	expenses, err := s.expenseRepo.List(ctx, from, to)
	if err != nil {
		s.logger.Error("ListExpenses: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListExpenses - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainExpenseList(expenses), nil
}

// ExportReport формирует xlsx отчёт за период с листами Summary, Expenses и Completed
func (s *Service) ExportReport(ctx context.Context, req *models.PeriodRequest) (*models.Report, error) {
	from, to, err := s.checkPeriod(req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("ExportReport: from=%s, to=%s", formatBound(from), formatBound(to))

	var (
		summary   domain.FinancialSummary
		expenses  []*domain.Expense
		completed []*domain.Booking
	)

	err = s.txManager.DoReadOnly(ctx, func(txCtx context.Context) error {
		settings, err := s.getSettings(txCtx)
		if err != nil {
			return err
		}

		status := domain.StatusCompleted
		completed, err = s.bookingRepo.List(txCtx, domain.BookingsFilter{
			StartDate: from,
			EndDate:   to,
			Status:    &status,
		})
		if err != nil {
			return fmt.Errorf("list completed bookings: %w", err)
		}

		expenses, err = s.expenseRepo.List(txCtx, from, to)
		if err != nil {
			return fmt.Errorf("list expenses: %w", err)
		}

		total, err := s.expenseRepo.Sum(txCtx, from, to)
		if err != nil {
			return fmt.Errorf("sum expenses: %w", err)
		}

		summary = domain.Summarize(int64(len(completed)), settings.PricePerCut, total)
		summary.Currency = settings.Currency
		return nil
	})
	if err != nil {
		s.logger.Error("ExportReport: %v", err)
		return nil, fmt.Errorf("%w: ExportReport - %v", ErrInternal, err)
	}

	summary.From, summary.To = from, to

	content, err := buildReport(summary, expenses, completed)
	if err != nil {
		s.logger.Error("ExportReport: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrReport, err)
	}

	s.logger.Info("ExportReport: %d expenses, %d completed bookings, %d bytes", len(expenses), len(completed), len(content))

	return &models.Report{
		Filename:    reportFilename(from, to),
		ContentType: xlsxContentType,
		Content:     content,
	}, nil
}

// checkPeriod проверяет права и нормализует границы периода к датам в часовом поясе барбершопа
func (s *Service) checkPeriod(req *models.PeriodRequest) (*time.Time, *time.Time, error) {
	if req == nil || !req.Session.IsAdmin() {
		return nil, nil, ErrAccessDenied
	}

	var from, to *time.Time
	if req.From != nil {
		d := domain.DateIn(*req.From, s.location)
		from = &d
	}
	if req.To != nil {
		d := domain.DateIn(*req.To, s.location)
		to = &d
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	return from, to, nil
}

func (s *Service) getSettings(ctx context.Context) (*domain.BusinessSettings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			return domain.DefaultSettings(), nil
		}
		return nil, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(domain.DateFormat)
}

func reportFilename(from, to *time.Time) string {
	return fmt.Sprintf("finance_%s_%s.xlsx", formatBound(from), formatBound(to))
}
