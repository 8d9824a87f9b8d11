package shifts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberShop/internal/infra/storage/pgerr"
	shiftRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/shift"
	"github.com/m04kA/SMC-BarberShop/internal/service/shifts/models"
)

// maxOpenDaysRange ограничение диапазона запроса открытых дней
const maxOpenDaysRange = 366

// Service сервис управления сменами
type Service struct {
	shiftRepo   ShiftRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	location    *time.Location
	logger      Logger
}

// NewService создает новый экземпляр сервиса смен
func NewService(
	shiftRepo ShiftRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	location *time.Location,
	logger Logger,
) *Service {
	return &Service{
		shiftRepo:   shiftRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		location:    location,
		logger:      logger,
	}
}

// GetDay возвращает смены на дату (публичный метод)
func (s *Service) GetDay(ctx context.Context, date time.Time) (*models.DayResponse, error) {
	if date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	date = domain.DateIn(date, s.location)

	windows, err := s.shiftRepo.GetByDate(ctx, date)
	if err != nil {
		s.logger.Error("GetDay: repository error for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: GetDay - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainDay(date, windows), nil
}

// OpenDays возвращает даты из диапазона [from, to], на которые есть смены
func (s *Service) OpenDays(ctx context.Context, from, to time.Time) (*models.OpenDaysResponse, error) {
	from, to = domain.DateIn(from, s.location), domain.DateIn(to, s.location)
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}
	if to.Sub(from) > maxOpenDaysRange*24*time.Hour {
		return nil, fmt.Errorf("%w: range is longer than %d days", ErrInvalidInput, maxOpenDaysRange)
	}

	dates, err := s.shiftRepo.ListOpenDates(ctx, from, to)
	if err != nil {
		s.logger.Error("OpenDays: repository error: %v", err)
		return nil, fmt.Errorf("%w: OpenDays - repository error: %v", ErrInternal, err)
	}

	resp := &models.OpenDaysResponse{Dates: make([]string, 0, len(dates))}
	for _, d := range dates {
		resp.Dates = append(resp.Dates, d.Format(domain.DateFormat))
	}
	return resp, nil
}

// AddShift добавляет смену на дату (только администратор)
func (s *Service) AddShift(ctx context.Context, req *models.AddShiftRequest) (*models.ShiftResponse, error) {
	if req == nil || !req.Session.IsAdmin() {
		return nil, ErrAccessDenied
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date := domain.DateIn(req.Date, s.location)
	window, err := toDomainWindow(date, req.Window)
	if err != nil {
		s.logger.Warn("AddShift: validation failed: %v", err)
		return nil, err
	}

	s.logger.Info("AddShift: date=%s, window=%s-%s, category=%s",
		date.Format(domain.DateFormat), window.Start, window.End, window.Category)

	created, err := s.shiftRepo.Create(ctx, window)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrDuplicateShift) {
			s.logger.Warn("AddShift: %v", err)
			return nil, ErrDuplicateShift
		}
		s.logger.Error("AddShift: repository error: %v", err)
		return nil, fmt.Errorf("%w: AddShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddShift: created window id=%s", created.ID)
	resp := models.FromDomainWindow(created)
	return &resp, nil
}

// SetDay полностью заменяет смены дня (только администратор)
// Замена отклоняется, если upcoming бронирование дня не попадает ни в одну новую смену
// своей категории: такие бронирования снимаются только через удаление смены с подтверждением.
// Проверка и замена выполняются в одной сериализуемой транзакции.
func (s *Service) SetDay(ctx context.Context, req *models.SetDayRequest) (*models.DayResponse, error) {
	if req == nil || !req.Session.IsAdmin() {
		return nil, ErrAccessDenied
	}
	if req.Date.IsZero() {
		return nil, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	date := domain.DateIn(req.Date, s.location)

	windows := make([]*domain.ShiftWindow, 0, len(req.Windows))
	for _, in := range req.Windows {
		w, err := toDomainWindow(date, in)
		if err != nil {
			s.logger.Warn("SetDay: validation failed: %v", err)
			return nil, err
		}
		for _, existing := range windows {
			if existing.SameRange(w) {
				return nil, fmt.Errorf("%w: %s-%s %s", ErrDuplicateShift, w.Start, w.End, w.Category)
			}
		}
		windows = append(windows, w)
	}

	s.logger.Info("SetDay: date=%s, windows=%d", date.Format(domain.DateFormat), len(windows))

	var saved []*domain.ShiftWindow

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		bookings, err := s.bookingRepo.GetByDate(txCtx, date, false)
		if err != nil {
			return fmt.Errorf("get bookings: %w", err)
		}

		if uncovered := domain.UncoveredBookings(windows, bookings); len(uncovered) > 0 {
			return &UncoveredError{BookingIDs: domain.BookingIDs(uncovered)}
		}

		saved, err = s.shiftRepo.ReplaceDay(txCtx, date, windows)
		return err
	})
	if err != nil {
		var uncovered *UncoveredError
		switch {
		case errors.As(err, &uncovered):
			s.logger.Warn("SetDay: date=%s rejected, uncovered bookings=%v", date.Format(domain.DateFormat), uncovered.BookingIDs)
			return nil, uncovered
		case errors.Is(err, shiftRepo.ErrDuplicateShift):
			return nil, ErrDuplicateShift
		case errors.Is(err, shiftRepo.ErrSerializationFailure),
			errors.Is(err, bookingRepo.ErrSerializationFailure),
			pgerr.IsSerializationFailure(err):
			s.logger.Warn("SetDay: date=%s lost to a concurrent edit", date.Format(domain.DateFormat))
			return nil, ErrConcurrentEdit
		}
		s.logger.Error("SetDay: failed for date=%s: %v", date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: SetDay - %v", ErrInternal, err)
	}

	s.logger.Info("SetDay: date=%s now has %d windows", date.Format(domain.DateFormat), len(saved))
	return models.FromDomainDay(date, saved), nil
}

func toDomainWindow(date time.Time, in models.WindowInput) (*domain.ShiftWindow, error) {
	category := in.Category
	if category == "" {
		category = domain.CategoryRegular
	}

	w := &domain.ShiftWindow{
		Date:     date,
		Start:    in.Start,
		End:      in.End,
		Category: category,
	}
	if err := w.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return w, nil
}
