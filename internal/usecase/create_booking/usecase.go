package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/booking"
	settingsRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/settings"
)

const recheckTimeout = 2 * time.Second

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo        BookingRepository
	shiftRepo          ShiftRepository
	settingsRepo       SettingsRepository
	txManager          TransactionManager
	metrics            MetricsRecorder
	location           *time.Location
	reservationTimeout time.Duration
	timeProvider       TimeProvider
	logger             Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	shiftRepo ShiftRepository,
	settingsRepo SettingsRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	location *time.Location,
	reservationTimeout time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:        bookingRepo,
		shiftRepo:          shiftRepo,
		settingsRepo:       settingsRepo,
		txManager:          txManager,
		metrics:            metrics,
		location:           location,
		reservationTimeout: reservationTimeout,
		timeProvider:       &RealTimeProvider{},
		logger:             logger,
	}
}

// Execute резервирует (date, timeSlot) за клиентом
// Проверка и вставка выполняются в одной сериализуемой транзакции;
// частичный уникальный индекс гарантирует, что из конкурентных запросов на один слот
// успешно завершится ровно один
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		uc.metrics.RecordReservation(outcomeRejected)
		return nil, err
	}

	date := domain.DateIn(req.Date, uc.location)
	uc.logger.Info("CreateBooking: customer=%s, date=%s, slot=%s, category=%s",
		req.Session.UserID, date.Format(domain.DateFormat), req.TimeSlot, req.Category)

	now := uc.timeProvider.Now()

	reserveCtx := ctx
	if uc.reservationTimeout > 0 {
		var cancel context.CancelFunc
		reserveCtx, cancel = context.WithTimeout(ctx, uc.reservationTimeout)
		defer cancel()
	}

	var result *domain.Booking

	err := uc.txManager.DoSerializable(reserveCtx, func(txCtx context.Context) error {
		settings, err := uc.settingsRepo.Get(txCtx)
		if err != nil {
			if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
				return fmt.Errorf("get settings: %w", err)
			}
			settings = domain.DefaultSettings()
		}

		if err := validateDate(req, now, uc.location, settings.BookingHorizonDays); err != nil {
			return err
		}

		windows, err := uc.shiftRepo.GetByDate(txCtx, date)
		if err != nil {
			return fmt.Errorf("get shift windows: %w", err)
		}
		if len(windows) == 0 {
			return ErrDayClosed
		}

		if err := validateSlotOffered(req, windows, settings.SlotDurationMinutes); err != nil {
			return err
		}

		if !req.TimeSlot.On(date).After(now) {
			return fmt.Errorf("%w: %s %s", ErrTooLateToBook, date.Format(domain.DateFormat), req.TimeSlot)
		}

		existing, err := uc.bookingRepo.GetActiveBySlot(txCtx, date, req.TimeSlot)
		if err != nil && !errors.Is(err, bookingRepo.ErrBookingNotFound) {
			return fmt.Errorf("check slot: %w", err)
		}
		if existing != nil {
			return ErrSlotTaken
		}

		created, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
			CustomerID:    req.Session.UserID,
			CustomerName:  req.Name,
			CustomerPhone: req.Phone,
			Date:          date,
			TimeSlot:      req.TimeSlot,
			Category:      req.Category,
			Status:        domain.StatusUpcoming,
			Notes:         req.Notes,
		})
		if err != nil {
			if errors.Is(err, bookingRepo.ErrSlotTaken) {
				return ErrSlotTaken
			}
			return fmt.Errorf("create booking: %w", err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, uc.resolveFailure(ctx, req, date, err)
	}

	uc.metrics.RecordReservation(outcomeCreated)
	uc.logger.Info("CreateBooking: created booking id=%d, date=%s, slot=%s",
		result.ID, date.Format(domain.DateFormat), result.TimeSlot)

	return &Response{
		ID:            result.ID,
		CustomerID:    result.CustomerID,
		CustomerName:  result.CustomerName,
		CustomerPhone: result.CustomerPhone,
		Date:          result.Date,
		TimeSlot:      result.TimeSlot,
		Category:      result.Category,
		Status:        result.Status,
		Notes:         result.Notes,
		CreatedAt:     result.CreatedAt,
		UpdatedAt:     result.UpdatedAt,
	}, nil
}

// resolveFailure сводит ошибку транзакции к исходу бронирования
// Для ошибок хранилища (конфликт сериализации, таймаут, обрыв) ключ перечитывается:
// если слот занят - ErrSlotTaken, иначе ErrStoreUnavailable
func (uc *UseCase) resolveFailure(ctx context.Context, req *Request, date time.Time, err error) error {
	switch {
	case errors.Is(err, ErrSlotTaken):
		uc.logger.Warn("CreateBooking: slot taken, date=%s, slot=%s", date.Format(domain.DateFormat), req.TimeSlot)
		uc.metrics.RecordReservation(outcomeSlotTaken)
		return ErrSlotTaken
	case isPolicyViolation(err):
		uc.logger.Warn("CreateBooking: rejected: %v", err)
		uc.metrics.RecordReservation(outcomeRejected)
		return err
	}

	uc.logger.Warn("CreateBooking: transaction failed, re-reading slot date=%s, slot=%s: %v",
		date.Format(domain.DateFormat), req.TimeSlot, err)

	recheckCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recheckTimeout)
	defer cancel()

	existing, recheckErr := uc.bookingRepo.GetActiveBySlot(recheckCtx, date, req.TimeSlot)
	if recheckErr == nil && existing != nil {
		uc.metrics.RecordReservation(outcomeSlotTaken)
		return ErrSlotTaken
	}
	if recheckErr != nil && !errors.Is(recheckErr, bookingRepo.ErrBookingNotFound) {
		uc.logger.Error("CreateBooking: re-read failed: %v", recheckErr)
	}

	uc.metrics.RecordReservation(outcomeStoreUnavailable)
	return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
}

func isPolicyViolation(err error) bool {
	for _, target := range []error{
		ErrInvalidDate,
		ErrDateTooFarInFuture,
		ErrDayClosed,
		ErrSlotNotOffered,
		ErrCategoryMismatch,
		ErrTooLateToBook,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
