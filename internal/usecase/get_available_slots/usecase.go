package get_available_slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	settingsRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/settings"
)

// UseCase use case для получения доступных слотов дня
type UseCase struct {
	shiftRepo    ShiftRepository
	bookingRepo  BookingRepository
	settingsRepo SettingsRepository
	location     *time.Location
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	shiftRepo ShiftRepository,
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		shiftRepo:    shiftRepo,
		bookingRepo:  bookingRepo,
		settingsRepo: settingsRepo,
		location:     location,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute пересчитывает слоты дня из смен и бронирований при каждом запросе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	date := domain.DateIn(req.Date, uc.location)
	uc.logger.Info("GetAvailableSlots: date=%s", date.Format(domain.DateFormat))

	now := uc.timeProvider.Now()

	settings, err := uc.settingsRepo.Get(ctx)
	if err != nil {
		if !errors.Is(err, settingsRepo.ErrSettingsNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get settings: %v", err)
			return nil, fmt.Errorf("%w: failed to get settings: %v", ErrInternal, err)
		}
		settings = domain.DefaultSettings()
		uc.logger.Info("GetAvailableSlots: using default settings")
	}

	if err := validateDate(req, now, uc.location, settings.BookingHorizonDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	windows, err := uc.shiftRepo.GetByDate(ctx, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get shift windows: %v", err)
		return nil, fmt.Errorf("%w: failed to get shift windows: %v", ErrInternal, err)
	}

	var bookings []*domain.Booking
	if len(windows) > 0 {
		bookings, err = uc.bookingRepo.GetByDate(ctx, date, false)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get bookings: %v", err)
			return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}
	}

	day := domain.GenerateDaySlots(domain.SlotGenerationInput{
		Date:                date,
		Windows:             windows,
		SlotDurationMinutes: settings.SlotDurationMinutes,
		Bookings:            bookings,
		Now:                 now,
	})

	uc.logger.Info("GetAvailableSlots: date=%s, state=%s, regular=%d, reserved=%d",
		date.Format(domain.DateFormat), day.State, len(day.Regular), len(day.Reserved))

	return &Response{
		Date:                day.Date,
		State:               day.State,
		Regular:             day.Regular,
		Reserved:            day.Reserved,
		SlotDurationMinutes: settings.SlotDurationMinutes,
	}, nil
}
