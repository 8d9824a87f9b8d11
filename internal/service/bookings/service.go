package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/booking"
	settingsRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/settings"
	"github.com/m04kA/SMC-BarberShop/internal/service/bookings/models"
)

// BusinessInfo данные барбершопа для записи в календарь
type BusinessInfo struct {
	Name     string
	Location string
}

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	settingsRepo SettingsRepository
	outboxRepo   OutboxRepository
	txManager    TransactionManager
	location     *time.Location
	business     BusinessInfo
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	settingsRepo SettingsRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	location *time.Location,
	business BusinessInfo,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		settingsRepo: settingsRepo,
		outboxRepo:   outboxRepo,
		txManager:    txManager,
		location:     location,
		business:     business,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только своё бронирование, администратор любое
func (s *Service) GetByID(ctx context.Context, session *domain.Session, id int64) (*models.BookingResponse, error) {
	if !session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	s.logger.Info("GetByID: fetching booking id=%d for user=%s", id, session.UserID)

	booking, err := s.getAccessible(ctx, session, id)
	if err != nil {
		return nil, err
	}

	return models.FromDomainBooking(booking), nil
}

// List возвращает бронирования, упорядоченные по дате и слоту
// Администратор получает все бронирования, клиент только свои
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	if req == nil || !req.Session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	filter := domain.BookingsFilter{
		StartDate:       req.StartDate,
		EndDate:         req.EndDate,
		IncludeCanceled: req.IncludeCanceled,
	}

	if !req.Session.IsAdmin() {
		customerID := req.Session.UserID
		filter.CustomerID = &customerID
	}

	if req.Status != nil {
		status, err := domain.ParseBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("List: invalid status=%s for user=%s", *req.Status, req.Session.UserID)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		filter.Status = &status
	}

	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error("List: repository error for user=%s: %v", req.Session.UserID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: fetched %d bookings for user=%s, admin=%t", len(bookings), req.Session.UserID, req.Session.IsAdmin())
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Клиент может отменить своё upcoming бронирование не позже чем за cancellationCutoffMinutes
// до начала; владельцу уходит письмо. Администратор отменяет любое upcoming бронирование
// без ограничения по времени; клиенту уходит SMS.
// Отмена и постановка уведомления в очередь выполняются в одной транзакции.
func (s *Service) Cancel(ctx context.Context, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	if req == nil || !req.Session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	s.logger.Info("Cancel: cancelling booking id=%d by user=%s", req.BookingID, req.Session.UserID)

	if req.Reason != nil && len(*req.Reason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: reason is too long", ErrInvalidInput)
	}

	var canceled *domain.Booking

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.getAccessible(txCtx, req.Session, req.BookingID)
		if err != nil {
			return err
		}

		if !booking.IsUpcoming() {
			s.logger.Warn("Cancel: booking id=%d cannot be canceled, status=%s", booking.ID, booking.Status)
			return ErrCannotCancel
		}

		reason, kind := domain.ReasonCanceledByAdmin, domain.NotificationCustomerCancellation
		if !req.Session.IsAdmin() {
			settings, err := s.getSettings(txCtx)
			if err != nil {
				return err
			}
			if !booking.CanCustomerCancel(s.timeProvider.Now(), settings.CancellationCutoff(), s.location) {
				s.logger.Warn("Cancel: cutoff passed for booking id=%d, starts at %s",
					booking.ID, booking.StartsAt(s.location).Format(time.RFC3339))
				return ErrCancellationCutoff
			}
			reason, kind = domain.ReasonCanceledByCustomer, domain.NotificationOwnerCancellation
		}
		if req.Reason != nil && *req.Reason != "" {
			reason = *req.Reason
		}

		canceled, err = s.cancelAndNotify(txCtx, booking, reason, kind)
		return err
	})
	if err != nil {
		return nil, s.wrap("Cancel", req.BookingID, err)
	}

	s.logger.Info("Cancel: booking id=%d canceled by user=%s", req.BookingID, req.Session.UserID)
	return models.FromDomainBooking(canceled), nil
}

// UpdateStatus обновляет статус бронирования (только администратор)
// Повторная установка того же статуса ничего не записывает;
// выход из терминального статуса отклоняется
func (s *Service) UpdateStatus(ctx context.Context, req *models.UpdateStatusRequest) (*models.BookingResponse, error) {
	if req == nil || !req.Session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	if !req.Session.IsAdmin() {
		return nil, ErrAccessDenied
	}

	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s", req.BookingID, req.Status)

	status, err := domain.ParseBookingStatus(req.Status)
	if err != nil {
		s.logger.Warn("UpdateStatus: invalid status=%s for booking id=%d", req.Status, req.BookingID)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var updated *domain.Booking

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			return err
		}

		changed, err := domain.CheckTransition(booking.Status, status)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
		}
		if !changed {
			s.logger.Info("UpdateStatus: booking id=%d already %s", booking.ID, status)
			updated = booking
			return nil
		}

		if status == domain.StatusCanceled {
			updated, err = s.cancelAndNotify(txCtx, booking, domain.ReasonCanceledByAdmin, domain.NotificationCustomerCancellation)
			return err
		}

		if err := s.bookingRepo.UpdateStatus(txCtx, booking.ID, status); err != nil {
			return err
		}
		booking.Status = status
		updated = booking
		return nil
	})
	if err != nil {
		return nil, s.wrap("UpdateStatus", req.BookingID, err)
	}

	s.logger.Info("UpdateStatus: booking id=%d is %s", req.BookingID, updated.Status)
	return models.FromDomainBooking(updated), nil
}

// Delete физически удаляет бронирование (только администратор)
func (s *Service) Delete(ctx context.Context, session *domain.Session, id int64) error {
	if !session.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if !session.IsAdmin() {
		return ErrAccessDenied
	}

	s.logger.Info("Delete: deleting booking id=%d", id)

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		return s.wrap("Delete", id, err)
	}

	s.logger.Info("Delete: booking id=%d deleted", id)
	return nil
}

// Calendar формирует запись в календарь для бронирования
func (s *Service) Calendar(ctx context.Context, session *domain.Session, id int64) (*models.CalendarResponse, error) {
	if !session.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	booking, err := s.getAccessible(ctx, session, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.StatusCanceled {
		return nil, fmt.Errorf("%w: booking is canceled", ErrInvalidInput)
	}

	settings, err := s.getSettings(ctx)
	if err != nil {
		return nil, s.wrap("Calendar", id, err)
	}

	event := newCalendarEvent(booking, settings.SlotDuration(), s.location, s.business)

	return &models.CalendarResponse{
		Filename:  fmt.Sprintf("booking-%d.ics", booking.ID),
		ICS:       event.ICS(s.timeProvider.Now()),
		GoogleURL: event.GoogleURL(),
	}, nil
}

// Вспомогательные методы

// getAccessible загружает бронирование и проверяет доступ к нему
func (s *Service) getAccessible(ctx context.Context, session *domain.Session, id int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("getAccessible: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("getAccessible: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: repository error: %v", ErrInternal, err)
	}

	if !session.IsAdmin() && !booking.IsOwnedBy(session.UserID) {
		s.logger.Warn("getAccessible: access denied for user=%s to booking id=%d", session.UserID, id)
		return nil, ErrAccessDenied
	}

	return booking, nil
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

// cancelAndNotify отменяет бронирование и ставит уведомление в outbox
// Должен вызываться внутри транзакции
func (s *Service) cancelAndNotify(ctx context.Context, booking *domain.Booking, reason string, kind domain.NotificationKind) (*domain.Booking, error) {
	if err := s.bookingRepo.Cancel(ctx, booking.ID, reason); err != nil {
		return nil, err
	}

	message, err := domain.NewOutboxMessage(uuid.NewString(), kind, domain.NewCancellationNotice(booking, reason))
	if err != nil {
		return nil, fmt.Errorf("build notification: %w", err)
	}
	if err := s.outboxRepo.Enqueue(ctx, message); err != nil {
		return nil, fmt.Errorf("enqueue notification: %w", err)
	}

	now := s.timeProvider.Now()
	booking.Status = domain.StatusCanceled
	booking.CancellationReason = &reason
	booking.CanceledAt = &now

	return booking, nil
}

// wrap сводит ошибку к ошибкам сервиса
func (s *Service) wrap(op string, id int64, err error) error {
	switch {
	case errors.Is(err, ErrBookingNotFound),
		errors.Is(err, ErrAccessDenied),
		errors.Is(err, ErrCannotCancel),
		errors.Is(err, ErrCancellationCutoff),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrInternal):
		return err
	case errors.Is(err, bookingRepo.ErrBookingNotFound):
		s.logger.Warn("%s: booking id=%d not found", op, id)
		return ErrBookingNotFound
	}

	s.logger.Error("%s: failed for booking id=%d: %v", op, id, err)
	return fmt.Errorf("%w: %s - %v", ErrInternal, op, err)
}
