package remove_shift

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	shiftRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/shift"
)

// UseCase use case удаления смены с разрешением конфликтов
//
// Propose считает конфликты; если их нет, смена удаляется сразу.
// Confirm применяет удаление и каскадную отмену в одной сериализуемой транзакции.
// Abort ничего не трогает.
type UseCase struct {
	shiftRepo   ShiftRepository
	bookingRepo BookingRepository
	outboxRepo  OutboxRepository
	txManager   TransactionManager
	metrics     MetricsRecorder
	location    *time.Location
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	shiftRepo ShiftRepository,
	bookingRepo BookingRepository,
	outboxRepo OutboxRepository,
	txManager TransactionManager,
	metrics MetricsRecorder,
	location *time.Location,
	logger Logger,
) *UseCase {
	return &UseCase{
		shiftRepo:   shiftRepo,
		bookingRepo: bookingRepo,
		outboxRepo:  outboxRepo,
		txManager:   txManager,
		metrics:     metrics,
		location:    location,
		logger:      logger,
	}
}

// Propose вычисляет бронирования, попадающие в смену
// Без конфликтов смена удаляется сразу (StateApplied), иначе возвращается
// StateAwaitingConfirmation со списком конфликтов
func (uc *UseCase) Propose(ctx context.Context, req *Request) (*Result, error) {
	if err := uc.validate(req); err != nil {
		return nil, err
	}

	date := domain.DateIn(req.Date, uc.location)
	uc.logger.Info("RemoveShift.Propose: date=%s, window=%s", date.Format(domain.DateFormat), req.WindowID)

	window, err := uc.loadWindow(ctx, date, req.WindowID)
	if err != nil {
		if errors.Is(err, ErrShiftNotFound) {
			uc.logger.Warn("RemoveShift.Propose: %v", err)
			return nil, err
		}
		uc.logger.Error("RemoveShift.Propose: failed to get window: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrRemovalFailed, err)
	}

	bookings, err := uc.bookingRepo.GetByDate(ctx, date, false)
	if err != nil {
		uc.logger.Error("RemoveShift.Propose: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: get bookings: %v", ErrRemovalFailed, err)
	}

	conflicts := domain.FindShiftConflicts(window, bookings)
	if len(conflicts) == 0 {
		uc.logger.Info("RemoveShift.Propose: no conflicts, applying window=%s", req.WindowID)
		return uc.apply(ctx, date, req.WindowID, nil)
	}

	uc.logger.Info("RemoveShift.Propose: window=%s has %d conflicting bookings, awaiting confirmation",
		req.WindowID, len(conflicts))

	return &Result{
		State:     StateAwaitingConfirmation,
		Window:    window,
		Conflicts: toConflicts(conflicts),
	}, nil
}

// Confirm применяет удаление смены с каскадной отменой бронирований
// Если текущие конфликты не совпадают с CascadeCancel, ничего не записывается:
// возвращается ErrConflictsChanged и свежий список конфликтов
func (uc *UseCase) Confirm(ctx context.Context, req *ConfirmRequest) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}
	if err := uc.validate(&req.Request); err != nil {
		return nil, err
	}

	date := domain.DateIn(req.Date, uc.location)
	uc.logger.Info("RemoveShift.Confirm: date=%s, window=%s, cascade=%v",
		date.Format(domain.DateFormat), req.WindowID, req.CascadeCancel)

	return uc.apply(ctx, date, req.WindowID, req.CascadeCancel)
}

// Abort отменяет процесс удаления; хранилище не затрагивается
func (uc *UseCase) Abort(_ context.Context, req *Request) (*Result, error) {
	if req == nil || !req.Session.IsAdmin() {
		return nil, ErrForbidden
	}
	uc.logger.Info("RemoveShift.Abort: window=%s", req.WindowID)
	return &Result{State: StateCancelled}, nil
}

// apply - единая транзакционная граница удаления смены
func (uc *UseCase) apply(ctx context.Context, date time.Time, windowID uuid.UUID, cascade []int64) (*Result, error) {
	var (
		window  *domain.ShiftWindow
		fresh   []*domain.Booking
		applied []*domain.Booking
	)

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		w, err := uc.loadWindow(txCtx, date, windowID)
		if err != nil {
			return err
		}
		window = w

		bookings, err := uc.bookingRepo.GetByDate(txCtx, date, false)
		if err != nil {
			return fmt.Errorf("get bookings: %w", err)
		}

		fresh = domain.FindShiftConflicts(window, bookings)
		if !sameIDs(domain.BookingIDs(fresh), cascade) {
			return ErrConflictsChanged
		}

		if len(fresh) > 0 {
			ids := domain.BookingIDs(fresh)
			canceled, err := uc.bookingRepo.CancelMany(txCtx, ids, domain.ReasonShiftRemoved)
			if err != nil {
				return fmt.Errorf("cancel bookings: %w", err)
			}
			if canceled != int64(len(ids)) {
				return fmt.Errorf("cancel bookings: canceled %d of %d", canceled, len(ids))
			}

			messages := make([]*domain.OutboxMessage, 0, len(fresh))
			for _, b := range fresh {
				m, err := domain.NewOutboxMessage(uuid.NewString(), domain.NotificationCustomerCancellation,
					domain.NewCancellationNotice(b, domain.ReasonShiftRemoved))
				if err != nil {
					return fmt.Errorf("build notification for booking id=%d: %w", b.ID, err)
				}
				messages = append(messages, m)
			}
			if err := uc.outboxRepo.Enqueue(txCtx, messages...); err != nil {
				return fmt.Errorf("enqueue notifications: %w", err)
			}
		}

		if err := uc.shiftRepo.Delete(txCtx, windowID); err != nil {
			return fmt.Errorf("delete window: %w", err)
		}

		applied = fresh
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, ErrShiftNotFound):
		return nil, err
	case errors.Is(err, ErrConflictsChanged):
		uc.logger.Warn("RemoveShift: conflicts changed for window=%s, expected=%v, actual=%v",
			windowID, cascade, domain.BookingIDs(fresh))
		return &Result{
			State:     StateAwaitingConfirmation,
			Window:    window,
			Conflicts: toConflicts(fresh),
		}, ErrConflictsChanged
	default:
		uc.logger.Error("RemoveShift: removal of window=%s rolled back: %v", windowID, err)
		return nil, fmt.Errorf("%w: %v", ErrRemovalFailed, err)
	}

	for range applied {
		uc.metrics.RecordCascadeCancellation(string(window.Category))
	}

	uc.logger.Info("RemoveShift: window=%s removed, canceled bookings=%v", windowID, domain.BookingIDs(applied))

	return &Result{
		State:     StateApplied,
		Window:    window,
		Conflicts: toConflicts(applied),
		Canceled:  domain.BookingIDs(applied),
	}, nil
}

func (uc *UseCase) validate(req *Request) error {
	if req == nil || !req.Session.IsAdmin() {
		return ErrForbidden
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.WindowID == uuid.Nil {
		return fmt.Errorf("%w: window id is required", ErrInvalidInput)
	}
	return nil
}

// loadWindow загружает смену и проверяет, что она относится к дате
func (uc *UseCase) loadWindow(ctx context.Context, date time.Time, id uuid.UUID) (*domain.ShiftWindow, error) {
	window, err := uc.shiftRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			return nil, fmt.Errorf("%w: id=%s", ErrShiftNotFound, id)
		}
		return nil, fmt.Errorf("get window: %w", err)
	}

	if window.Date.Format(domain.DateFormat) != date.Format(domain.DateFormat) {
		return nil, fmt.Errorf("%w: id=%s is not on %s", ErrShiftNotFound, id, date.Format(domain.DateFormat))
	}

	return window, nil
}

// sameIDs сравнивает наборы идентификаторов без учёта порядка и повторов
func sameIDs(a, b []int64) bool {
	a, b = uniqueSorted(a), uniqueSorted(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func uniqueSorted(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
