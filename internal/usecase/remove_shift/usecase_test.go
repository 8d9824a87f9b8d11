package remove_shift

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	shiftRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/shift"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// memStore - хранилище смен, бронирований и outbox с откатом транзакции
type memStore struct {
	windows  map[uuid.UUID]domain.ShiftWindow
	bookings map[int64]domain.Booking
	outbox   []*domain.OutboxMessage

	failDelete  error
	failEnqueue error
	txCalls     int
}

func newMemStore() *memStore {
	return &memStore{
		windows:  map[uuid.UUID]domain.ShiftWindow{},
		bookings: map[int64]domain.Booking{},
	}
}

func (s *memStore) GetByID(_ context.Context, id uuid.UUID) (*domain.ShiftWindow, error) {
	w, ok := s.windows[id]
	if !ok {
		return nil, shiftRepo.ErrShiftNotFound
	}
	return &w, nil
}

func (s *memStore) Delete(_ context.Context, id uuid.UUID) error {
	if s.failDelete != nil {
		return s.failDelete
	}
	if _, ok := s.windows[id]; !ok {
		return shiftRepo.ErrShiftNotFound
	}
	delete(s.windows, id)
	return nil
}

func (s *memStore) GetByDate(_ context.Context, date time.Time, includeCanceled bool) ([]*domain.Booking, error) {
	out := make([]*domain.Booking, 0)
	for _, b := range s.bookings {
		b := b
		if !b.Date.Equal(date) || (!includeCanceled && !b.IsActive()) {
			continue
		}
		out = append(out, &b)
	}
	return out, nil
}

func (s *memStore) CancelMany(_ context.Context, ids []int64, reason string) (int64, error) {
	var n int64
	for _, id := range ids {
		b, ok := s.bookings[id]
		if !ok || !b.IsUpcoming() {
			continue
		}
		b.Status = domain.StatusCanceled
		b.CancellationReason = &reason
		s.bookings[id] = b
		n++
	}
	return n, nil
}

func (s *memStore) Enqueue(_ context.Context, messages ...*domain.OutboxMessage) error {
	if s.failEnqueue != nil {
		return s.failEnqueue
	}
	s.outbox = append(s.outbox, messages...)
	return nil
}

// DoSerializable восстанавливает снимок состояния, если fn вернула ошибку
func (s *memStore) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	s.txCalls++

	windows := make(map[uuid.UUID]domain.ShiftWindow, len(s.windows))
	for k, v := range s.windows {
		windows[k] = v
	}
	bookings := make(map[int64]domain.Booking, len(s.bookings))
	for k, v := range s.bookings {
		bookings[k] = v
	}
	outbox := append([]*domain.OutboxMessage(nil), s.outbox...)

	if err := fn(ctx); err != nil {
		s.windows, s.bookings, s.outbox = windows, bookings, outbox
		return err
	}
	return nil
}

type cascadeCounter struct {
	byCategory map[string]int
}

func (c *cascadeCounter) RecordCascadeCancellation(category string) {
	c.byCategory[category]++
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var admin = &domain.Session{UserID: "owner", Role: domain.RoleAdmin}

func (s *memStore) addWindow(start, end string, category domain.SlotCategory) uuid.UUID {
	id := uuid.New()
	s.windows[id] = domain.ShiftWindow{
		ID:       id,
		Date:     day,
		Start:    types.TimeString(start),
		End:      types.TimeString(end),
		Category: category,
	}
	return id
}

func (s *memStore) addBooking(id int64, slot string, status domain.BookingStatus) {
	s.bookings[id] = domain.Booking{
		ID:            id,
		CustomerName:  "Customer",
		CustomerPhone: "0501234567",
		Date:          day,
		TimeSlot:      types.TimeString(slot),
		Category:      domain.CategoryRegular,
		Status:        status,
	}
}

func newUseCase(s *memStore, m *cascadeCounter) *UseCase {
	return NewUseCase(s, s, s, s, m, time.UTC, nopLogger{})
}

func TestPropose_NoConflictsAppliesImmediately(t *testing.T) {
	s := newMemStore()
	id := s.addWindow("14:00", "18:00", domain.CategoryRegular)
	s.addBooking(1, "10:00", domain.StatusUpcoming)
	s.addBooking(2, "15:00", domain.StatusCanceled)
	s.addBooking(3, "16:00", domain.StatusCompleted)
	m := &cascadeCounter{byCategory: map[string]int{}}

	res, err := newUseCase(s, m).Propose(context.Background(), &Request{Session: admin, Date: day, WindowID: id})
	require.NoError(t, err)

	assert.Equal(t, StateApplied, res.State)
	assert.Empty(t, res.Canceled)
	assert.NotContains(t, s.windows, id)
	assert.Empty(t, s.outbox)
	assert.Equal(t, domain.StatusUpcoming, s.bookings[1].Status)
}

func TestPropose_ReturnsConflicts(t *testing.T) {
	s := newMemStore()
	id := s.addWindow("09:00", "12:00", domain.CategoryRegular)
	s.addBooking(1, "09:00", domain.StatusUpcoming)
	s.addBooking(2, "11:30", domain.StatusUpcoming)
	s.addBooking(3, "12:00", domain.StatusUpcoming)
	s.addBooking(4, "10:00", domain.StatusCanceled)

	res, err := newUseCase(s, &cascadeCounter{byCategory: map[string]int{}}).
		Propose(context.Background(), &Request{Session: admin, Date: day, WindowID: id})
	require.NoError(t, err)

	assert.Equal(t, StateAwaitingConfirmation, res.State)
	require.Len(t, res.Conflicts, 2)
	assert.Equal(t, int64(1), res.Conflicts[0].BookingID)
	assert.Equal(t, types.TimeString("11:30"), res.Conflicts[1].TimeSlot)
	assert.Contains(t, s.windows, id)
	assert.Zero(t, s.txCalls)
}

func TestConfirm_CascadeCancelsAndNotifies(t *testing.T) {
	s := newMemStore()
	id := s.addWindow("09:00", "12:00", domain.CategoryReserved)
	s.addBooking(1, "09:00", domain.StatusUpcoming)
	s.addBooking(2, "11:30", domain.StatusUpcoming)
	s.addBooking(3, "13:00", domain.StatusUpcoming)
	m := &cascadeCounter{byCategory: map[string]int{}}

	res, err := newUseCase(s, m).Confirm(context.Background(), &ConfirmRequest{
		Request:       Request{Session: admin, Date: day, WindowID: id},
		CascadeCancel: []int64{2, 1},
	})
	require.NoError(t, err)

	assert.Equal(t, StateApplied, res.State)
	assert.Equal(t, []int64{1, 2}, res.Canceled)
	assert.NotContains(t, s.windows, id)

	assert.Equal(t, domain.StatusCanceled, s.bookings[1].Status)
	assert.Equal(t, domain.ReasonShiftRemoved, *s.bookings[1].CancellationReason)
	assert.Equal(t, domain.StatusCanceled, s.bookings[2].Status)
	assert.Equal(t, domain.StatusUpcoming, s.bookings[3].Status)

	require.Len(t, s.outbox, 2)
	for _, msg := range s.outbox {
		assert.Equal(t, domain.NotificationCustomerCancellation, msg.Kind)
		assert.NotEmpty(t, msg.MessageID)
	}
	assert.Equal(t, 2, m.byCategory[string(domain.CategoryReserved)])
}

func TestConfirm_ConflictsChangedWritesNothing(t *testing.T) {
	s := newMemStore()
	id := s.addWindow("09:00", "12:00", domain.CategoryRegular)
	s.addBooking(1, "09:00", domain.StatusUpcoming)
	// бронирование появилось после того, как администратор увидел конфликты
	s.addBooking(2, "10:00", domain.StatusUpcoming)

	res, err := newUseCase(s, &cascadeCounter{byCategory: map[string]int{}}).Confirm(context.Background(), &ConfirmRequest{
		Request:       Request{Session: admin, Date: day, WindowID: id},
		CascadeCancel: []int64{1},
	})
	require.ErrorIs(t, err, ErrConflictsChanged)

	assert.Equal(t, StateAwaitingConfirmation, res.State)
	assert.Len(t, res.Conflicts, 2)
	assert.Contains(t, s.windows, id)
	assert.Equal(t, domain.StatusUpcoming, s.bookings[1].Status)
	assert.Empty(t, s.outbox)
}

func TestConfirm_FailureRollsBackEverything(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *memStore)
	}{
		{name: "delete fails", setup: func(s *memStore) { s.failDelete = errors.New("disk full") }},
		{name: "enqueue fails", setup: func(s *memStore) { s.failEnqueue = errors.New("disk full") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newMemStore()
			id := s.addWindow("09:00", "12:00", domain.CategoryRegular)
			s.addBooking(1, "09:00", domain.StatusUpcoming)
			tt.setup(s)
			m := &cascadeCounter{byCategory: map[string]int{}}

			_, err := newUseCase(s, m).Confirm(context.Background(), &ConfirmRequest{
				Request:       Request{Session: admin, Date: day, WindowID: id},
				CascadeCancel: []int64{1},
			})
			require.ErrorIs(t, err, ErrRemovalFailed)

			assert.Contains(t, s.windows, id)
			assert.Equal(t, domain.StatusUpcoming, s.bookings[1].Status)
			assert.Empty(t, s.outbox)
			assert.Empty(t, m.byCategory)
		})
	}
}

func TestRemoveShift_Guards(t *testing.T) {
	s := newMemStore()
	id := s.addWindow("09:00", "12:00", domain.CategoryRegular)
	uc := newUseCase(s, &cascadeCounter{byCategory: map[string]int{}})
	customer := &domain.Session{UserID: "c1", Role: domain.RoleCustomer}

	_, err := uc.Propose(context.Background(), &Request{Session: customer, Date: day, WindowID: id})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = uc.Propose(context.Background(), &Request{Session: admin, Date: day, WindowID: uuid.New()})
	assert.ErrorIs(t, err, ErrShiftNotFound)

	_, err = uc.Propose(context.Background(), &Request{Session: admin, Date: day.AddDate(0, 0, 1), WindowID: id})
	assert.ErrorIs(t, err, ErrShiftNotFound)

	_, err = uc.Confirm(context.Background(), &ConfirmRequest{Request: Request{Session: admin, Date: day}})
	assert.ErrorIs(t, err, ErrInvalidInput)

	res, err := uc.Abort(context.Background(), &Request{Session: admin, Date: day, WindowID: id})
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, res.State)
	assert.Contains(t, s.windows, id)
	assert.Zero(t, s.txCalls)

	_, err = uc.Abort(context.Background(), &Request{Session: customer})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestSameIDs(t *testing.T) {
	assert.True(t, sameIDs(nil, []int64{}))
	assert.True(t, sameIDs([]int64{3, 1}, []int64{1, 3, 3}))
	assert.False(t, sameIDs([]int64{1}, []int64{1, 2}))
}
