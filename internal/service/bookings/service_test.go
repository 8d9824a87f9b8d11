package bookings

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/booking"
	settingsRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/settings"
	"github.com/m04kA/SMC-BarberShop/internal/service/bookings/models"
	"github.com/m04kA/SMC-BarberShop/pkg/ptr"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

type mockBookings struct {
	mock.Mock
}

func (m *mockBookings) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookings) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]*domain.Booking), args.Error(1)
}

func (m *mockBookings) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockBookings) Cancel(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockBookings) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

type mockSettings struct {
	mock.Mock
}

func (m *mockSettings) Get(ctx context.Context) (*domain.BusinessSettings, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BusinessSettings), args.Error(1)
}

type mockOutbox struct {
	mock.Mock
}

func (m *mockOutbox) Enqueue(ctx context.Context, messages ...*domain.OutboxMessage) error {
	return m.Called(ctx, messages).Error(0)
}

type inlineTx struct{}

func (inlineTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var (
	day      = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	admin    = &domain.Session{UserID: "owner", Role: domain.RoleAdmin}
	customer = &domain.Session{UserID: "c1", Role: domain.RoleCustomer, Name: "Dana"}
	stranger = &domain.Session{UserID: "c2", Role: domain.RoleCustomer}
)

func upcoming(slot string) *domain.Booking {
	return &domain.Booking{
		ID:            7,
		CustomerID:    "c1",
		CustomerName:  "Dana",
		CustomerPhone: "0501234567",
		Date:          day,
		TimeSlot:      types.TimeString(slot),
		Category:      domain.CategoryRegular,
		Status:        domain.StatusUpcoming,
	}
}

type fixture struct {
	bookings *mockBookings
	settings *mockSettings
	outbox   *mockOutbox
	svc      *Service
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		bookings: &mockBookings{},
		settings: &mockSettings{},
		outbox:   &mockOutbox{},
	}
	f.svc = NewService(f.bookings, f.settings, f.outbox, inlineTx{}, time.UTC,
		BusinessInfo{Name: "Sharp Cuts", Location: "1 Main St, Haifa"}, nopLogger{})
	f.svc.timeProvider = fixedTime{now: now}
	return f
}

func enqueuedKind(kind domain.NotificationKind) interface{} {
	return mock.MatchedBy(func(msgs []*domain.OutboxMessage) bool {
		if len(msgs) != 1 || msgs[0].Kind != kind {
			return false
		}
		var notice domain.CancellationNotice
		return json.Unmarshal(msgs[0].Payload, &notice) == nil && notice.BookingID == 7
	})
}

func TestCancel_CustomerWithinCutoff(t *testing.T) {
	f := newFixture(day.Add(8 * time.Hour))
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming("11:00"), nil)
	f.settings.On("Get", mock.Anything).Return(domain.DefaultSettings(), nil)
	f.bookings.On("Cancel", mock.Anything, int64(7), domain.ReasonCanceledByCustomer).Return(nil)
	f.outbox.On("Enqueue", mock.Anything, enqueuedKind(domain.NotificationOwnerCancellation)).Return(nil)

	resp, err := f.svc.Cancel(context.Background(), &models.CancelBookingRequest{Session: customer, BookingID: 7})
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusCanceled), resp.Status)
	f.bookings.AssertExpectations(t)
	f.outbox.AssertExpectations(t)
}

func TestCancel_CustomerPastCutoff(t *testing.T) {
	// 09:01, запись в 11:00, окно отмены 120 минут
	f := newFixture(day.Add(9*time.Hour + time.Minute))
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming("11:00"), nil)
	f.settings.On("Get", mock.Anything).Return(nil, settingsRepo.ErrSettingsNotFound)

	_, err := f.svc.Cancel(context.Background(), &models.CancelBookingRequest{Session: customer, BookingID: 7})
	assert.ErrorIs(t, err, ErrCancellationCutoff)

	f.bookings.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
	f.outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
}

func TestCancel_AdminIgnoresCutoffAndNotifiesCustomer(t *testing.T) {
	f := newFixture(day.Add(10*time.Hour + 59*time.Minute))
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming("11:00"), nil)
	f.bookings.On("Cancel", mock.Anything, int64(7), "barber is sick").Return(nil)
	f.outbox.On("Enqueue", mock.Anything, enqueuedKind(domain.NotificationCustomerCancellation)).Return(nil)

	resp, err := f.svc.Cancel(context.Background(), &models.CancelBookingRequest{
		Session:   admin,
		BookingID: 7,
		Reason:    ptr.Ptr("barber is sick"),
	})
	require.NoError(t, err)

	assert.Equal(t, "barber is sick", *resp.CancellationReason)
	f.settings.AssertNotCalled(t, "Get", mock.Anything)
	f.outbox.AssertExpectations(t)
}

func TestCancel_Rejections(t *testing.T) {
	completed := upcoming("11:00")
	completed.Status = domain.StatusCompleted

	tests := []struct {
		name    string
		session *domain.Session
		booking *domain.Booking
		repoErr error
		wantErr error
	}{
		{name: "anonymous", wantErr: ErrNotAuthenticated},
		{name: "foreign booking", session: stranger, booking: upcoming("11:00"), wantErr: ErrAccessDenied},
		{name: "already completed", session: admin, booking: completed, wantErr: ErrCannotCancel},
		{name: "not found", session: customer, repoErr: bookingRepo.ErrBookingNotFound, wantErr: ErrBookingNotFound},
		{name: "store down", session: customer, repoErr: errors.New("conn reset"), wantErr: ErrInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(day)
			if tt.booking != nil {
				f.bookings.On("GetByID", mock.Anything, int64(7)).Return(tt.booking, nil)
			} else {
				f.bookings.On("GetByID", mock.Anything, int64(7)).Return(nil, tt.repoErr)
			}

			_, err := f.svc.Cancel(context.Background(), &models.CancelBookingRequest{Session: tt.session, BookingID: 7})
			assert.ErrorIs(t, err, tt.wantErr)
			f.outbox.AssertNotCalled(t, "Enqueue", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateStatus_Transitions(t *testing.T) {
	t.Run("upcoming to completed", func(t *testing.T) {
		f := newFixture(day)
		f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming("11:00"), nil)
		f.bookings.On("UpdateStatus", mock.Anything, int64(7), domain.StatusCompleted).Return(nil)

		resp, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
			Session: admin, BookingID: 7, Status: "completed",
		})
		require.NoError(t, err)
		assert.Equal(t, "completed", resp.Status)
		f.bookings.AssertExpectations(t)
	})

	t.Run("same status is a no-op", func(t *testing.T) {
		f := newFixture(day)
		f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming("11:00"), nil)

		_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
			Session: admin, BookingID: 7, Status: "upcoming",
		})
		require.NoError(t, err)
		f.bookings.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("terminal status is final", func(t *testing.T) {
		canceled := upcoming("11:00")
		canceled.Status = domain.StatusCanceled
		f := newFixture(day)
		f.bookings.On("GetByID", mock.Anything, int64(7)).Return(canceled, nil)

		_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
			Session: admin, BookingID: 7, Status: "completed",
		})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("cancel through status notifies customer", func(t *testing.T) {
		f := newFixture(day)
		f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming("11:00"), nil)
		f.bookings.On("Cancel", mock.Anything, int64(7), domain.ReasonCanceledByAdmin).Return(nil)
		f.outbox.On("Enqueue", mock.Anything, enqueuedKind(domain.NotificationCustomerCancellation)).Return(nil)

		_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
			Session: admin, BookingID: 7, Status: "canceled",
		})
		require.NoError(t, err)
		f.outbox.AssertExpectations(t)
	})

	t.Run("customer forbidden", func(t *testing.T) {
		f := newFixture(day)
		_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
			Session: customer, BookingID: 7, Status: "completed",
		})
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(day)
		_, err := f.svc.UpdateStatus(context.Background(), &models.UpdateStatusRequest{
			Session: admin, BookingID: 7, Status: "no_show",
		})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestList_ScopesCustomerToOwnBookings(t *testing.T) {
	f := newFixture(day)
	f.bookings.On("List", mock.Anything, mock.MatchedBy(func(filter domain.BookingsFilter) bool {
		return filter.CustomerID != nil && *filter.CustomerID == "c1"
	})).Return([]*domain.Booking{upcoming("11:00")}, nil)

	resp, err := f.svc.List(context.Background(), &models.ListBookingsRequest{Session: customer})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	f = newFixture(day)
	f.bookings.On("List", mock.Anything, mock.MatchedBy(func(filter domain.BookingsFilter) bool {
		return filter.CustomerID == nil
	})).Return([]*domain.Booking{}, nil)

	resp, err = f.svc.List(context.Background(), &models.ListBookingsRequest{Session: admin})
	require.NoError(t, err)
	assert.NotNil(t, resp.Bookings)
}

func TestDelete_AdminOnly(t *testing.T) {
	f := newFixture(day)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), customer, 7), ErrAccessDenied)

	f.bookings.On("Delete", mock.Anything, int64(8)).Return(bookingRepo.ErrBookingNotFound)
	assert.ErrorIs(t, f.svc.Delete(context.Background(), admin, 8), ErrBookingNotFound)
}

func TestCalendar(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Jerusalem")
	require.NoError(t, err)

	f := newFixture(day)
	f.svc.location = loc
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming("10:30"), nil)
	f.settings.On("Get", mock.Anything).Return(domain.DefaultSettings(), nil)

	cal, err := f.svc.Calendar(context.Background(), customer, 7)
	require.NoError(t, err)

	// 10:30 в Иерусалиме 10 марта = 08:30 UTC (IST, +02:00)
	assert.Contains(t, cal.ICS, "DTSTART:20250310T083000Z\r\n")
	assert.Contains(t, cal.ICS, "DTEND:20250310T090000Z\r\n")
	assert.Contains(t, cal.ICS, "SUMMARY:Haircut\r\n")
	assert.Contains(t, cal.ICS, `LOCATION:1 Main St\, Haifa`)
	assert.True(t, strings.HasPrefix(cal.ICS, "BEGIN:VCALENDAR\r\n"))
	assert.Equal(t, "booking-7.ics", cal.Filename)
	assert.Contains(t, cal.GoogleURL, "dates=20250310T083000Z%2F20250310T090000Z")
	assert.Contains(t, cal.GoogleURL, "text=Haircut")
}

func TestCalendar_FoldsLongLines(t *testing.T) {
	const name = "Alexander Konstantinovich Rimsky-Korsakov the Third"

	f := newFixture(day)
	booking := upcoming("10:30")
	booking.CustomerName = name
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(booking, nil)
	f.settings.On("Get", mock.Anything).Return(domain.DefaultSettings(), nil)

	cal, err := f.svc.Calendar(context.Background(), customer, 7)
	require.NoError(t, err)

	require.True(t, strings.HasSuffix(cal.ICS, "\r\n"))
	for _, line := range strings.Split(strings.TrimSuffix(cal.ICS, "\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), 75, "line too long: %q", line)
	}

	unfolded := strings.ReplaceAll(cal.ICS, "\r\n ", "")
	assert.Contains(t, unfolded, "DESCRIPTION:Sharp Cuts appointment for "+name+"\r\n")
}
