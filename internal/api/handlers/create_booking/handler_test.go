package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	createBooking "github.com/m04kA/SMC-BarberShop/internal/usecase/create_booking"
	"github.com/m04kA/SMC-BarberShop/pkg/types"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	args := m.Called(ctx, req)
	if resp, ok := args.Get(0).(*createBooking.Response); ok {
		return resp, args.Error(1)
	}
	return nil, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var customer = &domain.Session{UserID: "c1", Role: domain.RoleCustomer, Name: "Dana", Phone: "0501234567"}

func newRequest(body string, session *domain.Session) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	if session != nil {
		req = req.WithContext(middleware.WithSession(req.Context(), session))
	}
	return req
}

func TestHandle_Created(t *testing.T) {
	uc := &mockUseCase{}
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createBooking.Request) bool {
		return req.Session == customer &&
			req.Date.Equal(date) &&
			req.TimeSlot == types.TimeString("10:30") &&
			req.Category == domain.CategoryRegular
	})).Return(&createBooking.Response{
		ID:            42,
		CustomerID:    "c1",
		CustomerName:  "Dana",
		CustomerPhone: "0501234567",
		Date:          date,
		TimeSlot:      "10:30",
		Category:      domain.CategoryRegular,
		Status:        domain.StatusUpcoming,
	}, nil)

	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, newRequest(`{"date":"2025-03-10","timeSlot":"10:30"}`, customer))

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "upcoming", resp.Status)
	uc.AssertExpectations(t)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "slot taken", err: createBooking.ErrSlotTaken, want: http.StatusConflict},
		{name: "day closed", err: createBooking.ErrDayClosed, want: http.StatusUnprocessableEntity},
		{name: "slot not offered", err: createBooking.ErrSlotNotOffered, want: http.StatusUnprocessableEntity},
		{name: "past date", err: createBooking.ErrInvalidDate, want: http.StatusBadRequest},
		{name: "beyond horizon", err: createBooking.ErrDateTooFarInFuture, want: http.StatusBadRequest},
		{name: "store unavailable", err: fmt.Errorf("%w: timeout", createBooking.ErrStoreUnavailable), want: http.StatusServiceUnavailable},
		{name: "unexpected", err: fmt.Errorf("boom"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, newRequest(`{"date":"2025-03-10","timeSlot":"10:30","category":"reserved"}`, customer))

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandle_BadRequests(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		session *domain.Session
		want    int
	}{
		{name: "no session", body: `{"date":"2025-03-10","timeSlot":"10:30"}`, want: http.StatusUnauthorized},
		{name: "empty body", body: ``, session: customer, want: http.StatusBadRequest},
		{name: "unknown field", body: `{"date":"2025-03-10","timeSlot":"10:30","price":1}`, session: customer, want: http.StatusBadRequest},
		{name: "missing slot", body: `{"date":"2025-03-10"}`, session: customer, want: http.StatusBadRequest},
		{name: "bad category", body: `{"date":"2025-03-10","timeSlot":"10:30","category":"vip"}`, session: customer, want: http.StatusBadRequest},
		{name: "bad date", body: `{"date":"10.03.2025","timeSlot":"10:30"}`, session: customer, want: http.StatusBadRequest},
		{name: "bad time", body: `{"date":"2025-03-10","timeSlot":"25:99"}`, session: customer, want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}

			rec := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(rec, newRequest(tt.body, tt.session))

			assert.Equal(t, tt.want, rec.Code)
			uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
		})
	}
}
