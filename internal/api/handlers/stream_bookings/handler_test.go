package stream_bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	bookingRepo "github.com/m04kA/SMC-BarberShop/internal/infra/storage/booking"
	"github.com/m04kA/SMC-BarberShop/internal/service/bookings/models"
)

type countingService struct {
	calls atomic.Int32
	last  atomic.Pointer[models.ListBookingsRequest]
}

func (s *countingService) List(_ context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	n := s.calls.Add(1)
	s.last.Store(req)
	return &models.BookingListResponse{Bookings: make([]models.BookingResponse, n)}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestHandle_SnapshotThenUpdates(t *testing.T) {
	svc := &countingService{}
	hub := bookingRepo.NewBroadcaster()
	h := NewHandler(svc, hub, nopLogger{})

	session := &domain.Session{UserID: "c1", Role: domain.RoleCustomer}
	ctx, cancel := context.WithCancel(middleware.WithSession(context.Background(), session))
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/stream?from=2025-03-10", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.Handle(rec, req)
	}()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)

	hub.Publish(bookingRepo.Change{Date: "2025-03-10"})
	require.Eventually(t, func() bool { return svc.calls.Load() == 2 }, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("stream did not stop after client disconnect")
	}

	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, 2, strings.Count(rec.Body.String(), "event: bookings\n"))
	assert.Equal(t, 0, hub.Subscribers())

	last := svc.last.Load()
	require.NotNil(t, last)
	assert.Equal(t, session, last.Session)
	require.NotNil(t, last.StartDate)
	assert.Equal(t, "2025-03-10", last.StartDate.Format(domain.DateFormat))
}

func TestHandle_RequiresSession(t *testing.T) {
	h := NewHandler(&countingService{}, bookingRepo.NewBroadcaster(), nopLogger{})

	rec := httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings/stream", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_ClosedHubEndsStream(t *testing.T) {
	svc := &countingService{}
	hub := bookingRepo.NewBroadcaster()
	hub.Close()
	h := NewHandler(svc, hub, nopLogger{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings/stream", nil)
	req = req.WithContext(middleware.WithSession(req.Context(), &domain.Session{UserID: "owner", Role: domain.RoleAdmin}))
	rec := httptest.NewRecorder()

	h.Handle(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, strings.Count(rec.Body.String(), "event: bookings\n"))
}
