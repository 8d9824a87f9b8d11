package get_booking_calendar

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/service/bookings"
)

const (
	msgInvalidBookingID = "некорректный ID бронирования"
	msgNotAuthenticated = "требуется авторизация"
	msgNotFound         = "бронирование не найдено"
	msgForbidden        = "доступ запрещен"

	contentTypeICS = "text/calendar"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/calendar
// Accept: text/calendar - файл .ics; иначе JSON с ICS и ссылкой Google Calendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathInt64(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/calendar - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return
	}

	entry, err := h.service.Calendar(r.Context(), session, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("GET /bookings/{id}/calendar - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, bookings.ErrAccessDenied):
			h.logger.Warn("GET /bookings/{id}/calendar - Access denied: booking_id=%d, user_id=%s", bookingID, session.UserID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, bookings.ErrNotAuthenticated):
			handlers.RespondUnauthorized(w, msgNotAuthenticated)

		default:
			h.logger.Error("GET /bookings/{id}/calendar - Failed to build calendar entry: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /bookings/{id}/calendar - Calendar entry built: booking_id=%d", bookingID)

	if strings.Contains(r.Header.Get("Accept"), contentTypeICS) {
		w.Header().Set("Content-Type", contentTypeICS+"; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", entry.Filename))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(entry.ICS))
		return
	}

	handlers.RespondJSON(w, http.StatusOK, entry)
}
