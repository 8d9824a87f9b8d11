package set_day_shifts

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/service/shifts"
	"github.com/m04kA/SMC-BarberShop/internal/service/shifts/models"
)

const (
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается HH:MM"
	msgNotAuthenticated   = "требуется авторизация"
	msgForbidden          = "доступно только администратору"
	msgInvalidWindow      = "начало смены должно быть раньше конца"
	msgDuplicate          = "смены в запросе повторяются"
	msgUncovered          = "есть активные записи вне новых смен; удалите смену с подтверждением отмены"
	msgConcurrentEdit     = "смены дня изменены другим запросом, обновите данные и повторите"
)

type Handler struct {
	service ShiftService
	logger  Logger
}

func NewHandler(service ShiftService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/admin/days/{date}/shifts
// Полностью заменяет список смен дня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("PUT /admin/days/{date}/shifts - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return
	}

	var req SetDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /admin/days/{date}/shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	windows, err := req.ToWindowInputs()
	if err != nil {
		h.logger.Warn("PUT /admin/days/{date}/shifts - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.SetDay(r.Context(), &models.SetDayRequest{
		Session: session,
		Date:    date,
		Windows: windows,
	})
	if err != nil {
		var uncovered *shifts.UncoveredError
		switch {
		case errors.Is(err, shifts.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.As(err, &uncovered):
			h.logger.Warn("PUT /admin/days/{date}/shifts - Uncovered bookings: %v", uncovered.BookingIDs)
			handlers.RespondErrorWithDetails(w, http.StatusConflict, msgUncovered, UncoveredResponse{BookingIDs: uncovered.BookingIDs})

		case errors.Is(err, shifts.ErrDuplicateShift):
			handlers.RespondBadRequest(w, msgDuplicate)

		case errors.Is(err, shifts.ErrConcurrentEdit):
			handlers.RespondConflict(w, msgConcurrentEdit)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("PUT /admin/days/{date}/shifts - Invalid window: %v", err)
			handlers.RespondUnprocessable(w, msgInvalidWindow)

		default:
			h.logger.Error("PUT /admin/days/{date}/shifts - Failed to replace shifts: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /admin/days/{date}/shifts - Shifts replaced: date=%s, count=%d", result.Date, len(result.Shifts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
