package add_shift

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
	msgDuplicate          = "такая смена уже есть"
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

// Handle POST /api/v1/admin/days/{date}/shifts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("POST /admin/days/{date}/shifts - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return
	}

	var req ShiftWindowRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/days/{date}/shifts - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	window, err := req.ToWindowInput()
	if err != nil {
		h.logger.Warn("POST /admin/days/{date}/shifts - Invalid time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.service.AddShift(r.Context(), &models.AddShiftRequest{
		Session: session,
		Date:    date,
		Window:  window,
	})
	if err != nil {
		switch {
		case errors.Is(err, shifts.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, shifts.ErrInvalidInput):
			h.logger.Warn("POST /admin/days/{date}/shifts - Invalid window: %v", err)
			handlers.RespondUnprocessable(w, msgInvalidWindow)

		case errors.Is(err, shifts.ErrDuplicateShift):
			h.logger.Warn("POST /admin/days/{date}/shifts - Duplicate window: %s-%s", req.Start, req.End)
			handlers.RespondConflict(w, msgDuplicate)

		default:
			h.logger.Error("POST /admin/days/{date}/shifts - Failed to add shift: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/days/{date}/shifts - Shift added: id=%s, window=%s-%s", result.ID, result.Start, result.End)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
