package get_open_days

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/service/shifts"
)

const (
	msgInvalidDate  = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidRange = "некорректный диапазон дат"
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

// Handle GET /api/v1/days?from=YYYY-MM-DD&to=YYYY-MM-DD
// Возвращает даты, на которые назначены смены
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		h.logger.Warn("GET /days - Invalid from: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		h.logger.Warn("GET /days - Invalid to: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.OpenDays(r.Context(), from, to)
	if err != nil {
		if errors.Is(err, shifts.ErrInvalidInput) {
			h.logger.Warn("GET /days - Invalid range: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		h.logger.Error("GET /days - Failed to get open days: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /days - Open days retrieved: count=%d", len(result.Dates))
	handlers.RespondJSON(w, http.StatusOK, result)
}
