package get_day_shifts

import (
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

const msgInvalidDate = "некорректный формат даты, ожидается YYYY-MM-DD"

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

// Handle GET /api/v1/days/{date}/shifts
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	date, err := handlers.PathDate(r, "date")
	if err != nil {
		h.logger.Warn("GET /days/{date}/shifts - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.GetDay(r.Context(), date)
	if err != nil {
		h.logger.Error("GET /days/{date}/shifts - Failed to get shifts: date=%s, error=%v", date.Format(domain.DateFormat), err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /days/{date}/shifts - Shifts retrieved: date=%s, count=%d", result.Date, len(result.Shifts))
	handlers.RespondJSON(w, http.StatusOK, result)
}
