package list_expenses

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/service/finance"
	"github.com/m04kA/SMC-BarberShop/internal/service/finance/models"
)

const (
	msgInvalidPeriod    = "некорректный период"
	msgNotAuthenticated = "требуется авторизация"
	msgForbidden        = "доступно только администратору"
)

type Handler struct {
	service FinanceService
	logger  Logger
}

func NewHandler(service FinanceService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/admin/expenses?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return
	}

	req, err := ParsePeriod(r, session)
	if err != nil {
		h.logger.Warn("GET /admin/expenses - Invalid period: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.ListExpenses(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, finance.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, finance.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /admin/expenses - Failed to list expenses: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/expenses - Expenses retrieved: count=%d", len(result.Expenses))
	handlers.RespondJSON(w, http.StatusOK, result)
}

// ParsePeriod читает необязательные границы периода from/to
func ParsePeriod(r *http.Request, session *domain.Session) (*models.PeriodRequest, error) {
	from, err := handlers.OptionalQueryDate(r, "from")
	if err != nil {
		return nil, err
	}
	to, err := handlers.OptionalQueryDate(r, "to")
	if err != nil {
		return nil, err
	}
	return &models.PeriodRequest{Session: session, From: from, To: to}, nil
}
