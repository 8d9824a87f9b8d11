package get_finance_summary

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	listExpenses "github.com/m04kA/SMC-BarberShop/internal/api/handlers/list_expenses"
	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/service/finance"
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

// Handle GET /api/v1/admin/finance/summary?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return
	}

	req, err := listExpenses.ParsePeriod(r, session)
	if err != nil {
		h.logger.Warn("GET /admin/finance/summary - Invalid period: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	result, err := h.service.Summary(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, finance.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, finance.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /admin/finance/summary - Failed to build summary: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /admin/finance/summary - Summary built: completed=%d, net=%s", result.CompletedCount, result.Net)
	handlers.RespondJSON(w, http.StatusOK, result)
}
