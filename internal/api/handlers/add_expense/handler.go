package add_expense

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-BarberShop/internal/api/handlers"
	"github.com/m04kA/SMC-BarberShop/internal/api/middleware"
	"github.com/m04kA/SMC-BarberShop/internal/service/finance"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgNotAuthenticated   = "требуется авторизация"
	msgForbidden          = "доступно только администратору"
	msgInvalidExpense     = "название обязательно, сумма должна быть положительной"
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

// Handle POST /api/v1/admin/expenses
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return
	}

	var req AddExpenseRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/expenses - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	serviceReq, err := req.ToServiceRequest(session)
	if err != nil {
		h.logger.Warn("POST /admin/expenses - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.service.AddExpense(r.Context(), serviceReq)
	if err != nil {
		switch {
		case errors.Is(err, finance.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, finance.ErrInvalidInput):
			h.logger.Warn("POST /admin/expenses - Invalid expense: %v", err)
			handlers.RespondBadRequest(w, msgInvalidExpense)

		default:
			h.logger.Error("POST /admin/expenses - Failed to add expense: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/expenses - Expense added: id=%d, amount=%s", result.ID, result.Amount)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
