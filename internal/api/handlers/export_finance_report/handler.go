package export_finance_report

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

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

// Handle GET /api/v1/admin/finance/report.xlsx?from=&to=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.GetSession(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgNotAuthenticated)
		return
	}

	req, err := listExpenses.ParsePeriod(r, session)
	if err != nil {
		h.logger.Warn("GET /admin/finance/report.xlsx - Invalid period: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPeriod)
		return
	}

	report, err := h.service.ExportReport(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, finance.ErrAccessDenied):
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, finance.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidPeriod)

		default:
			h.logger.Error("GET /admin/finance/report.xlsx - Failed to export report: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Content); err != nil {
		h.logger.Warn("GET /admin/finance/report.xlsx - Failed to write report: %v", err)
		return
	}

	h.logger.Info("GET /admin/finance/report.xlsx - Report exported: filename=%s, size=%d", report.Filename, len(report.Content))
}
