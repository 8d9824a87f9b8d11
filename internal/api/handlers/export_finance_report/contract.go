package export_finance_report

import (
	"context"

	"github.com/m04kA/SMC-BarberShop/internal/service/finance/models"
)

type FinanceService interface {
	ExportReport(ctx context.Context, req *models.PeriodRequest) (*models.Report, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
