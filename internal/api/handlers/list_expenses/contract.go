package list_expenses

import (
	"context"

	"github.com/m04kA/SMC-BarberShop/internal/service/finance/models"
)

type FinanceService interface {
	ListExpenses(ctx context.Context, req *models.PeriodRequest) (*models.ExpenseListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
