package add_expense

import (
	"context"

	"github.com/m04kA/SMC-BarberShop/internal/service/finance/models"
)

type FinanceService interface {
	AddExpense(ctx context.Context, req *models.AddExpenseRequest) (*models.ExpenseResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
