package add_expense

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
	"github.com/m04kA/SMC-BarberShop/internal/service/finance/models"
)

// AddExpenseRequest HTTP request model
// amount принимает число или строку ("12.50"); date по умолчанию сегодня
type AddExpenseRequest struct {
	Title  string          `json:"title" validate:"required,max=200"`
	Amount decimal.Decimal `json:"amount"`
	Date   *string         `json:"date,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *AddExpenseRequest) ToServiceRequest(session *domain.Session) (*models.AddExpenseRequest, error) {
	req := &models.AddExpenseRequest{
		Session: session,
		Title:   r.Title,
		Amount:  r.Amount,
	}
	if r.Date != nil && *r.Date != "" {
		date, err := time.Parse(domain.DateFormat, *r.Date)
		if err != nil {
			return nil, err
		}
		req.Date = &date
	}
	return req, nil
}
