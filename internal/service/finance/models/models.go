package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

// PeriodRequest запрос за период; пустые границы означают «без ограничения»
type PeriodRequest struct {
	Session *domain.Session
	From    *time.Time
	To      *time.Time
}

// AddExpenseRequest запрос на добавление расхода
type AddExpenseRequest struct {
	Session *domain.Session
	Title   string
	Amount  decimal.Decimal
	Date    *time.Time // nil - сегодня в часовом поясе барбершопа
}

// SummaryResponse финансовая сводка за период
type SummaryResponse struct {
	From           *string         `json:"from,omitempty"`
	To             *string         `json:"to,omitempty"`
	CompletedCount int64           `json:"completedCount"`
	PricePerCut    decimal.Decimal `json:"pricePerCut"`
	Income         decimal.Decimal `json:"income"`
	Expenses       decimal.Decimal `json:"expenses"`
	Net            decimal.Decimal `json:"net"`
	Currency       string          `json:"currency"`
}

// ExpenseResponse расход в ответе
type ExpenseResponse struct {
	ID        int64           `json:"id"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Date      string          `json:"date"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ExpenseListResponse список расходов
type ExpenseListResponse struct {
	Expenses []ExpenseResponse `json:"expenses"`
}

// Report файл отчёта
type Report struct {
	Filename    string
	ContentType string
	Content     []byte
}

// FromDomainSummary конвертирует domain модель в DTO
func FromDomainSummary(s domain.FinancialSummary) *SummaryResponse {
	return &SummaryResponse{
		From:           formatDate(s.From),
		To:             formatDate(s.To),
		CompletedCount: s.CompletedCount,
		PricePerCut:    s.PricePerCut,
		Income:         s.Income,
		Expenses:       s.Expenses,
		Net:            s.Net,
		Currency:       s.Currency,
	}
}

// FromDomainExpense конвертирует domain модель в DTO
func FromDomainExpense(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ID:        e.ID,
		Title:     e.Title,
		Amount:    e.Amount,
		Date:      e.Date.Format(domain.DateFormat),
		CreatedAt: e.CreatedAt,
	}
}

// FromDomainExpenseList конвертирует список domain моделей в DTO
func FromDomainExpenseList(expenses []*domain.Expense) *ExpenseListResponse {
	resp := &ExpenseListResponse{Expenses: make([]ExpenseResponse, 0, len(expenses))}
	for _, e := range expenses {
		resp.Expenses = append(resp.Expenses, FromDomainExpense(e))
	}
	return resp
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateFormat)
	return &s
}
