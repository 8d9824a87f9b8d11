package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Expense is an append-only ledger entry recorded by the admin
type Expense struct {
	ID        int64
	Title     string
	Amount    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
}

// FinancialSummary aggregates income and expenses over a period
type FinancialSummary struct {
	From           *time.Time
	To             *time.Time
	CompletedCount int64
	PricePerCut    decimal.Decimal
	Income         decimal.Decimal
	Expenses       decimal.Decimal
	Net            decimal.Decimal
	Currency       string
}

// Summarize computes income = completed * price, net = income - expenses
func Summarize(completed int64, pricePerCut, expenses decimal.Decimal) FinancialSummary {
	income := pricePerCut.Mul(decimal.NewFromInt(completed))
	return FinancialSummary{
		CompletedCount: completed,
		PricePerCut:    pricePerCut,
		Income:         income,
		Expenses:       expenses,
		Net:            income.Sub(expenses),
	}
}

// WaitlistRequest is a customer's request to be told about a freed slot on a full day
type WaitlistRequest struct {
	ID         int64
	Date       time.Time
	Name       string
	Phone      string
	CustomerID *string
	CreatedAt  time.Time
}
