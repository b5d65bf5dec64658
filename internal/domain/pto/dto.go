package pto

import (
	"github.com/auction1/pto-backend-go/internal/domain/attendance"
	"github.com/auction1/pto-backend-go/internal/domain/balance"
	"github.com/shopspring/decimal"
)

// BalanceResponse is the reconciled current balance of one employee.
type BalanceResponse struct {
	Name       string `json:"name"`
	SourceFile string `json:"source_file"`
	Period     string `json:"period,omitempty"`
	balance.Result
}

type MonthSummary struct {
	FileID string `json:"file_id"`
	Name   string `json:"name"`
	Period string `json:"period,omitempty"`
}

func NewMonthSummary(m MonthlyFile) MonthSummary {
	s := MonthSummary{FileID: m.ID, Name: m.Name}
	if m.HasPeriod {
		s.Period = m.Period.String()
	}
	return s
}

// MonthResponse is one employee's row of one monthly sheet.
type MonthResponse struct {
	MonthSummary
	Used        decimal.Decimal         `json:"used"`
	Balance     balance.Amount          `json:"balance"`
	Usage       []attendance.UsageEvent `json:"usage"`
	Description string                  `json:"description"`
}

type RenewalResponse struct {
	Name     string          `json:"name"`
	Date     string          `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
	Status   string          `json:"status"`
}
