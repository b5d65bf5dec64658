package pto

import "context"

type PTOService interface {
	Balance(ctx context.Context, name string) (BalanceResponse, error)
	Months(ctx context.Context) ([]MonthSummary, error)
	Month(ctx context.Context, name, fileID string) (MonthResponse, error)
	Renewal(ctx context.Context, name string) (RenewalResponse, error)
	Warm(ctx context.Context) error
}
