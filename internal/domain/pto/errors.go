package pto

import "errors"

var (
	ErrNoMonthlyFiles   = errors.New("no monthly attendance files")
	ErrRecordNotFound   = errors.New("no attendance record for this employee")
	ErrMonthNotFound    = errors.New("monthly file not found")
	ErrRenewalNotFound  = errors.New("no renewal record for this employee")
	ErrDataUnavailable  = errors.New("data source unavailable")
	ErrInvalidOverrides = errors.New("invalid accrual overrides document")
)
