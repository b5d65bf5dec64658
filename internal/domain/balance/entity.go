package balance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Grant is one accrual event: Quantity days become available on Date.
// Date is a civil date (midnight UTC).
type Grant struct {
	Date     time.Time       `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
}

// Schedule is a per-employee list of grants that replaces the renewal
// sheet for that employee.
type Schedule []Grant

// Sorted returns the grants ordered by date.
func (s Schedule) Sorted() Schedule {
	out := make(Schedule, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// OverrideRegistry resolves hardcoded accrual schedules by employee name.
type OverrideRegistry interface {
	Lookup(name string) (Schedule, bool)
}

// StaticRegistry is an in-memory OverrideRegistry.
type StaticRegistry map[string]Schedule

func (r StaticRegistry) Lookup(name string) (Schedule, bool) {
	s, ok := r[name]
	return s, ok
}

// Overlay is the externally collected usage for the month that has no
// sheet yet.
type Overlay struct {
	Used      decimal.Decimal
	Details   string
	UpdatedAt time.Time
}

// Input is everything needed to reconcile one employee's balance.
type Input struct {
	Name        string
	FileBalance Amount
	// FileEnd is the last day of the latest sheet's month. Nil when the
	// period could not be read from the file name.
	FileEnd *time.Time
	Renewal *Grant
	Overlay *Overlay
	Now     time.Time
}

// Result is the reconciled balance with its breakdown.
type Result struct {
	Balance         Amount          `json:"balance"`
	FileBalance     Amount          `json:"file_balance"`
	Bonus           decimal.Decimal `json:"bonus"`
	Grants          []Grant         `json:"grants"`
	OverrideApplied bool            `json:"override_applied"`
	OverlayApplied  bool            `json:"overlay_applied"`
	OverlayUsed     decimal.Decimal `json:"overlay_used"`
	OverlayDetails  string          `json:"overlay_details,omitempty"`
}

// CivilDate truncates t to its calendar date in t's own location and
// returns it as midnight UTC.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
