package balance

import (
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/balance"
	"github.com/shopspring/decimal"
)

// Reconciler combines the latest sheet balance, accruals the sheet has not
// absorbed yet and the current month's overlay into one figure. It does no
// I/O; "now" comes in with the input.
type Reconciler struct {
	loc       *time.Location
	overrides balance.OverrideRegistry
}

func NewReconciler(loc *time.Location, overrides balance.OverrideRegistry) *Reconciler {
	if loc == nil {
		loc = time.UTC
	}
	return &Reconciler{loc: loc, overrides: overrides}
}

func (r *Reconciler) Reconcile(in balance.Input) balance.Result {
	now := in.Now.In(r.loc)
	today := balance.CivilDate(now)

	result := balance.Result{
		FileBalance: in.FileBalance,
		Bonus:       decimal.Zero,
		Grants:      []balance.Grant{},
		OverlayUsed: decimal.Zero,
	}

	schedule, override := r.schedule(in)
	result.OverrideApplied = override
	for _, g := range schedule {
		if r.due(g, in.FileEnd, today) {
			result.Bonus = result.Bonus.Add(g.Quantity)
			result.Grants = append(result.Grants, g)
		}
	}

	if in.Overlay != nil && r.sameMonth(in.Overlay.UpdatedAt, now) {
		result.OverlayApplied = true
		result.OverlayUsed = in.Overlay.Used
		result.OverlayDetails = in.Overlay.Details
	}

	// Add and Sub leave Unbounded and Unknown untouched.
	result.Balance = in.FileBalance.Add(result.Bonus).Sub(result.OverlayUsed)
	return result
}

// schedule resolves the per-employee override before the renewal sheet.
func (r *Reconciler) schedule(in balance.Input) (balance.Schedule, bool) {
	if r.overrides != nil {
		if s, ok := r.overrides.Lookup(in.Name); ok {
			return s.Sorted(), true
		}
	}
	if in.Renewal != nil {
		return balance.Schedule{*in.Renewal}, false
	}
	return nil, false
}

// due reports whether a grant has happened by today and falls after the
// sheet's month, so the sheet cannot already include it.
func (r *Reconciler) due(g balance.Grant, fileEnd *time.Time, today time.Time) bool {
	if fileEnd == nil {
		return false
	}
	date := balance.CivilDate(g.Date)
	return !today.Before(date) && date.After(balance.CivilDate(*fileEnd))
}

func (r *Reconciler) sameMonth(updatedAt, now time.Time) bool {
	if updatedAt.IsZero() {
		return false
	}
	u := updatedAt.In(r.loc)
	return u.Year() == now.Year() && u.Month() == now.Month()
}
