package balance

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type State int

const (
	StateUnknown State = iota
	StateKnown
	StateUnbounded
)

func (s State) String() string {
	switch s {
	case StateKnown:
		return "known"
	case StateUnbounded:
		return "unbounded"
	default:
		return "unknown"
	}
}

// Amount is a PTO balance read from a sheet. A blank balance cell means the
// employee has no cap (Unbounded); a cell that cannot be read at all is
// Unknown. Arithmetic only changes Known amounts.
type Amount struct {
	state State
	value decimal.Decimal
}

func Known(v decimal.Decimal) Amount {
	return Amount{state: StateKnown, value: v}
}

func Unbounded() Amount {
	return Amount{state: StateUnbounded}
}

func Unknown() Amount {
	return Amount{state: StateUnknown}
}

func (a Amount) State() State {
	return a.state
}

// Value returns the number and whether the amount is Known.
func (a Amount) Value() (decimal.Decimal, bool) {
	return a.value, a.state == StateKnown
}

func (a Amount) IsKnown() bool {
	return a.state == StateKnown
}

func (a Amount) Add(d decimal.Decimal) Amount {
	if a.state != StateKnown {
		return a
	}
	return Known(a.value.Add(d))
}

func (a Amount) Sub(d decimal.Decimal) Amount {
	if a.state != StateKnown {
		return a
	}
	return Known(a.value.Sub(d))
}

func (a Amount) Equal(b Amount) bool {
	if a.state != b.state {
		return false
	}
	return a.state != StateKnown || a.value.Equal(b.value)
}

// String renders the amount for display: "10.5", "∞" or "-".
func (a Amount) String() string {
	switch a.state {
	case StateKnown:
		return a.value.String()
	case StateUnbounded:
		return "∞"
	default:
		return "-"
	}
}

type amountJSON struct {
	State   string   `json:"state"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
}

func (a Amount) MarshalJSON() ([]byte, error) {
	out := amountJSON{State: a.state.String(), Display: a.String()}
	if a.state == StateKnown {
		f := a.value.InexactFloat64()
		out.Value = &f
	}
	return json.Marshal(out)
}
