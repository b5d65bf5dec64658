package renewal

import (
	"time"

	"github.com/shopspring/decimal"
)

// Header labels of the renewal sheet, compared after whitespace removal.
const (
	NameHeader     = "이름"
	MonthHeader    = "월"
	DayHeader      = "일"
	QuantityHeader = "올해발생연차개수"
)

type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusCompleted Status = "completed"
)

// Record is one employee's next accrual.
type Record struct {
	Name     string
	Date     time.Time
	Quantity decimal.Decimal
}

// StatusAt reports whether the accrual date has been reached on the civil
// day today.
func (r Record) StatusAt(today time.Time) Status {
	if r.Date.After(today) {
		return StatusUpcoming
	}
	return StatusCompleted
}

// Sheet is the parsed renewal spreadsheet.
type Sheet struct {
	Year       int
	Records    map[string]Record
	Duplicates []string
}

func (s Sheet) Lookup(name string) (Record, bool) {
	r, ok := s.Records[name]
	return r, ok
}
