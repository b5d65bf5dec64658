package attendance

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/balance"
	"github.com/shopspring/decimal"
)

type UsageKind string

const (
	UsageFullDay UsageKind = "full"
	UsageHalfDay UsageKind = "half"
)

// Labels and cell keywords used by the monthly sheets.
const (
	NameLabel      = "성명"
	BalanceLabel   = "연차잔여일"
	FullDayKeyword = "연차"
	HalfDayKeyword = "반차"
)

// UsageEvent is one day of leave recorded in a monthly sheet.
type UsageEvent struct {
	Day  int       `json:"day"`
	Kind UsageKind `json:"kind"`
}

func (e UsageEvent) Amount() decimal.Decimal {
	if e.Kind == UsageHalfDay {
		return decimal.New(5, -1)
	}
	return decimal.NewFromInt(1)
}

// String renders the event as "3일(연차)" or "10일(반차)".
func (e UsageEvent) String() string {
	label := FullDayKeyword
	if e.Kind == UsageHalfDay {
		label = HalfDayKeyword
	}
	return fmt.Sprintf("%d일(%s)", e.Day, label)
}

// MonthlyRecord is one employee's row in a monthly sheet.
type MonthlyRecord struct {
	Name    string
	Usage   []UsageEvent
	Used    decimal.Decimal
	Balance balance.Amount
}

// UsageDescription lists the usage days, or "-" when there are none.
func (r MonthlyRecord) UsageDescription() string {
	if len(r.Usage) == 0 {
		return "-"
	}
	parts := make([]string, len(r.Usage))
	for i, u := range r.Usage {
		parts[i] = u.String()
	}
	return strings.Join(parts, ", ")
}

// Sheet is the parsed content of one monthly file, keyed by employee name.
// When a name appears more than once the last row wins and the name is
// listed in Duplicates.
type Sheet struct {
	Records    map[string]MonthlyRecord
	Duplicates []string
}

func (s Sheet) Lookup(name string) (MonthlyRecord, bool) {
	r, ok := s.Records[name]
	return r, ok
}

func (s Sheet) IsEmpty() bool {
	return len(s.Records) == 0
}

// Period is the reporting month encoded in a monthly file name.
type Period struct {
	Year  int
	Month time.Month
}

var (
	periodWithUnit = regexp.MustCompile(`(\d{4})\s*_\s*(\d{1,2})\s*월`)
	periodBare     = regexp.MustCompile(`(\d{4})_(\d{1,2})(?:\D|$)`)
)

// ParsePeriod reads "{year}_{month}" (optionally followed by 월) from a
// file name such as "2026_1월 근태.xlsx".
func ParsePeriod(filename string) (Period, bool) {
	m := periodWithUnit.FindStringSubmatch(filename)
	if m == nil {
		m = periodBare.FindStringSubmatch(filename)
	}
	if m == nil {
		return Period{}, false
	}

	year, err := strconv.Atoi(m[1])
	if err != nil {
		return Period{}, false
	}
	month, err := strconv.Atoi(m[2])
	if err != nil || month < 1 || month > 12 {
		return Period{}, false
	}
	return Period{Year: year, Month: time.Month(month)}, true
}

// EndDate is the last calendar day of the period, as midnight UTC.
func (p Period) EndDate() time.Time {
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC)
}

// Before orders periods chronologically.
func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}
