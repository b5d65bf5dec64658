package renewal

import (
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/renewal"
	"github.com/auction1/pto-backend-go/internal/pkg/sheet"
	"github.com/shopspring/decimal"
)

const (
	yearRow   = 1
	headerRow = 3
)

// Extractor reads the renewal sheet: the target year sits in the first
// column of the second row and the header row is fixed at the fourth row.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract parses grid. Rows whose month, day or quantity cannot be read are
// skipped.
func (e *Extractor) Extract(grid sheet.Grid, now time.Time) renewal.Sheet {
	year, ok := sheet.Int(grid.Cell(yearRow, 0))
	if !ok || year <= 0 {
		year = now.Year()
	}
	result := renewal.Sheet{Year: year, Records: map[string]renewal.Record{}}

	monthCol, dayCol, quantityCol := -1, -1, -1
	for c, cell := range grid.Row(headerRow) {
		switch sheet.Normalize(cell) {
		case renewal.MonthHeader:
			if monthCol == -1 {
				monthCol = c
			}
		case renewal.DayHeader:
			if dayCol == -1 {
				dayCol = c
			}
		case renewal.QuantityHeader:
			if quantityCol == -1 {
				quantityCol = c
			}
		}
	}
	if monthCol == -1 || dayCol == -1 {
		return result
	}

	seen := map[string]bool{}
	for r := headerRow + 1; r < grid.Len(); r++ {
		name := sheet.Normalize(grid.Cell(r, 0))
		if sheet.IsBlank(name) || name == renewal.NameHeader {
			continue
		}

		date, ok := civilDate(year, grid.Cell(r, monthCol), grid.Cell(r, dayCol))
		if !ok {
			continue
		}

		quantity := decimal.Zero
		if raw := grid.Cell(r, quantityCol); quantityCol != -1 && !sheet.IsBlank(raw) {
			v, ok := sheet.Number(raw)
			if !ok {
				continue
			}
			quantity = v
		}

		if seen[name] {
			result.Duplicates = append(result.Duplicates, name)
		}
		seen[name] = true
		result.Records[name] = renewal.Record{Name: name, Date: date, Quantity: quantity}
	}

	return result
}

func civilDate(year int, monthCell, dayCell string) (time.Time, bool) {
	month, ok := sheet.Int(monthCell)
	if !ok || month < 1 || month > 12 {
		return time.Time{}, false
	}
	day, ok := sheet.Int(dayCell)
	if !ok || day < 1 {
		return time.Time{}, false
	}
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Month() != time.Month(month) {
		return time.Time{}, false
	}
	return date, true
}
