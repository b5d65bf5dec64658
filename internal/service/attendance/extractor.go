package attendance

import (
	"strconv"
	"strings"

	"github.com/auction1/pto-backend-go/internal/domain/attendance"
	"github.com/auction1/pto-backend-go/internal/domain/balance"
	"github.com/auction1/pto-backend-go/internal/pkg/sheet"
	"github.com/shopspring/decimal"
)

// Extractor reads monthly attendance sheets.
//
// Layout: a header row holds the name label and one column per day of the
// month (headers 1..31). Each employee occupies two rows; the usage marks
// sit on the first and the end-of-month balance sits one row below, in the
// column whose header (on the header row or the row under it) carries the
// balance label.
type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

type dateColumn struct {
	index int
	day   int
}

// Extract parses grid. A grid without a name header yields an empty Sheet.
func (e *Extractor) Extract(grid sheet.Grid) attendance.Sheet {
	result := attendance.Sheet{Records: map[string]attendance.MonthlyRecord{}}

	headerRow := e.findHeaderRow(grid)
	if headerRow == -1 {
		return result
	}
	balanceCol := e.findBalanceColumn(grid, headerRow)

	nameCol := -1
	var dateCols []dateColumn
	for c, cell := range grid.Row(headerRow) {
		label := sheet.Normalize(cell)
		if label == attendance.NameLabel && nameCol == -1 {
			nameCol = c
			continue
		}
		if day, ok := parseDay(label); ok {
			dateCols = append(dateCols, dateColumn{index: c, day: day})
		}
	}
	if nameCol == -1 {
		return result
	}

	seen := map[string]bool{}
	for r := headerRow + 1; r < grid.Len(); r++ {
		name := sheet.Normalize(grid.Cell(r, nameCol))
		if sheet.IsBlank(name) {
			continue
		}

		record := attendance.MonthlyRecord{
			Name:    name,
			Usage:   []attendance.UsageEvent{},
			Used:    decimal.Zero,
			Balance: e.readBalance(grid, r+1, balanceCol),
		}
		for _, dc := range dateCols {
			val := grid.Cell(r, dc.index)
			var event attendance.UsageEvent
			switch {
			case strings.Contains(val, attendance.FullDayKeyword):
				event = attendance.UsageEvent{Day: dc.day, Kind: attendance.UsageFullDay}
			case strings.Contains(val, attendance.HalfDayKeyword):
				event = attendance.UsageEvent{Day: dc.day, Kind: attendance.UsageHalfDay}
			default:
				continue
			}
			record.Usage = append(record.Usage, event)
			record.Used = record.Used.Add(event.Amount())
		}

		if seen[name] {
			result.Duplicates = append(result.Duplicates, name)
		}
		seen[name] = true
		result.Records[name] = record
	}

	return result
}

func (e *Extractor) findHeaderRow(grid sheet.Grid) int {
	for r := 0; r < grid.Len(); r++ {
		for _, cell := range grid.Row(r) {
			if strings.Contains(sheet.Normalize(cell), attendance.NameLabel) {
				return r
			}
		}
	}
	return -1
}

func (e *Extractor) findBalanceColumn(grid sheet.Grid, headerRow int) int {
	for _, r := range []int{headerRow, headerRow + 1} {
		for c, cell := range grid.Row(r) {
			if strings.Contains(sheet.Normalize(cell), attendance.BalanceLabel) {
				return c
			}
		}
	}
	return -1
}

// readBalance interprets the balance cell: blank means no cap, a number is
// the balance, anything else (or no balance column) is unknown. A row past
// the end is blank; the reader drops trailing empty rows.
func (e *Extractor) readBalance(grid sheet.Grid, r, c int) balance.Amount {
	if c == -1 {
		return balance.Unknown()
	}
	cell := grid.Cell(r, c)
	if sheet.IsBlank(cell) {
		return balance.Unbounded()
	}
	v, ok := sheet.Number(cell)
	if !ok {
		return balance.Unknown()
	}
	return balance.Known(v)
}

func parseDay(label string) (int, bool) {
	if label == "" {
		return 0, false
	}
	for _, ch := range label {
		if ch < '0' || ch > '9' {
			return 0, false
		}
	}
	day, err := strconv.Atoi(label)
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}
