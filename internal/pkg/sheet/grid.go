package sheet

import (
	"bytes"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Grid is the first worksheet of a workbook as rows of cell text.
// Rows may have different lengths; missing cells read as "".
type Grid [][]string

// Read parses workbook bytes into a Grid. Malformed input yields an empty
// grid; callers treat that as "no data".
func Read(data []byte) Grid {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		slog.Warn("Unreadable workbook", "error", err)
		return Grid{}
	}
	defer func() { _ = file.Close() }()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		slog.Warn("Workbook has no worksheet")
		return Grid{}
	}

	// Raw values: number formats such as 0.0"일" must not leak into the text.
	rows, err := file.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		slog.Warn("Failed to read worksheet rows", "sheet", sheetName, "error", err)
		return Grid{}
	}
	return Grid(rows)
}

// Len returns the number of rows.
func (g Grid) Len() int {
	return len(g)
}

// Row returns row r, or nil when out of range.
func (g Grid) Row(r int) []string {
	if r < 0 || r >= len(g) {
		return nil
	}
	return g[r]
}

// Cell returns the text at (r, c), or "" when out of range.
func (g Grid) Cell(r, c int) string {
	row := g.Row(r)
	if c < 0 || c >= len(row) {
		return ""
	}
	return row[c]
}

// Normalize strips every space and line break from a cell, the way header
// labels are compared.
func Normalize(s string) string {
	return strings.NewReplacer(" ", "", "\n", "", "\r", "", "\t", "", "\u00a0", "").Replace(s)
}

// IsBlank reports whether a cell has no value. "nan" is what spreadsheet
// exports write for empty numeric cells.
func IsBlank(s string) bool {
	t := strings.TrimSpace(s)
	return t == "" || strings.EqualFold(t, "nan")
}

// Number reads a numeric cell such as "10", "10.5" or "1,234.5".
func Number(cell string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return v, true
}

// Int reads a cell holding a whole number; "3" and "3.0" both yield 3.
func Int(cell string) (int, bool) {
	v, ok := Number(cell)
	if !ok || !v.Equal(v.Truncate(0)) {
		return 0, false
	}
	return int(v.IntPart()), true
}
