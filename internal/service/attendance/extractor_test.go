package attendance

import (
	"testing"

	"github.com/auction1/pto-backend-go/internal/domain/attendance"
	"github.com/auction1/pto-backend-go/internal/domain/balance"
	"github.com/auction1/pto-backend-go/internal/pkg/sheet"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyGrid() sheet.Grid {
	return sheet.Grid{
		{"2026년 1월 근태현황"},
		{"No", "성 명", "직급", "1", "2", "3", "4", "10", "비고", "연차\n잔여일"},
		{"1", "김철수", "대리", "", "", "연차", "", "오후반차", "", ""},
		{"", "", "", "", "", "", "", "", "", "10"},
		{"2", "이영희", "과장", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", ""},
		{"3", "박민수", "사원", "", "", "", "", "", "", ""},
		{"", "", "", "", "", "", "", "", "", "확인필요"},
		{"", "nan", "", "", "", "", "", "", "", ""},
		{"4", "최지우", "부장", "", "", "", "", "", "", ""},
	}
}

func TestExtract_UsageAndBalance(t *testing.T) {
	got := NewExtractor().Extract(monthlyGrid())

	kim, ok := got.Lookup("김철수")
	require.True(t, ok)
	assert.True(t, kim.Used.Equal(decimal.RequireFromString("1.5")), kim.Used.String())
	assert.Equal(t, "3일(연차), 10일(반차)", kim.UsageDescription())
	assert.True(t, kim.Balance.Equal(balance.Known(decimal.NewFromInt(10))))
	assert.Empty(t, got.Duplicates)
}

func TestExtract_BalanceStates(t *testing.T) {
	got := NewExtractor().Extract(monthlyGrid())

	lee, ok := got.Lookup("이영희")
	require.True(t, ok)
	assert.Equal(t, balance.StateUnbounded, lee.Balance.State())
	assert.Equal(t, "-", lee.UsageDescription())
	assert.True(t, lee.Used.IsZero())

	park, ok := got.Lookup("박민수")
	require.True(t, ok)
	assert.Equal(t, balance.StateUnknown, park.Balance.State())

	// Last employee's blank balance row was dropped by the reader.
	choi, ok := got.Lookup("최지우")
	require.True(t, ok)
	assert.Equal(t, balance.StateUnbounded, choi.Balance.State())

	_, ok = got.Lookup("nan")
	assert.False(t, ok)
	assert.Len(t, got.Records, 4)
}

func TestExtract_BalanceLabelOnSecondHeaderRow(t *testing.T) {
	grid := sheet.Grid{
		{"성명", "1", "2", "잔여"},
		{"", "", "", "연차잔여일"},
		{"김철수", "반차", "", ""},
		{"", "", "", "7.5"},
	}

	got := NewExtractor().Extract(grid)

	kim, ok := got.Lookup("김철수")
	require.True(t, ok)
	assert.True(t, kim.Balance.Equal(balance.Known(decimal.RequireFromString("7.5"))))
	require.Len(t, kim.Usage, 1)
	assert.Equal(t, attendance.UsageHalfDay, kim.Usage[0].Kind)
}

func TestExtract_MissingBalanceColumnIsUnknown(t *testing.T) {
	grid := sheet.Grid{
		{"성명", "1"},
		{"김철수", "연차"},
		{"", "12"},
	}

	kim, ok := NewExtractor().Extract(grid).Lookup("김철수")
	require.True(t, ok)
	assert.Equal(t, balance.StateUnknown, kim.Balance.State())
	assert.True(t, kim.Used.Equal(decimal.NewFromInt(1)))
}

func TestExtract_NoHeaderYieldsEmptySheet(t *testing.T) {
	grid := sheet.Grid{
		{"이름", "1", "2"},
		{"김철수", "연차", ""},
	}

	got := NewExtractor().Extract(grid)
	assert.True(t, got.IsEmpty())
	assert.True(t, NewExtractor().Extract(sheet.Grid{}).IsEmpty())
}

func TestExtract_DuplicateNameLastRowWins(t *testing.T) {
	grid := sheet.Grid{
		{"성명", "1", "연차잔여일"},
		{"김철수", "", ""},
		{"", "", "5"},
		{"김철수", "연차", ""},
		{"", "", "9"},
	}

	got := NewExtractor().Extract(grid)

	kim, ok := got.Lookup("김철수")
	require.True(t, ok)
	assert.True(t, kim.Balance.Equal(balance.Known(decimal.NewFromInt(9))))
	assert.Equal(t, []string{"김철수"}, got.Duplicates)
}

func TestExtract_IgnoresNonDayHeaders(t *testing.T) {
	grid := sheet.Grid{
		{"성명", "0", "32", "1일", "15", "연차잔여일"},
		{"김철수", "연차", "연차", "연차", "연차", ""},
		{"", "", "", "", "", "1,234.5"},
	}

	kim, ok := NewExtractor().Extract(grid).Lookup("김철수")
	require.True(t, ok)
	require.Len(t, kim.Usage, 1)
	assert.Equal(t, 15, kim.Usage[0].Day)
	assert.True(t, kim.Balance.Equal(balance.Known(decimal.RequireFromString("1234.5"))))
}
