package pto

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/balance"
	ptoDomain "github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/pkg/cache"
	"github.com/auction1/pto-backend-go/internal/pkg/sheet"
	"github.com/auction1/pto-backend-go/internal/pkg/storage"
	"github.com/auction1/pto-backend-go/internal/repository/blob"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var kst = time.FixedZone("KST", 9*60*60)

func workbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	for i, row := range rows {
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func monthlyWorkbook(t *testing.T, kimBalance string) []byte {
	return workbook(t, [][]interface{}{
		{"근태현황"},
		{"No", "성명", "1", "3", "10", "연차잔여일"},
		{"1", "김철수", "", "연차", "반차", ""},
		{"", "", "", "", "", kimBalance},
		{"2", "이영희", "", "", "", ""},
		{"", "", "", "", "", ""},
		{"합계"},
	})
}

func renewalWorkbook(t *testing.T) []byte {
	return workbook(t, [][]interface{}{
		{"연차 갱신"},
		{"2026"},
		{},
		{"이름", "월", "일", "올해발생연차개수"},
		{"김철수", "2", "15", "1"},
		{"이영희", "7", "1", "15"},
	})
}

type fixture struct {
	dir   string
	store *storage.LocalStorage
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	return &fixture{dir: dir, store: store}
}

func (f *fixture) write(t *testing.T, name string, data []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.dir, name), data, 0o600))
}

type countingSheets struct {
	next  ptoDomain.SheetRepository
	calls atomic.Int32
}

func (c *countingSheets) Grid(ctx context.Context, f ptoDomain.File) (sheet.Grid, error) {
	c.calls.Add(1)
	return c.next.Grid(ctx, f)
}

func (f *fixture) service(t *testing.T, now time.Time) (*PTOServiceImpl, *countingSheets) {
	t.Helper()
	c, err := cache.New(time.Minute)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	sheets := &countingSheets{next: blob.NewSheetRepository(f.store)}
	svc := NewPTOService(
		blob.NewCatalogRepository(f.store),
		sheets,
		blob.NewOverlayRepository(f.store, kst),
		blob.NewOverrideRepository(f.store),
		c,
		kst,
	)
	svc.now = func() time.Time { return now }
	return svc, sheets
}

func TestBalance_RenewalInsideLatestMonth(t *testing.T) {
	fx := newFixture(t)
	fx.write(t, "2026_1월.xlsx", monthlyWorkbook(t, "9"))
	fx.write(t, "2026_2월.xlsx", monthlyWorkbook(t, "10"))
	fx.write(t, "연차갱신.xlsx", renewalWorkbook(t))
	svc, _ := fx.service(t, time.Date(2026, 3, 5, 10, 0, 0, 0, kst))

	got, err := svc.Balance(context.Background(), "김철수")
	require.NoError(t, err)

	assert.Equal(t, "2026_2월.xlsx", got.SourceFile)
	assert.Equal(t, "2026-02", got.Period)
	assert.True(t, got.Balance.Equal(balance.Known(decimal.NewFromInt(10))), got.Balance.String())
	assert.True(t, got.Bonus.IsZero())
}

func TestBalance_RenewalAfterLatestMonth(t *testing.T) {
	fx := newFixture(t)
	fx.write(t, "2026_1월.xlsx", monthlyWorkbook(t, "10"))
	fx.write(t, "연차갱신.xlsx", renewalWorkbook(t))
	svc, _ := fx.service(t, time.Date(2026, 2, 20, 9, 0, 0, 0, kst))

	got, err := svc.Balance(context.Background(), "김철수")
	require.NoError(t, err)

	assert.True(t, got.Balance.Equal(balance.Known(decimal.NewFromInt(11))), got.Balance.String())
	require.Len(t, got.Grants, 1)
}

func TestBalance_AppliesCurrentOverlay(t *testing.T) {
	fx := newFixture(t)
	fx.write(t, "2026_1월.xlsx", monthlyWorkbook(t, "10"))
	fx.write(t, "realtime_usage.json", []byte(`{"__last_updated__": "2026-02-18 18:00:00", "김철수": {"used": 1.5, "details": "2/3 연차, 2/10 반차"}}`))
	svc, _ := fx.service(t, time.Date(2026, 2, 20, 9, 0, 0, 0, kst))

	got, err := svc.Balance(context.Background(), "김철수")
	require.NoError(t, err)

	assert.True(t, got.OverlayApplied)
	assert.Equal(t, "2/3 연차, 2/10 반차", got.OverlayDetails)
	assert.True(t, got.Balance.Equal(balance.Known(decimal.RequireFromString("8.5"))), got.Balance.String())
}

func TestBalance_AppliesOverrideSchedule(t *testing.T) {
	fx := newFixture(t)
	fx.write(t, "2026_1월.xlsx", monthlyWorkbook(t, "2"))
	fx.write(t, "연차갱신.xlsx", renewalWorkbook(t))
	fx.write(t, "accrual_overrides.json", []byte(`{"김철수": [{"date": "2026-02-01", "quantity": 1}, {"date": "2026-03-01", "quantity": 1}]}`))
	svc, _ := fx.service(t, time.Date(2026, 2, 20, 9, 0, 0, 0, kst))

	got, err := svc.Balance(context.Background(), "김철수")
	require.NoError(t, err)

	assert.True(t, got.OverrideApplied)
	assert.True(t, got.Balance.Equal(balance.Known(decimal.NewFromInt(3))), got.Balance.String())
}

func TestBalance_UnboundedEmployee(t *testing.T) {
	fx := newFixture(t)
	fx.write(t, "2026_1월.xlsx", monthlyWorkbook(t, "10"))
	svc, _ := fx.service(t, time.Date(2026, 2, 20, 9, 0, 0, 0, kst))

	got, err := svc.Balance(context.Background(), "이영희")
	require.NoError(t, err)
	assert.Equal(t, "∞", got.Balance.String())
}

func TestBalance_Errors(t *testing.T) {
	fx := newFixture(t)
	svc, _ := fx.service(t, time.Date(2026, 2, 20, 9, 0, 0, 0, kst))
	ctx := context.Background()

	_, err := svc.Balance(ctx, "김철수")
	assert.ErrorIs(t, err, ptoDomain.ErrNoMonthlyFiles)

	fx.write(t, "2026_1월.xlsx", monthlyWorkbook(t, "10"))
	_, err = svc.Balance(ctx, "박민수")
	assert.ErrorIs(t, err, ptoDomain.ErrRecordNotFound)
}

type failingCatalog struct{}

func (failingCatalog) Folder(ctx context.Context) (ptoDomain.Folder, error) {
	return ptoDomain.Folder{}, errors.New("drive: 503")
}

func TestBalance_RemoteFailureDegrades(t *testing.T) {
	fx := newFixture(t)
	svc, _ := fx.service(t, time.Now())
	svc.catalog = failingCatalog{}

	_, err := svc.Balance(context.Background(), "김철수")
	assert.ErrorIs(t, err, ptoDomain.ErrDataUnavailable)

	_, err = svc.Months(context.Background())
	assert.ErrorIs(t, err, ptoDomain.ErrDataUnavailable)
}

func TestMonthsAndMonth(t *testing.T) {
	fx := newFixture(t)
	fx.write(t, "2025_12월.xlsx", monthlyWorkbook(t, "12"))
	fx.write(t, "2026_1월.xlsx", monthlyWorkbook(t, "10"))
	svc, _ := fx.service(t, time.Date(2026, 2, 20, 9, 0, 0, 0, kst))
	ctx := context.Background()

	months, err := svc.Months(ctx)
	require.NoError(t, err)
	require.Len(t, months, 2)
	assert.Equal(t, "2026-01", months[0].Period)
	assert.Equal(t, "2025_12월.xlsx", months[1].Name)

	got, err := svc.Month(ctx, "김철수", months[1].FileID)
	require.NoError(t, err)
	assert.Equal(t, "1.5", got.Used.String())
	assert.Equal(t, "3일(연차), 10일(반차)", got.Description)
	assert.Equal(t, "12", got.Balance.String())

	_, err = svc.Month(ctx, "김철수", "nope.xlsx")
	assert.ErrorIs(t, err, ptoDomain.ErrMonthNotFound)
}

func TestRenewal(t *testing.T) {
	fx := newFixture(t)
	fx.write(t, "연차갱신.xlsx", renewalWorkbook(t))
	svc, _ := fx.service(t, time.Date(2026, 2, 20, 9, 0, 0, 0, kst))
	ctx := context.Background()

	kim, err := svc.Renewal(ctx, "김철수")
	require.NoError(t, err)
	assert.Equal(t, "2026-02-15", kim.Date)
	assert.Equal(t, "completed", kim.Status)

	lee, err := svc.Renewal(ctx, "이영희")
	require.NoError(t, err)
	assert.Equal(t, "upcoming", lee.Status)
	assert.Equal(t, "15", lee.Quantity.String())

	_, err = svc.Renewal(ctx, "박민수")
	assert.ErrorIs(t, err, ptoDomain.ErrRenewalNotFound)
}

func TestRenewal_NoSheet(t *testing.T) {
	svc, _ := newFixture(t).service(t, time.Now())

	_, err := svc.Renewal(context.Background(), "김철수")
	assert.ErrorIs(t, err, ptoDomain.ErrRenewalNotFound)
}

func TestWarm_FillsCache(t *testing.T) {
	fx := newFixture(t)
	fx.write(t, "2026_1월.xlsx", monthlyWorkbook(t, "10"))
	fx.write(t, "연차갱신.xlsx", renewalWorkbook(t))
	svc, sheets := fx.service(t, time.Date(2026, 2, 20, 9, 0, 0, 0, kst))
	ctx := context.Background()

	require.NoError(t, svc.Warm(ctx))
	assert.Equal(t, int32(2), sheets.calls.Load())

	_, err := svc.Balance(ctx, "김철수")
	require.NoError(t, err)
	_, err = svc.Renewal(ctx, "김철수")
	require.NoError(t, err)
	assert.Equal(t, int32(2), sheets.calls.Load())
}
