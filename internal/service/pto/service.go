package pto

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/attendance"
	"github.com/auction1/pto-backend-go/internal/domain/balance"
	"github.com/auction1/pto-backend-go/internal/domain/overlay"
	ptoDomain "github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/domain/renewal"
	"github.com/auction1/pto-backend-go/internal/pkg/cache"
	attendanceSvc "github.com/auction1/pto-backend-go/internal/service/attendance"
	balanceSvc "github.com/auction1/pto-backend-go/internal/service/balance"
	renewalSvc "github.com/auction1/pto-backend-go/internal/service/renewal"
	"golang.org/x/sync/errgroup"
)

var _ ptoDomain.PTOService = (*PTOServiceImpl)(nil)

type PTOServiceImpl struct {
	catalog    ptoDomain.CatalogRepository
	sheets     ptoDomain.SheetRepository
	overlays   ptoDomain.OverlayRepository
	overrides  ptoDomain.OverrideRepository
	cache      *cache.Cache
	attendance *attendanceSvc.Extractor
	renewal    *renewalSvc.Extractor
	loc        *time.Location
	now        func() time.Time
}

func NewPTOService(
	catalog ptoDomain.CatalogRepository,
	sheets ptoDomain.SheetRepository,
	overlays ptoDomain.OverlayRepository,
	overrides ptoDomain.OverrideRepository,
	c *cache.Cache,
	loc *time.Location,
) *PTOServiceImpl {
	if loc == nil {
		loc = time.UTC
	}
	return &PTOServiceImpl{
		catalog:    catalog,
		sheets:     sheets,
		overlays:   overlays,
		overrides:  overrides,
		cache:      c,
		attendance: attendanceSvc.NewExtractor(),
		renewal:    renewalSvc.NewExtractor(),
		loc:        loc,
		now:        time.Now,
	}
}

// Balance implements ptoDomain.PTOService.
func (s *PTOServiceImpl) Balance(ctx context.Context, name string) (ptoDomain.BalanceResponse, error) {
	folder, err := s.folder(ctx)
	if err != nil {
		return ptoDomain.BalanceResponse{}, err
	}
	latest, ok := folder.Latest()
	if !ok {
		return ptoDomain.BalanceResponse{}, ptoDomain.ErrNoMonthlyFiles
	}

	var (
		sheet     attendance.Sheet
		renewals  renewal.Sheet
		snapshot  overlay.Snapshot
		schedules balance.StaticRegistry
	)
	now := s.now()

	g, gCtx := errgroup.WithContext(ctx)

	// 1. Latest monthly sheet
	g.Go(func() error {
		data, err := s.attendanceSheet(gCtx, latest.File)
		if err != nil {
			return err
		}
		sheet = data
		return nil
	})

	// 2. Renewal sheet
	g.Go(func() error {
		renewals = s.optionalRenewalSheet(gCtx, folder.Renewal, now)
		return nil
	})

	// 3. Real-time overlay
	g.Go(func() error {
		data, err := s.overlay(gCtx, folder.Overlay)
		if err != nil {
			slog.Warn("Ignoring unreadable overlay", "error", err)
			return nil
		}
		snapshot = data
		return nil
	})

	// 4. Accrual overrides
	g.Go(func() error {
		data, err := s.schedules(gCtx, folder.Overrides)
		if err != nil {
			slog.Warn("Ignoring unreadable accrual overrides", "error", err)
			return nil
		}
		schedules = data
		return nil
	})

	if err := g.Wait(); err != nil {
		return ptoDomain.BalanceResponse{}, err
	}

	record, ok := sheet.Lookup(name)
	if !ok {
		return ptoDomain.BalanceResponse{}, ptoDomain.ErrRecordNotFound
	}

	in := balance.Input{
		Name:        name,
		FileBalance: record.Balance,
		FileEnd:     latest.EndDate(),
		Overlay:     snapshot.For(name),
		Now:         now,
	}
	if r, ok := renewals.Lookup(name); ok {
		in.Renewal = &balance.Grant{Date: r.Date, Quantity: r.Quantity}
	}

	result := balanceSvc.NewReconciler(s.loc, schedules).Reconcile(in)

	resp := ptoDomain.BalanceResponse{
		Name:       name,
		SourceFile: latest.Name,
		Result:     result,
	}
	if latest.HasPeriod {
		resp.Period = latest.Period.String()
	}
	return resp, nil
}

// Months implements ptoDomain.PTOService.
func (s *PTOServiceImpl) Months(ctx context.Context) ([]ptoDomain.MonthSummary, error) {
	folder, err := s.folder(ctx)
	if err != nil {
		return nil, err
	}

	months := make([]ptoDomain.MonthSummary, 0, len(folder.Monthly))
	for _, m := range folder.Monthly {
		months = append(months, ptoDomain.NewMonthSummary(m))
	}
	return months, nil
}

// Month implements ptoDomain.PTOService.
func (s *PTOServiceImpl) Month(ctx context.Context, name, fileID string) (ptoDomain.MonthResponse, error) {
	folder, err := s.folder(ctx)
	if err != nil {
		return ptoDomain.MonthResponse{}, err
	}
	file, ok := folder.MonthlyByID(fileID)
	if !ok {
		return ptoDomain.MonthResponse{}, ptoDomain.ErrMonthNotFound
	}

	sheet, err := s.attendanceSheet(ctx, file.File)
	if err != nil {
		return ptoDomain.MonthResponse{}, err
	}
	record, ok := sheet.Lookup(name)
	if !ok {
		return ptoDomain.MonthResponse{}, ptoDomain.ErrRecordNotFound
	}

	return ptoDomain.MonthResponse{
		MonthSummary: ptoDomain.NewMonthSummary(file),
		Used:         record.Used,
		Balance:      record.Balance,
		Usage:        record.Usage,
		Description:  record.UsageDescription(),
	}, nil
}

// Renewal implements ptoDomain.PTOService.
func (s *PTOServiceImpl) Renewal(ctx context.Context, name string) (ptoDomain.RenewalResponse, error) {
	folder, err := s.folder(ctx)
	if err != nil {
		return ptoDomain.RenewalResponse{}, err
	}
	if folder.Renewal == nil {
		return ptoDomain.RenewalResponse{}, ptoDomain.ErrRenewalNotFound
	}

	now := s.now()
	sheet, err := s.renewalSheet(ctx, *folder.Renewal, now)
	if err != nil {
		return ptoDomain.RenewalResponse{}, err
	}
	record, ok := sheet.Lookup(name)
	if !ok {
		return ptoDomain.RenewalResponse{}, ptoDomain.ErrRenewalNotFound
	}

	today := balance.CivilDate(now.In(s.loc))
	return ptoDomain.RenewalResponse{
		Name:     name,
		Date:     record.Date.Format("2006-01-02"),
		Quantity: record.Quantity,
		Status:   string(record.StatusAt(today)),
	}, nil
}

// Warm implements ptoDomain.PTOService. It parses the latest monthly sheet
// and the renewal sheet so the next view is served from cache.
func (s *PTOServiceImpl) Warm(ctx context.Context) error {
	folder, err := s.folder(ctx)
	if err != nil {
		return err
	}

	g, gCtx := errgroup.WithContext(ctx)
	if latest, ok := folder.Latest(); ok {
		g.Go(func() error {
			_, err := s.attendanceSheet(gCtx, latest.File)
			return err
		})
	}
	if folder.Renewal != nil {
		renewalFile := *folder.Renewal
		g.Go(func() error {
			_, err := s.renewalSheet(gCtx, renewalFile, s.now())
			return err
		})
	}
	return g.Wait()
}

func (s *PTOServiceImpl) folder(ctx context.Context) (ptoDomain.Folder, error) {
	folder, err := s.catalog.Folder(ctx)
	if err != nil {
		slog.Warn("Shared folder unavailable", "error", err)
		return ptoDomain.Folder{}, fmt.Errorf("%w: %v", ptoDomain.ErrDataUnavailable, err)
	}
	return folder, nil
}

// cacheKey changes whenever the file is replaced, so an upload is picked up
// on the next listing.
func cacheKey(kind string, f ptoDomain.File) string {
	return fmt.Sprintf("%s:%s:%d", kind, f.ID, f.ModifiedAt.UnixNano())
}

func (s *PTOServiceImpl) attendanceSheet(ctx context.Context, f ptoDomain.File) (attendance.Sheet, error) {
	return cache.GetOrLoad(s.cache, cacheKey("attendance", f), func() (attendance.Sheet, error) {
		grid, err := s.sheets.Grid(ctx, f)
		if err != nil {
			slog.Warn("Monthly sheet unavailable", "file", f.Name, "error", err)
			return attendance.Sheet{}, fmt.Errorf("%w: %v", ptoDomain.ErrDataUnavailable, err)
		}

		sheet := s.attendance.Extract(grid)
		if sheet.IsEmpty() {
			slog.Info("Monthly sheet has no employee rows", "file", f.Name)
		}
		if len(sheet.Duplicates) > 0 {
			slog.Warn("Duplicate names in monthly sheet, last row wins", "file", f.Name, "names", sheet.Duplicates)
		}
		return sheet, nil
	})
}

func (s *PTOServiceImpl) renewalSheet(ctx context.Context, f ptoDomain.File, now time.Time) (renewal.Sheet, error) {
	key := fmt.Sprintf("%s:%d", cacheKey("renewal", f), now.In(s.loc).Year())
	return cache.GetOrLoad(s.cache, key, func() (renewal.Sheet, error) {
		grid, err := s.sheets.Grid(ctx, f)
		if err != nil {
			slog.Warn("Renewal sheet unavailable", "file", f.Name, "error", err)
			return renewal.Sheet{}, fmt.Errorf("%w: %v", ptoDomain.ErrDataUnavailable, err)
		}

		sheet := s.renewal.Extract(grid, now.In(s.loc))
		if len(sheet.Duplicates) > 0 {
			slog.Warn("Duplicate names in renewal sheet, last row wins", "file", f.Name, "names", sheet.Duplicates)
		}
		return sheet, nil
	})
}

// optionalRenewalSheet treats a missing or unreadable renewal sheet as empty.
func (s *PTOServiceImpl) optionalRenewalSheet(ctx context.Context, f *ptoDomain.File, now time.Time) renewal.Sheet {
	if f == nil {
		return renewal.Sheet{}
	}
	sheet, err := s.renewalSheet(ctx, *f, now)
	if err != nil {
		return renewal.Sheet{}
	}
	return sheet
}

func (s *PTOServiceImpl) overlay(ctx context.Context, f *ptoDomain.File) (overlay.Snapshot, error) {
	if f == nil {
		return overlay.Snapshot{}, nil
	}
	return cache.GetOrLoad(s.cache, cacheKey("overlay", *f), func() (overlay.Snapshot, error) {
		return s.overlays.Get(ctx, f)
	})
}

func (s *PTOServiceImpl) schedules(ctx context.Context, f *ptoDomain.File) (balance.StaticRegistry, error) {
	if f == nil {
		return nil, nil
	}
	return cache.GetOrLoad(s.cache, cacheKey("overrides", *f), func() (balance.StaticRegistry, error) {
		return s.overrides.Get(ctx, f)
	})
}
