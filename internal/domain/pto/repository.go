package pto

import (
	"context"

	"github.com/auction1/pto-backend-go/internal/domain/balance"
	"github.com/auction1/pto-backend-go/internal/domain/overlay"
	"github.com/auction1/pto-backend-go/internal/pkg/sheet"
)

// CatalogRepository lists and classifies the shared folder.
type CatalogRepository interface {
	Folder(ctx context.Context) (Folder, error)
}

// SheetRepository downloads a spreadsheet as a cell grid.
type SheetRepository interface {
	Grid(ctx context.Context, f File) (sheet.Grid, error)
}

// OverlayRepository reads the real-time usage document. A nil file yields
// an empty snapshot.
type OverlayRepository interface {
	Get(ctx context.Context, f *File) (overlay.Snapshot, error)
}

// OverrideRepository reads per-employee accrual schedules. A nil file
// yields an empty registry.
type OverrideRepository interface {
	Get(ctx context.Context, f *File) (balance.StaticRegistry, error)
}
