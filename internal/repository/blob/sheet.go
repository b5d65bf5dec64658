package blob

import (
	"context"
	"fmt"

	"github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/pkg/sheet"
	"github.com/auction1/pto-backend-go/internal/pkg/storage"
)

type sheetRepositoryImpl struct {
	store storage.BlobStore
}

func NewSheetRepository(store storage.BlobStore) pto.SheetRepository {
	return &sheetRepositoryImpl{store: store}
}

// Grid implements pto.SheetRepository.
func (r *sheetRepositoryImpl) Grid(ctx context.Context, f pto.File) (sheet.Grid, error) {
	data, err := storage.ReadAll(ctx, r.store, f.ID)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", f.Name, err)
	}
	return sheet.Read(data), nil
}
