package blob

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/auction1/pto-backend-go/internal/domain/attendance"
	"github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/pkg/storage"
)

var renewalMarkers = []string{"renewal", "갱신"}

type catalogRepositoryImpl struct {
	store storage.BlobStore
}

func NewCatalogRepository(store storage.BlobStore) pto.CatalogRepository {
	return &catalogRepositoryImpl{store: store}
}

// Folder implements pto.CatalogRepository.
func (r *catalogRepositoryImpl) Folder(ctx context.Context) (pto.Folder, error) {
	objects, err := r.store.List(ctx)
	if err != nil {
		return pto.Folder{}, fmt.Errorf("list folder: %w", err)
	}
	return Classify(objects), nil
}

// Classify sorts folder entries into the well-known documents, the renewal
// sheet and the monthly sheets (newest period first).
func Classify(objects []storage.Object) pto.Folder {
	var folder pto.Folder

	for _, o := range objects {
		f := pto.File{ID: o.ID, Name: o.Name, ModifiedAt: o.ModifiedAt}
		lower := strings.ToLower(o.Name)

		switch {
		case strings.HasPrefix(o.Name, "~$"):
			// Office lock file
		case o.Name == pto.UserDBFile:
			folder.UserDB = &f
		case o.Name == pto.OverlayFile:
			folder.Overlay = &f
		case o.Name == pto.OverridesFile:
			folder.Overrides = &f
		case isRenewal(lower):
			if folder.Renewal == nil || f.ModifiedAt.After(folder.Renewal.ModifiedAt) {
				folder.Renewal = &f
			}
		case path.Ext(lower) == ".xlsx":
			m := pto.MonthlyFile{File: f}
			m.Period, m.HasPeriod = attendance.ParsePeriod(o.Name)
			folder.Monthly = append(folder.Monthly, m)
		}
	}

	sort.SliceStable(folder.Monthly, func(i, j int) bool {
		a, b := folder.Monthly[i], folder.Monthly[j]
		if a.HasPeriod != b.HasPeriod {
			return a.HasPeriod
		}
		if a.HasPeriod && a.Period != b.Period {
			return b.Period.Before(a.Period)
		}
		return a.Name > b.Name
	})

	return folder
}

func isRenewal(lowerName string) bool {
	for _, m := range renewalMarkers {
		if strings.Contains(lowerName, m) {
			return true
		}
	}
	return false
}
