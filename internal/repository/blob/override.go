package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/balance"
	"github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/domain/user"
	"github.com/auction1/pto-backend-go/internal/pkg/storage"
	"github.com/shopspring/decimal"
)

type grantDoc struct {
	Date     string          `json:"date"`
	Quantity decimal.Decimal `json:"quantity"`
}

type overrideRepositoryImpl struct {
	store storage.BlobStore
}

// NewOverrideRepository reads accrual_overrides.json:
// {"name": [{"date": "2026-03-01", "quantity": 1}, ...]}.
func NewOverrideRepository(store storage.BlobStore) pto.OverrideRepository {
	return &overrideRepositoryImpl{store: store}
}

// Get implements pto.OverrideRepository.
func (r *overrideRepositoryImpl) Get(ctx context.Context, f *pto.File) (balance.StaticRegistry, error) {
	registry := balance.StaticRegistry{}
	if f == nil {
		return registry, nil
	}

	data, err := storage.ReadAll(ctx, r.store, f.ID)
	if err != nil {
		return registry, fmt.Errorf("download %s: %w", f.Name, err)
	}

	var doc map[string][]grantDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return registry, fmt.Errorf("%w: %v", pto.ErrInvalidOverrides, err)
	}

	for name, grants := range doc {
		schedule := make(balance.Schedule, 0, len(grants))
		for _, g := range grants {
			date, err := time.Parse("2006-01-02", g.Date)
			if err != nil {
				return balance.StaticRegistry{}, fmt.Errorf("%w: %s: date %q", pto.ErrInvalidOverrides, name, g.Date)
			}
			schedule = append(schedule, balance.Grant{Date: date, Quantity: g.Quantity})
		}
		// Keys written as "김 철수" and "김철수" name the same employee.
		key := user.NormalizeName(name)
		registry[key] = append(registry[key], schedule...)
	}

	return registry, nil
}
