package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/overlay"
	"github.com/auction1/pto-backend-go/internal/domain/pto"
	"github.com/auction1/pto-backend-go/internal/pkg/storage"
	"github.com/shopspring/decimal"
)

const lastUpdatedKey = "__last_updated__"

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

type overlayEntryDoc struct {
	Used    decimal.Decimal `json:"used"`
	Details string          `json:"details"`
}

type overlayRepositoryImpl struct {
	store storage.BlobStore
	loc   *time.Location
}

// NewOverlayRepository reads realtime_usage.json. Timestamps without a zone
// are read in loc.
func NewOverlayRepository(store storage.BlobStore, loc *time.Location) pto.OverlayRepository {
	if loc == nil {
		loc = time.UTC
	}
	return &overlayRepositoryImpl{store: store, loc: loc}
}

// Get implements pto.OverlayRepository.
func (r *overlayRepositoryImpl) Get(ctx context.Context, f *pto.File) (overlay.Snapshot, error) {
	snapshot := overlay.Snapshot{Entries: map[string]overlay.Entry{}}
	if f == nil {
		return snapshot, nil
	}

	data, err := storage.ReadAll(ctx, r.store, f.ID)
	if err != nil {
		return snapshot, fmt.Errorf("download %s: %w", f.Name, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return snapshot, fmt.Errorf("decode %s: %w", f.Name, err)
	}

	for key, raw := range doc {
		if key == lastUpdatedKey {
			var s string
			if err := json.Unmarshal(raw, &s); err == nil {
				snapshot.LastUpdated = r.parseTimestamp(s)
			}
			continue
		}

		var entry overlayEntryDoc
		if err := json.Unmarshal(raw, &entry); err != nil {
			slog.Warn("Skipping malformed overlay entry", "file", f.Name, "name", key, "error", err)
			continue
		}
		snapshot.Entries[strings.Join(strings.Fields(key), "")] = overlay.Entry{
			Used:    entry.Used,
			Details: entry.Details,
		}
	}

	if snapshot.LastUpdated.IsZero() {
		snapshot.LastUpdated = f.ModifiedAt
	}

	return snapshot, nil
}

func (r *overlayRepositoryImpl) parseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, r.loc); err == nil {
			return t
		}
	}
	slog.Warn("Unreadable overlay timestamp", "value", s)
	return time.Time{}
}
