package overlay

import (
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/balance"
	"github.com/shopspring/decimal"
)

// Entry is one employee's usage collected since the latest monthly sheet.
type Entry struct {
	Used    decimal.Decimal
	Details string
}

// Snapshot is the whole real-time usage document. LastUpdated is zero when
// neither the document nor its file carries a timestamp.
type Snapshot struct {
	Entries     map[string]Entry
	LastUpdated time.Time
}

// For returns name's entry as a reconciler overlay, or nil.
func (s Snapshot) For(name string) *balance.Overlay {
	e, ok := s.Entries[name]
	if !ok {
		return nil
	}
	return &balance.Overlay{Used: e.Used, Details: e.Details, UpdatedAt: s.LastUpdated}
}
