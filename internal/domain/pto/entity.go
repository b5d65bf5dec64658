package pto

import (
	"time"

	"github.com/auction1/pto-backend-go/internal/domain/attendance"
)

// Well-known document names in the shared folder.
const (
	UserDBFile    = "user_db.json"
	OverlayFile   = "realtime_usage.json"
	OverridesFile = "accrual_overrides.json"
)

// File is one entry of the shared folder.
type File struct {
	ID         string
	Name       string
	ModifiedAt time.Time
}

// MonthlyFile is an attendance sheet. HasPeriod is false when the name
// carries no {year}_{month}.
type MonthlyFile struct {
	File
	Period    attendance.Period
	HasPeriod bool
}

// EndDate is the last day of the sheet's month, or nil when unknown.
func (m MonthlyFile) EndDate() *time.Time {
	if !m.HasPeriod {
		return nil
	}
	end := m.Period.EndDate()
	return &end
}

// Folder is the classified content of the shared folder. Monthly is newest
// first.
type Folder struct {
	UserDB    *File
	Overlay   *File
	Overrides *File
	Renewal   *File
	Monthly   []MonthlyFile
}

// Latest returns the newest monthly sheet.
func (f Folder) Latest() (MonthlyFile, bool) {
	if len(f.Monthly) == 0 {
		return MonthlyFile{}, false
	}
	return f.Monthly[0], true
}

func (f Folder) MonthlyByID(id string) (MonthlyFile, bool) {
	for _, m := range f.Monthly {
		if m.ID == id {
			return m, true
		}
	}
	return MonthlyFile{}, false
}
