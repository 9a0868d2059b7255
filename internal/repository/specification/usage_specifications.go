package specification

import (
	"time"

	"gorm.io/gorm"
)

// OnUsageDate filters DailyUsage rows by their calendar day.
type OnUsageDate struct {
	Date time.Time
}

func (s OnUsageDate) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("usage_date = ?", s.Date.Format("2006-01-02"))
}

// CreatedOnDay filters rows whose created_at falls on the given calendar
// day in the server's local time.
type CreatedOnDay struct {
	Day time.Time
}

func (s CreatedOnDay) Apply(db *gorm.DB) *gorm.DB {
	start := time.Date(s.Day.Year(), s.Day.Month(), s.Day.Day(), 0, 0, 0, 0, s.Day.Location())
	end := start.AddDate(0, 0, 1)
	return db.Where("created_at >= ? AND created_at < ?", start, end)
}

// OfUploadKind filters upload records by kind (pdf | image).
type OfUploadKind struct {
	Kind string
}

func (s OfUploadKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}
