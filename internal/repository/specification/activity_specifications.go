package specification

import (
	"time"

	"gorm.io/gorm"
)

// StartedBetween filters activities with from <= start_date < to. A zero
// bound is open.
type StartedBetween struct {
	From time.Time
	To   time.Time
}

func (s StartedBetween) Apply(db *gorm.DB) *gorm.DB {
	if !s.From.IsZero() {
		db = db.Where("start_date >= ?", s.From)
	}
	if !s.To.IsZero() {
		db = db.Where("start_date < ?", s.To)
	}
	return db
}
