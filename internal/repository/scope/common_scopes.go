package scope

import "gorm.io/gorm"

// OrderByAtDesc lists time-stamped log rows newest first.
func OrderByAtDesc(db *gorm.DB) *gorm.DB {
	return db.Order("at DESC")
}
