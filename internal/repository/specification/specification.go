package specification

import "gorm.io/gorm"

// Specification narrows a repository query. Athlete-scoped reads always
// combine UserOwnedBy with the filters below, so one athlete's plans,
// activities and memory never leak into another's result set.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
