package model

import (
	"time"

	"ai-coach-be/pkg/plandoc"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// TrainingPlan stores every version of an athlete's plan. The partial unique
// index on (user_id) WHERE is_active is created by cmd/migrate.
type TrainingPlan struct {
	Id        uuid.UUID                        `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId    uuid.UUID                        `gorm:"type:uuid;not null;uniqueIndex:idx_training_plans_user_version,priority:1"`
	Version   int                              `gorm:"not null;uniqueIndex:idx_training_plans_user_version,priority:2"`
	WeekStart string                           `gorm:"type:varchar(10);not null"`
	IsActive  bool                             `gorm:"not null;default:false"`
	PlanType  string                           `gorm:"type:varchar(30);not null;default:'weekly'"`
	Reason    string                           `gorm:"type:varchar(30)"`
	Document  datatypes.JSONType[plandoc.Plan] `gorm:"type:jsonb;not null"`
	CreatedAt time.Time                        `gorm:"autoCreateTime"`
	UpdatedAt time.Time                        `gorm:"autoUpdateTime"`
}

func (TrainingPlan) TableName() string {
	return "training_plans"
}
