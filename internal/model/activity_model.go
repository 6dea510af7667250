package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Activity struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index:idx_activities_user_start,priority:1"`
	ExternalId       *string   `gorm:"type:varchar(64);uniqueIndex"`
	Source           string    `gorm:"type:varchar(20);not null;default:'manual'"`
	Sport            string    `gorm:"type:varchar(20);not null"`
	Name             string    `gorm:"type:varchar(255)"`
	StartDate        time.Time `gorm:"not null;index:idx_activities_user_start,priority:2"`
	MovingTime       int       `gorm:"not null;default:0"` // seconds
	Distance         float64   `gorm:"not null;default:0"` // meters
	AveragePower     *float64
	AverageHeartrate *float64
	Kilojoules       *float64
	Metadata         datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt        time.Time         `gorm:"autoCreateTime"`
}

func (Activity) TableName() string {
	return "activities"
}
