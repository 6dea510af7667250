package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AthleteProfile struct {
	Id              uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FullName        string                      `gorm:"type:varchar(255)"`
	Email           string                      `gorm:"type:varchar(255);index"`
	Goals           datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	Sports          datatypes.JSONSlice[string] `gorm:"type:jsonb"`
	ExperienceLevel string                      `gorm:"type:varchar(20)"`
	WeeklyVolume    *float64                    `gorm:"type:numeric(5,2)"` // hours
	FtpWatts        *float64                    `gorm:"type:numeric(6,1)"`
	CreatedAt       time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt       time.Time                   `gorm:"autoUpdateTime"`
}

func (AthleteProfile) TableName() string {
	return "athlete_profiles"
}
