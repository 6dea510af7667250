package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type DecisionLog struct {
	Id       uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId   uuid.UUID      `gorm:"type:uuid;not null;index"`
	At       time.Time      `gorm:"not null;default:now();index"`
	Actions  datatypes.JSON `gorm:"type:jsonb"`
	Messages datatypes.JSON `gorm:"type:jsonb"`
	Range    datatypes.JSON `gorm:"type:jsonb"`
}

func (DecisionLog) TableName() string {
	return "decision_log"
}
