package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// One row per athlete for each memory artifact.

type MemoryDossier struct {
	UserId    uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Data      datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time      `gorm:"not null;default:now()"`
}

func (MemoryDossier) TableName() string {
	return "memory_dossier"
}

type MemoryDigest struct {
	UserId      uuid.UUID      `gorm:"type:uuid;primaryKey"`
	Data        datatypes.JSON `gorm:"type:jsonb;not null"`
	GeneratedAt time.Time      `gorm:"not null;default:now()"`
}

func (MemoryDigest) TableName() string {
	return "memory_digest"
}

type MemoryConversation struct {
	UserId    uuid.UUID                   `gorm:"type:uuid;primaryKey"`
	Bullets   datatypes.JSONSlice[string] `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time                   `gorm:"not null;default:now()"`
}

func (MemoryConversation) TableName() string {
	return "memory_conversation"
}
