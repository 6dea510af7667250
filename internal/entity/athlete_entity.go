package entity

import (
	"time"

	"github.com/google/uuid"
)

type AthleteProfile struct {
	Id              uuid.UUID
	FullName        string
	Email           string
	Goals           []string // first entry is the primary goal
	Sports          []string
	ExperienceLevel string
	WeeklyVolume    *float64
	FtpWatts        *float64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
