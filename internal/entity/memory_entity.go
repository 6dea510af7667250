package entity

import (
	"encoding/json"
	"time"

	"ai-coach-be/pkg/plandoc"

	"github.com/google/uuid"
)

// MemoryRecord is a stored, already compacted JSON artifact.
type MemoryRecord struct {
	UserId    uuid.UUID
	Data      json.RawMessage
	UpdatedAt time.Time
}

type ConversationMemory struct {
	UserId    uuid.UUID
	Bullets   []string
	UpdatedAt time.Time
}

type DecisionLog struct {
	Id       uuid.UUID
	UserId   uuid.UUID
	At       time.Time
	Actions  json.RawMessage
	Messages json.RawMessage
	Range    json.RawMessage
}

type DossierGoals struct {
	Primary   *string  `json:"primary"`
	Secondary []string `json:"secondary"`
}

type DossierThresholds struct {
	FtpWatts *float64 `json:"ftpWatts,omitempty"`
}

// Dossier holds the slow-changing athlete facts.
type Dossier struct {
	ID                string                   `json:"id"`
	Name              *string                  `json:"name"`
	Email             *string                  `json:"email"`
	WeeklyHoursTarget *float64                 `json:"weeklyHoursTarget"`
	SportsEmphasis    []string                 `json:"sportsEmphasis"`
	Goals             *DossierGoals            `json:"goals"`
	Thresholds        DossierThresholds        `json:"thresholds"`
	Experience        map[plandoc.Sport]string `json:"experience,omitempty"`
	Constraints       []plandoc.Injury         `json:"constraints"`
	LastUpdated       string                   `json:"lastUpdated"`
}

type PersonalRecord struct {
	Sport      string  `json:"sport"`
	Kind       string  `json:"kind"`
	Value      float64 `json:"value"`
	Date       string  `json:"date"`
	ActivityID string  `json:"activityId"`
}

const (
	RecordLongestMovingTime = "longest_moving_time"
	RecordBestAveragePower  = "best_avg_power"
)

type DigestFlags struct {
	Readiness string  `json:"readiness"`
	Ratio     float64 `json:"ratio"`
	Basis     string  `json:"basis"`
}

// Digest is the rolling 90-day training summary.
type Digest struct {
	Chronic     float64            `json:"ctl"`
	Acute       float64            `json:"atl"`
	TSB         float64            `json:"tsb"`
	Stress7d    float64            `json:"tss7"`
	Stress28d   float64            `json:"tss28"`
	Stress90d   float64            `json:"tss90"`
	Monotony    float64            `json:"monotony"`
	Strain      float64            `json:"strain"`
	LoadBySport map[string]float64 `json:"loadBySport"`
	RecentPRs   []PersonalRecord   `json:"recentPRs"`
	RecentFlags *DigestFlags       `json:"recentFlags"`
	GeneratedAt string             `json:"generatedAt"`
}
