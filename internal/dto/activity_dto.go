package dto

import (
	"time"

	"ai-coach-be/pkg/metrics"

	"github.com/google/uuid"
)

type ManualActivityRequest struct {
	Sport         string               `json:"sport" validate:"required,oneof=cycling climbing running strength"`
	Name          string               `json:"name" validate:"required,max=255"`
	StartDate     time.Time            `json:"start_date" validate:"required"`
	MovingSeconds int                  `json:"moving_time_s" validate:"gte=0"`
	DistanceM     float64              `json:"distance_m" validate:"gte=0"`
	AveragePower  *float64             `json:"average_power" validate:"omitempty,gt=0"`
	WorkKj        *float64             `json:"work_kj" validate:"omitempty,gte=0"`
	Zones         *metrics.ZoneSeconds `json:"zone_seconds"`
	Notes         string               `json:"notes" validate:"max=2000"`
}

type ActivityResponse struct {
	Id        uuid.UUID         `json:"id"`
	Sport     string            `json:"sport"`
	Name      string            `json:"name"`
	StartDate time.Time         `json:"start_date"`
	Computed  *metrics.Computed `json:"computed,omitempty"`
}

type BackfillResponse struct {
	Scanned int `json:"scanned"`
	Updated int `json:"updated"`
	Skipped int `json:"skipped"`
}

// WebhookActivity is what the activity provider pushes for a new upload.
type WebhookActivity struct {
	Id            string   `json:"id"`
	Date          string   `json:"date" validate:"required"`
	Sport         string   `json:"sport"`
	Name          string   `json:"name"`
	MovingSeconds int      `json:"moving_time" validate:"gte=0"`
	AveragePower  *float64 `json:"average_power"`
}

type ActivityWebhookRequest struct {
	UserId   uuid.UUID       `json:"userId" validate:"required"`
	Activity WebhookActivity `json:"activity" validate:"required"`
}

type ActivityWebhookResponse struct {
	PlanUpdated bool `json:"planUpdated"`
	Version     int  `json:"version,omitempty"`
}
