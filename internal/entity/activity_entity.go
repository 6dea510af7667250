package entity

import (
	"encoding/json"
	"time"

	"ai-coach-be/pkg/metrics"

	"github.com/google/uuid"
)

const (
	ActivitySourceManual = "manual"
	ActivitySourceStrava = "strava"
)

type Activity struct {
	Id               uuid.UUID
	UserId           uuid.UUID
	ExternalId       *string
	Source           string
	Sport            string
	Name             string
	StartDate        time.Time
	MovingTime       int
	Distance         float64
	AveragePower     *float64
	AverageHeartrate *float64
	Kilojoules       *float64
	Metadata         map[string]interface{}
	CreatedAt        time.Time
}

// Computed returns metadata.computed when it carries a stress value.
func (a *Activity) Computed() (*metrics.Computed, bool) {
	var c struct {
		IntensityFactor *float64 `json:"intensityFactor"`
		Stress          *float64 `json:"stress"`
	}
	if !decodeMetadataKey(a.Metadata, "computed", &c) || c.Stress == nil {
		return nil, false
	}
	out := &metrics.Computed{Stress: *c.Stress}
	if c.IntensityFactor != nil {
		out.IntensityFactor = *c.IntensityFactor
	}
	return out, true
}

// ZoneSeconds returns metadata.zoneSeconds if present.
func (a *Activity) ZoneSeconds() *metrics.ZoneSeconds {
	var z metrics.ZoneSeconds
	if !decodeMetadataKey(a.Metadata, "zoneSeconds", &z) {
		return nil
	}
	return &z
}

func decodeMetadataKey(meta map[string]interface{}, key string, out interface{}) bool {
	v, ok := meta[key]
	if !ok || v == nil {
		return false
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}
