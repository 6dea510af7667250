package events

import (
	"encoding/json"
	"fmt"
	"time"

	"ai-coach-be/pkg/plandoc"

	"github.com/google/uuid"
)

const (
	// PlanUpdatedTopic is the in-process topic written after a plan commit.
	PlanUpdatedTopic = "plan.updated"
	// PlanUpdatedType is the cross-service event type (subject events.PLAN_UPDATED).
	PlanUpdatedType = "PLAN_UPDATED"
)

// WeekRange spans the plan's weeks, last week start + 6 days inclusive.
type WeekRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// PlanUpdated is emitted once per committed plan version.
type PlanUpdated struct {
	AthleteID   uuid.UUID        `json:"athlete_id"`
	VersionFrom int              `json:"version_from"`
	VersionTo   int              `json:"version_to"`
	Reason      string           `json:"reason"`
	Diff        plandoc.PlanDiff `json:"diff"`
	Range       *WeekRange       `json:"range,omitempty"`
	OccurredAt  time.Time        `json:"occurred_at"`
}

// RangeOf returns the date span covered by the plan, nil when it has no weeks.
func RangeOf(p *plandoc.Plan) *WeekRange {
	if p == nil || len(p.Weeks) == 0 {
		return nil
	}
	from, to := p.Weeks[0].Start, p.Weeks[0].Start
	for _, w := range p.Weeks {
		if w.Start < from {
			from = w.Start
		}
		if w.Start > to {
			to = w.Start
		}
	}
	if last, err := plandoc.ParseDate(to); err == nil {
		to = plandoc.FormatDate(last.AddDate(0, 0, 6))
	}
	return &WeekRange{From: from, To: to}
}

// ToMap flattens the event for the generic NATS payload.
func (e PlanUpdated) ToMap() (map[string]interface{}, error) {
	raw, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PlanUpdatedFromMap is the inverse of ToMap.
func PlanUpdatedFromMap(data map[string]interface{}) (PlanUpdated, error) {
	var e PlanUpdated
	raw, err := json.Marshal(data)
	if err != nil {
		return e, err
	}
	if err := json.Unmarshal(raw, &e); err != nil {
		return e, fmt.Errorf("decode plan updated: %w", err)
	}
	if e.AthleteID == uuid.Nil {
		return e, fmt.Errorf("decode plan updated: missing athlete_id")
	}
	return e, nil
}
