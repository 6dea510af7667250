// Package events holds the broker-neutral envelope for domain events such
// as PLAN_UPDATED. Plan writes publish it on the in-process bus and, when
// NATS is reachable, on the JetStream subject events.<type>.
package events

import "time"

type Event interface {
	// EventType is the upper-case code, e.g. "PLAN_UPDATED".
	EventType() string
	Payload() map[string]interface{}
	Timestamp() time.Time
}

// BaseEvent is what subscribers decode from the wire: the payload arrives
// as a generic map and typed consumers convert it back.
type BaseEvent struct {
	Type       string                 `json:"type"`
	Data       map[string]interface{} `json:"data"`
	OccurredAt time.Time              `json:"occurredAt"`
}

var _ Event = BaseEvent{}

func (e BaseEvent) EventType() string               { return e.Type }
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }
func (e BaseEvent) Timestamp() time.Time            { return e.OccurredAt }
