package events

import (
	"context"

	"ai-coach-be/internal/pkg/logger"
	pkgEvents "ai-coach-be/pkg/events"
	pktNats "ai-coach-be/pkg/nats"
)

// Publisher forwards domain events to other services.
type Publisher interface {
	PublishPlanUpdated(ctx context.Context, evt PlanUpdated) error
}

// NatsPublisher implements Publisher using NATS
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

func NewNatsPublisher(publisher *pktNats.Publisher, logger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    logger,
	}
}

// Enabled reports whether a NATS connection is configured.
func (p *NatsPublisher) Enabled() bool {
	return p != nil && p.publisher != nil
}

// PublishPlanUpdated emits PLAN_UPDATED.
func (p *NatsPublisher) PublishPlanUpdated(ctx context.Context, evt PlanUpdated) error {
	if !p.Enabled() {
		return nil
	}

	data, err := evt.ToMap()
	if err != nil {
		return err
	}
	base := pkgEvents.BaseEvent{Type: PlanUpdatedType, Data: data, OccurredAt: evt.OccurredAt}

	if err := p.publisher.Publish(ctx, base); err != nil {
		p.logger.Error("EVENTS", "Failed to publish PLAN_UPDATED event", map[string]interface{}{
			"athlete_id": evt.AthleteID,
			"version":    evt.VersionTo,
			"error":      err.Error(),
		})
		return err
	}
	return nil
}
